// Package conv formats integers without fmt or strconv, which keeps the
// firmware image small. Append functions do not allocate when dst has room.
package conv

// AppendUint appends the decimal form of n to dst.
func AppendUint(dst []byte, n uint64) []byte {
	var b [20]byte
	i := len(b)
	for {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, b[i:]...)
}

// AppendInt appends the decimal form of n to dst.
func AppendInt(dst []byte, n int64) []byte {
	if n < 0 {
		dst = append(dst, '-')
		return AppendUint(dst, uint64(-(n+1))+1)
	}
	return AppendUint(dst, uint64(n))
}

// Itoa returns the decimal form of n.
func Itoa(n int) string {
	var b [24]byte
	return string(AppendInt(b[:0], int64(n)))
}

// Utoa returns the decimal form of n.
func Utoa(n uint32) string {
	var b [10]byte
	return string(AppendUint(b[:0], uint64(n)))
}
