// Package ring is a bounded byte queue for the bridge's outbound paths.
//
// Indices are monotonic and masked on access, so capacity must be a power of
// two. Push never overwrites queued data: bytes beyond the free space are
// refused and the caller accounts for them. Not safe for concurrent use.
package ring

import "miniconsole-go/x/mathx"

type Ring struct {
	buf  []byte
	mask uint32
	rd   uint32 // consumer index (monotonic)
	wr   uint32 // producer index (monotonic)
}

func New(size int) *Ring {
	if size < 2 || !mathx.IsPow2(size) {
		panic("ring: size must be power of two >= 2")
	}
	return &Ring{buf: make([]byte, size), mask: uint32(size - 1)}
}

func (r *Ring) Cap() int   { return len(r.buf) }
func (r *Ring) Len() int   { return int(r.wr - r.rd) }
func (r *Ring) Space() int { return len(r.buf) - r.Len() }

// Push copies as much of src as fits and returns the count accepted.
func (r *Ring) Push(src []byte) (n int) {
	n = r.Space()
	if n <= 0 || len(src) == 0 {
		return 0
	}
	if len(src) < n {
		n = len(src)
	}
	size := uint32(len(r.buf))
	wrIdx := r.wr & r.mask
	first := int(size - wrIdx)
	if first > n {
		first = n
	}
	copy(r.buf[wrIdx:wrIdx+uint32(first)], src[:first])
	if second := n - first; second > 0 {
		copy(r.buf[:second], src[first:n])
	}
	r.wr += uint32(n)
	return n
}

// Peek returns the queued bytes as up to two contiguous spans, oldest first.
// The spans alias the ring and are valid until the next Push or Discard.
func (r *Ring) Peek() (p1, p2 []byte) {
	n := r.Len()
	if n == 0 {
		return nil, nil
	}
	size := uint32(len(r.buf))
	rdIdx := r.rd & r.mask
	first := int(size - rdIdx)
	if first >= n {
		return r.buf[rdIdx : rdIdx+uint32(n)], nil
	}
	return r.buf[rdIdx:], r.buf[:n-first]
}

// Discard drops up to n bytes from the head.
func (r *Ring) Discard(n int) {
	if l := r.Len(); n > l {
		n = l
	}
	if n > 0 {
		r.rd += uint32(n)
	}
}

// Pop copies up to len(dst) bytes out of the ring.
func (r *Ring) Pop(dst []byte) int {
	p1, p2 := r.Peek()
	n := copy(dst, p1)
	if n == len(p1) {
		n += copy(dst[n:], p2)
	}
	r.Discard(n)
	return n
}

// Reset empties the ring and returns how many bytes were dropped.
func (r *Ring) Reset() int {
	n := r.Len()
	r.rd = r.wr
	return n
}
