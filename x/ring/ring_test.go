package ring

import (
	"bytes"
	"testing"
)

// fakeIO models partial consumer progress (accept up to k bytes per call).
type fakeIO struct{ k int }

func (f fakeIO) accept(p []byte) int {
	if len(p) > f.k {
		return f.k
	}
	return len(p)
}

func TestOrderAcrossWrapWithPartialProgress(t *testing.T) {
	r := New(64)
	cons := fakeIO{k: 5}

	const N = 2000
	src := make([]byte, N)
	for i := range src {
		src[i] = byte(i)
	}

	var got []byte
	p := src
	for len(got) < N {
		if len(p) > 0 {
			step := 7
			if step > len(p) {
				step = len(p)
			}
			n := r.Push(p[:step])
			p = p[n:]
		}
		p1, p2 := r.Peek()
		n := cons.accept(p1)
		got = append(got, p1[:n]...)
		if n == len(p1) && len(p2) > 0 {
			m := cons.accept(p2)
			got = append(got, p2[:m]...)
			n += m
		}
		r.Discard(n)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("byte order corrupted across wrap")
	}
}

func TestPushRefusesOverflow(t *testing.T) {
	r := New(256)
	src := make([]byte, 300)
	for i := range src {
		src[i] = byte(i)
	}
	n := r.Push(src)
	if n != 256 {
		t.Fatalf("accepted %d, want 256", n)
	}
	if r.Space() != 0 || r.Len() != 256 {
		t.Fatalf("len=%d space=%d", r.Len(), r.Space())
	}
	if n := r.Push([]byte{1}); n != 0 {
		t.Fatalf("full ring accepted %d bytes", n)
	}
	out := make([]byte, 300)
	if m := r.Pop(out); m != 256 || !bytes.Equal(out[:m], src[:256]) {
		t.Fatalf("queued bytes corrupted (got %d)", m)
	}
}

func TestResetReportsDropped(t *testing.T) {
	r := New(8)
	r.Push([]byte("abcde"))
	r.Discard(2)
	if got := r.Reset(); got != 3 {
		t.Fatalf("Reset dropped %d, want 3", got)
	}
	if r.Len() != 0 {
		t.Fatalf("ring not empty after reset")
	}
	r.Push([]byte("xyz"))
	p1, p2 := r.Peek()
	if string(append(append([]byte(nil), p1...), p2...)) != "xyz" {
		t.Fatalf("ring unusable after reset")
	}
}

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for size 100")
		}
	}()
	New(100)
}
