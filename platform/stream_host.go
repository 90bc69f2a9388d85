//go:build !rp2040 && !rp2350

package platform

import (
	"io"
	"sync"

	"miniconsole-go/x/ring"
)

// StreamPort adapts a blocking reader/writer pair (an OS serial port, stdio)
// to Port. A reader goroutine fills an RX ring and a writer goroutine drains
// a TX ring, so TryRead and TryWrite never block the tick loop.
type StreamPort struct {
	mu      sync.Mutex
	rx      *ring.Ring
	tx      *ring.Ring
	dropped uint32 // inbound bytes lost because the RX ring was full
	err     error

	w       io.Writer
	closer  io.Closer
	txReady chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewStreamPort starts the pump goroutines. size is the ring size in bytes
// (power of two).
func NewStreamPort(r io.Reader, w io.Writer, size int) *StreamPort {
	s := &StreamPort{
		rx:      ring.New(size),
		tx:      ring.New(size),
		w:       w,
		txReady: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.readLoop(r)
	go s.writeLoop()
	return s
}

func (s *StreamPort) readLoop(r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			s.mu.Lock()
			acc := s.rx.Push(buf[:n])
			s.dropped += uint32(n - acc)
			s.mu.Unlock()
		}
		if err != nil {
			s.fail(err)
			return
		}
		select {
		case <-s.done:
			return
		default:
		}
	}
}

func (s *StreamPort) writeLoop() {
	chunk := make([]byte, 256)
	for {
		select {
		case <-s.done:
			return
		case <-s.txReady:
		}
		for {
			s.mu.Lock()
			n := s.tx.Pop(chunk)
			s.mu.Unlock()
			if n == 0 {
				break
			}
			if _, err := s.w.Write(chunk[:n]); err != nil {
				s.fail(err)
				return
			}
		}
	}
}

func (s *StreamPort) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

func (s *StreamPort) TryRead(p []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rx.Pop(p)
}

func (s *StreamPort) TryWrite(p []byte) int {
	s.mu.Lock()
	n := s.tx.Push(p)
	s.mu.Unlock()
	if n > 0 {
		select {
		case s.txReady <- struct{}{}:
		default:
		}
	}
	return n
}

// Dropped is the number of inbound bytes lost before the bridge read them.
func (s *StreamPort) Dropped() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Err returns the first read or write error, io.EOF included.
func (s *StreamPort) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops both goroutines and closes the underlying device if any.
func (s *StreamPort) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		if s.closer != nil {
			err = s.closer.Close()
		}
	})
	return err
}
