// Package bridge moves bytes between the console and the two UARTs.
//
// Each endpoint has one bounded outbound queue. Pump reads a burst from every
// source, copies it into the queues its routing table names, then drains the
// queues into the peripherals. Nothing blocks: a full queue drops the newest
// bytes and counts them as an overrun.
//
// A Bridge is owned by the tick loop and is not safe for concurrent use.
package bridge

import (
	"miniconsole-go/config"
	"miniconsole-go/platform"
	"miniconsole-go/types"
	"miniconsole-go/x/logx"
	"miniconsole-go/x/ring"
)

// Tap observes bytes routed to the console.
type Tap func(src types.Endpoint, p []byte)

type Bridge struct {
	ports  [types.NumEndpoints]platform.Port
	out    [types.NumEndpoints]*ring.Ring
	stats  [types.NumEndpoints]types.PortStats
	lerr   [types.NumEndpoints]uint32 // last cumulative line error reading
	routes RoutingTable
	buf    []byte
	tap    Tap
}

// -----------------------------------------------------------------------------
// Construction
// -----------------------------------------------------------------------------

// New builds a bridge over ports. A missing port reads nothing and its queue
// is discarded on drain. The initial routing table is empty.
func New(cfg *config.Config, ports map[types.Endpoint]platform.Port) *Bridge {
	b := &Bridge{buf: make([]byte, cfg.BurstBytes())}
	for _, ep := range types.Endpoints {
		b.ports[ep] = ports[ep]
		b.out[ep] = ring.New(cfg.Bridge.QueueSize)
		if lc, ok := ports[ep].(platform.LineErrorCounter); ok {
			b.lerr[ep] = lc.LineErrors()
		}
	}
	return b
}

// SetTap installs the console observer; nil removes it.
func (b *Bridge) SetTap(t Tap) { b.tap = t }

// Routes returns the active routing table.
func (b *Bridge) Routes() RoutingTable { return b.routes }

// SetRoutes switches the routing table. An outbound queue is flushed when
// it loses a feeding source, so bytes from a route that no longer exists
// are not delivered under the new one. Queues that only gain sources keep
// their contents, including text from Inject.
func (b *Bridge) SetRoutes(t RoutingTable) {
	for _, ep := range types.Endpoints {
		if b.routes.feeders(ep)&^t.feeders(ep) == 0 {
			continue
		}
		if n := b.out[ep].Reset(); n > 0 {
			b.stats[ep].Flushed += uint32(n)
			logx.Debug(logx.Bridge, "queue flushed", "endpoint", ep.String(), "bytes", n)
		}
	}
	b.routes = t
}

// -----------------------------------------------------------------------------
// Data path
// -----------------------------------------------------------------------------

// Pump runs one read phase and one write phase over all endpoints.
func (b *Bridge) Pump() {
	for _, src := range types.Endpoints {
		b.read(src)
	}
	for _, ep := range types.Endpoints {
		b.drain(ep)
	}
}

func (b *Bridge) read(src types.Endpoint) {
	p := b.ports[src]
	if p == nil {
		return
	}
	if lc, ok := p.(platform.LineErrorCounter); ok {
		cur := lc.LineErrors()
		if d := cur - b.lerr[src]; d > 0 {
			b.stats[src].LineErrors += d
			logx.Debug(logx.Bridge, "line errors", "endpoint", src.String(), "count", d)
		}
		b.lerr[src] = cur
	}

	n := p.TryRead(b.buf)
	if n <= 0 {
		return
	}
	data := b.buf[:n]
	b.stats[src].RxBytes += uint32(n)

	dst := b.routes.Dest[src]
	echo := b.routes.Echo&bit(src) != 0
	if dst == 0 && !echo {
		b.stats[src].Discarded += uint32(n)
		return
	}
	for _, d := range types.Endpoints {
		if dst&bit(d) != 0 {
			b.enqueue(d, data)
		}
	}
	if echo {
		b.enqueue(src, data)
	}
	if b.tap != nil && dst&bit(types.Console) != 0 {
		b.tap(src, data)
	}
}

// enqueue appends p to ep's queue and counts what did not fit.
func (b *Bridge) enqueue(ep types.Endpoint, p []byte) int {
	n := b.out[ep].Push(p)
	if drop := len(p) - n; drop > 0 {
		b.stats[ep].Overruns += uint32(drop)
		logx.Debug(logx.Bridge, "overrun", "endpoint", ep.String(), "dropped", drop)
	}
	return n
}

func (b *Bridge) drain(ep types.Endpoint) {
	q := b.out[ep]
	p := b.ports[ep]
	if p == nil {
		q.Reset()
		return
	}
	for q.Len() > 0 {
		chunk, _ := q.Peek()
		n := p.TryWrite(chunk)
		if n <= 0 {
			return
		}
		q.Discard(n)
		b.stats[ep].TxBytes += uint32(n)
		if n < len(chunk) {
			return
		}
	}
}

// Inject queues locally generated bytes for ep under the same overrun
// policy as routed traffic. It returns the number of bytes accepted.
func (b *Bridge) Inject(ep types.Endpoint, p []byte) int {
	if !ep.Valid() {
		return 0
	}
	return b.enqueue(ep, p)
}

// -----------------------------------------------------------------------------
// Counters
// -----------------------------------------------------------------------------

// Stats returns the counters of ep with its current queue depth.
func (b *Bridge) Stats(ep types.Endpoint) types.PortStats {
	if !ep.Valid() {
		return types.PortStats{}
	}
	s := b.stats[ep]
	s.Queued = b.out[ep].Len()
	return s
}

// AllStats returns Stats for every endpoint, indexed by endpoint.
func (b *Bridge) AllStats() [types.NumEndpoints]types.PortStats {
	var out [types.NumEndpoints]types.PortStats
	for _, ep := range types.Endpoints {
		out[ep] = b.Stats(ep)
	}
	return out
}

// ResetStats zeroes the counters. Queued bytes are kept.
func (b *Bridge) ResetStats() {
	b.stats = [types.NumEndpoints]types.PortStats{}
}
