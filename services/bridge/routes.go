package bridge

import "miniconsole-go/types"

// RoutingTable maps each source endpoint to its destinations. Dest[src] is a
// bit set over endpoints (bit e = endpoint e) and never contains src itself;
// self-delivery is expressed only through Echo.
type RoutingTable struct {
	Dest [types.NumEndpoints]uint8
	Echo uint8
}

func bit(e types.Endpoint) uint8 { return 1 << e }

// Route returns t with src -> dst added. Self routes are ignored.
func (t RoutingTable) Route(src, dst types.Endpoint) RoutingTable {
	if src != dst && src.Valid() && dst.Valid() {
		t.Dest[src] |= bit(dst)
	}
	return t
}

// WithEcho returns t with bytes read from ep written back to ep.
func (t RoutingTable) WithEcho(ep types.Endpoint) RoutingTable {
	if ep.Valid() {
		t.Echo |= bit(ep)
	}
	return t
}

// Has reports whether src is routed to dst.
func (t RoutingTable) Has(src, dst types.Endpoint) bool {
	if !src.Valid() || !dst.Valid() {
		return false
	}
	if src == dst {
		return t.Echo&bit(src) != 0
	}
	return t.Dest[src]&bit(dst) != 0
}

// Destinations lists where src's bytes go, in pump order, echo included.
func (t RoutingTable) Destinations(src types.Endpoint) []types.Endpoint {
	var out []types.Endpoint
	for _, d := range types.Endpoints {
		if t.Has(src, d) {
			out = append(out, d)
		}
	}
	return out
}

// Empty reports whether nothing is routed.
func (t RoutingTable) Empty() bool { return t == RoutingTable{} }

// feeders is the set of sources that write into dst's outbound queue.
func (t RoutingTable) feeders(dst types.Endpoint) uint8 {
	var m uint8
	for _, s := range types.Endpoints {
		if t.Has(s, dst) {
			m |= bit(s)
		}
	}
	return m
}

// RoutesFor derives the routing table of a mode. Unknown modes route nothing.
func RoutesFor(m types.Mode) RoutingTable {
	var t RoutingTable
	switch m {
	case types.ModePassthrough:
		t = t.Route(types.UARTA, types.UARTB).Route(types.UARTB, types.UARTA)
	case types.ModeMonitor:
		// read-only: console input is never forwarded to a UART
		t = t.Route(types.UARTA, types.Console).Route(types.UARTB, types.Console)
	case types.ModeLoopback:
		t = t.WithEcho(types.UARTA).WithEcho(types.UARTB)
	}
	return t
}
