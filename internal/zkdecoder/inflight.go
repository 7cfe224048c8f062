package zkdecoder

import (
	"time"

	"github.com/jeffbean/zkproxy/internal/zkproto"
)

// inflightEntry is what the correlation table remembers about a request
// between the moment it's decoded and the moment its matching response
// arrives: the opcode (for labeling the eventual OnResponse call) and the
// start time (for computing latency).
type inflightEntry struct {
	opcode zkproto.OpCode
	start  time.Time
}

// inflightTable maps xid to the pending request it belongs to. One table
// per connection; the decoder never shares it across connections.
//
// A request decode that reuses an already-pending xid overwrites silently
// -- this mirrors a client that reused an xid after abandoning the first
// request without waiting for its reply, which the wire protocol allows.
type inflightTable map[int32]inflightEntry

func newInflightTable() inflightTable {
	return make(inflightTable)
}

func (t inflightTable) record(xid int32, opcode zkproto.OpCode, start time.Time) {
	t[xid] = inflightEntry{opcode: opcode, start: start}
}

// take looks up and removes the entry for xid, returning ok=false if none
// was found, which the caller treats as a fatal "xid not found" condition.
func (t inflightTable) take(xid int32) (inflightEntry, bool) {
	e, ok := t[xid]
	if ok {
		delete(t, xid)
	}
	return e, ok
}

// Len reports how many requests are currently awaiting a response. Exposed
// so an embedder can watch it as a resource-exhaustion signal, since the
// table itself never bounds or evicts entries.
func (t inflightTable) Len() int { return len(t) }
