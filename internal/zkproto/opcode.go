// Package zkproto holds the ZooKeeper wire constants and structs the
// decoder dispatches on: xids, opcodes, create flags, and the small request
// structs the decoder fills in en route to a Sink callback.
//
// Based on ZK 3.5's ZooDefs.java.
package zkproto

import "go.uber.org/zap/zapcore"

// OpCode is a signed 32-bit ZooKeeper operation code carried by data
// requests. Any value outside this recognized set is a decode error.
//go:generate stringer -type=OpCode -output=opcode_string.go
type OpCode int32

const (
	OpNotify  OpCode = 0
	OpCreate  OpCode = 1
	OpDelete  OpCode = 2
	OpExists  OpCode = 3
	OpGetData OpCode = 4
	OpSetData OpCode = 5
	OpGetAcl  OpCode = 6
	OpSetAcl  OpCode = 7

	OpGetChildren     OpCode = 8
	OpSync            OpCode = 9
	OpPing            OpCode = 11
	OpGetChildren2    OpCode = 12
	OpCheck           OpCode = 13
	OpMulti           OpCode = 14
	OpCreate2         OpCode = 15
	OpReconfig        OpCode = 16
	OpCheckWatches    OpCode = 17
	OpRemoveWatches   OpCode = 18
	OpCreateContainer OpCode = 19
	OpDeleteContainer OpCode = 20
	OpCreateTTL       OpCode = 21

	OpGetEphemerals        OpCode = 24
	OpGetAllChildrenNumber OpCode = 25

	OpClose      OpCode = -11
	OpSetAuth    OpCode = 100
	OpSetWatches OpCode = 101
)

// recognizedOps is the full set of opcodes the decoder may dispatch on for
// a data request (i.e. excluding the reserved-xid control codes which never
// carry an opcode byte of their own in the sense the decoder cares about).
var recognizedOps = map[OpCode]bool{
	OpCreate: true, OpDelete: true, OpExists: true, OpGetData: true,
	OpSetData: true, OpGetAcl: true, OpSetAcl: true, OpGetChildren: true,
	OpSync: true, OpPing: true, OpGetChildren2: true, OpCheck: true,
	OpMulti: true, OpCreate2: true, OpReconfig: true, OpCreateContainer: true,
	OpCreateTTL: true, OpClose: true, OpSetAuth: true, OpSetWatches: true,
	OpCheckWatches: true, OpRemoveWatches: true, OpGetEphemerals: true,
	OpGetAllChildrenNumber: true,
}

// IsRecognized reports whether op is one of the opcodes this decoder knows
// how to parse. Any other value seen as an opcode is a decoding error.
func IsRecognized(op OpCode) bool {
	return recognizedOps[op]
}

// Xid identifies the four reserved control values a client may send instead
// of a positive, client-chosen correlation id.
type Xid int32

const (
	// WatchXid marks a server-initiated notification; it has no
	// originating request.
	WatchXid Xid = -1
	// PingXid marks a keepalive exchanged outside the request/response
	// correlation table's normal bookkeeping.
	PingXid Xid = -2
	// AuthXid marks an authentication request.
	AuthXid Xid = -4
	// SetWatchesXid marks a bulk watch-registration request, typically
	// sent once right after reconnecting.
	SetWatchesXid Xid = -8
	// ConnectXid marks the handshake; it has no standard reply header.
	ConnectXid Xid = 0
)

// CreateFlag distinguishes node creation semantics carried in the trailing
// int32 of Create/Create2/CreateContainer/CreateTtl request bodies.
type CreateFlag int32

const (
	FlagPersistent                  CreateFlag = 0
	FlagEphemeral                   CreateFlag = 1
	FlagPersistentSequential        CreateFlag = 2
	FlagEphemeralSequential         CreateFlag = 3
	FlagContainer                   CreateFlag = 4
	FlagPersistentWithTTL           CreateFlag = 5
	FlagPersistentSequentialWithTTL CreateFlag = 6
)

// MarshalLogObject renders the OpCode for zap structured logging.
func (o OpCode) MarshalLogObject(kv zapcore.ObjectEncoder) error {
	kv.AddInt32("code", int32(o))
	kv.AddString("name", o.String())
	return nil
}
