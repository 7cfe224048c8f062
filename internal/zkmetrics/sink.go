package zkmetrics

import (
	"time"

	"github.com/jeffbean/go-zookeeper/zk"
	"github.com/uber-go/tally"

	"github.com/jeffbean/zkproxy/internal/zkproto"
)

// Sink records one tally counter per operation, one timer per operation's
// response latency, and a handful of byte/error counters. It implements
// zkdecoder.Sink.
type Sink struct {
	scope tally.Scope
}

// New returns a metrics Sink reporting through scope.
func New(scope tally.Scope) *Sink {
	return &Sink{scope: scope}
}

func (s *Sink) op(name string) tally.Scope {
	return s.scope.Tagged(map[string]string{"operation": name})
}

func (s *Sink) countOp(name string) {
	s.op(name).Counter("requests").Inc(1)
}

func (s *Sink) OnConnect(bool)           { s.countOp("connect") }
func (s *Sink) OnPing()                  { s.countOp("ping") }
func (s *Sink) OnAuthRequest(string)     { s.countOp("auth") }
func (s *Sink) OnGetDataRequest(string, bool)                              { s.countOp("getData") }
func (s *Sink) OnCreateRequest(string, zkproto.CreateFlag, zkproto.OpCode) { s.countOp("create") }
func (s *Sink) OnSetRequest(string)                                       { s.countOp("setData") }
func (s *Sink) OnGetChildrenRequest(string, bool, bool)                   { s.countOp("getChildren") }
func (s *Sink) OnDeleteRequest(string, int32)                             { s.countOp("delete") }
func (s *Sink) OnExistsRequest(string, bool)                              { s.countOp("exists") }
func (s *Sink) OnGetAclRequest(string)                                    { s.countOp("getAcl") }
func (s *Sink) OnSetAclRequest(string, int32)                             { s.countOp("setAcl") }
func (s *Sink) OnSyncRequest(string)                                      { s.countOp("sync") }
func (s *Sink) OnCheckRequest(string, int32)                              { s.countOp("check") }
func (s *Sink) OnMultiRequest()                                          { s.countOp("multi") }
func (s *Sink) OnReconfigRequest()                                       { s.countOp("reconfig") }
func (s *Sink) OnSetWatchesRequest()                                     { s.countOp("setWatches") }
func (s *Sink) OnCheckWatchesRequest(string, int32)                      { s.countOp("checkWatches") }
func (s *Sink) OnRemoveWatchesRequest(string, int32)                     { s.countOp("removeWatches") }
func (s *Sink) OnGetEphemeralsRequest(string)                            { s.countOp("getEphemerals") }
func (s *Sink) OnGetAllChildrenNumberRequest(string)                     { s.countOp("getAllChildrenNumber") }
func (s *Sink) OnCloseRequest()                                          { s.countOp("close") }

// OnMultiSubOp keeps a per-sub-opcode counter, supplementing the single
// OnMultiRequest count with what Multi batches actually contained.
func (s *Sink) OnMultiSubOp(op zkproto.OpCode) {
	s.scope.Tagged(map[string]string{"sub_operation": op.String()}).Counter("multi_sub_ops").Inc(1)
}

func (s *Sink) OnConnectResponse(protocolVersion, timeout int32, readOnly bool, latency time.Duration) {
	s.op("connect").Timer("latency").Record(latency)
}

func (s *Sink) OnResponse(opcode zkproto.OpCode, xid int32, zxid int64, err zk.ErrCode, latency time.Duration) {
	scope := s.op(opcode.String())
	scope.Timer("latency").Record(latency)
	if err != 0 {
		scope.Counter("errors").Inc(1)
	}
}

func (s *Sink) OnWatchEvent(ev *zkproto.WatchEvent) {
	s.scope.Counter("watch_events").Inc(1)
}

func (s *Sink) OnRequestBytes(n int) {
	s.scope.Counter("request_bytes").Inc(int64(n))
}

func (s *Sink) OnResponseBytes(n int) {
	s.scope.Counter("response_bytes").Inc(int64(n))
}

func (s *Sink) OnDecodeError(string) {
	s.scope.Counter("decode_errors").Inc(1)
}

// SetInflight reports the inflight-request table's current size as a
// gauge. The embedder calls this after each decode; the decoder itself
// never evicts or bounds the table, so this is the only visibility into
// its growth.
func (s *Sink) SetInflight(n int) {
	s.scope.Gauge("inflight_requests").Update(float64(n))
}
