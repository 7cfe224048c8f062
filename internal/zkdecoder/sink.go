package zkdecoder

import (
	"time"

	"github.com/jeffbean/go-zookeeper/zk"

	"github.com/jeffbean/zkproxy/internal/zkproto"
)

// Sink is the callback capability the decoder drives. It is implemented by
// the embedding collaborator (stats emission, access logging, ...); the
// decoder never dispatches dynamically beyond this one interface.
type Sink interface {
	OnConnect(readOnly bool)
	OnPing()
	OnAuthRequest(scheme string)
	OnGetDataRequest(path string, watch bool)
	OnCreateRequest(path string, flags zkproto.CreateFlag, opcode zkproto.OpCode)
	OnSetRequest(path string)
	OnGetChildrenRequest(path string, watch, isV2 bool)
	OnDeleteRequest(path string, version int32)
	OnExistsRequest(path string, watch bool)
	OnGetAclRequest(path string)
	OnSetAclRequest(path string, version int32)
	OnSyncRequest(path string)
	OnCheckRequest(path string, version int32)
	OnMultiRequest()
	OnReconfigRequest()
	OnSetWatchesRequest()
	OnCheckWatchesRequest(path string, watchType int32)
	OnRemoveWatchesRequest(path string, watchType int32)
	OnGetEphemeralsRequest(path string)
	OnGetAllChildrenNumberRequest(path string)
	OnCloseRequest()

	// OnMultiSubOp fires once per sub-operation header walked inside a
	// Multi request body (Create, SetData, or Check), in addition to the
	// single OnMultiRequest the Multi message as a whole still emits.
	OnMultiSubOp(op zkproto.OpCode)

	OnConnectResponse(protocolVersion, timeout int32, readOnly bool, latency time.Duration)
	OnResponse(opcode zkproto.OpCode, xid int32, zxid int64, err zk.ErrCode, latency time.Duration)
	OnWatchEvent(ev *zkproto.WatchEvent)

	OnRequestBytes(n int)
	OnResponseBytes(n int)

	// OnDecodeError fires on any fatal decode failure. Callers that only
	// need the bare fact of failure are free to ignore the reason string.
	OnDecodeError(reason string)
}

// NopSink implements Sink with no-ops, for tests that only care about a
// subset of callbacks: embed it and override what you need.
type NopSink struct{}

func (NopSink) OnConnect(bool)                                                     {}
func (NopSink) OnPing()                                                            {}
func (NopSink) OnAuthRequest(string)                                               {}
func (NopSink) OnGetDataRequest(string, bool)                                      {}
func (NopSink) OnCreateRequest(string, zkproto.CreateFlag, zkproto.OpCode)         {}
func (NopSink) OnSetRequest(string)                                                {}
func (NopSink) OnGetChildrenRequest(string, bool, bool)                           {}
func (NopSink) OnDeleteRequest(string, int32)                                      {}
func (NopSink) OnExistsRequest(string, bool)                                       {}
func (NopSink) OnGetAclRequest(string)                                            {}
func (NopSink) OnSetAclRequest(string, int32)                                      {}
func (NopSink) OnSyncRequest(string)                                              {}
func (NopSink) OnCheckRequest(string, int32)                                       {}
func (NopSink) OnMultiRequest()                                                   {}
func (NopSink) OnReconfigRequest()                                                {}
func (NopSink) OnSetWatchesRequest()                                             {}
func (NopSink) OnCheckWatchesRequest(string, int32)                               {}
func (NopSink) OnRemoveWatchesRequest(string, int32)                              {}
func (NopSink) OnGetEphemeralsRequest(string)                                     {}
func (NopSink) OnGetAllChildrenNumberRequest(string)                              {}
func (NopSink) OnCloseRequest()                                                   {}
func (NopSink) OnMultiSubOp(zkproto.OpCode)                                       {}
func (NopSink) OnConnectResponse(int32, int32, bool, time.Duration)               {}
func (NopSink) OnResponse(zkproto.OpCode, int32, int64, zk.ErrCode, time.Duration) {}
func (NopSink) OnWatchEvent(*zkproto.WatchEvent)                                  {}
func (NopSink) OnRequestBytes(int)                                               {}
func (NopSink) OnResponseBytes(int)                                              {}
func (NopSink) OnDecodeError(string)                                             {}
