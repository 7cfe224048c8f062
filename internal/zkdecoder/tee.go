package zkdecoder

import (
	"time"

	"github.com/jeffbean/go-zookeeper/zk"

	"github.com/jeffbean/zkproxy/internal/zkproto"
)

// TeeSink fans every callback out to each of its member sinks in order,
// so a connection's decoder can drive both a logging Sink and a metrics
// Sink without either knowing about the other: a single v-table with no
// dynamic dispatch on the hot path, each call here a fixed, inlinable
// fan-out.
type TeeSink []Sink

func (t TeeSink) OnConnect(readOnly bool) {
	for _, s := range t {
		s.OnConnect(readOnly)
	}
}

func (t TeeSink) OnPing() {
	for _, s := range t {
		s.OnPing()
	}
}

func (t TeeSink) OnAuthRequest(scheme string) {
	for _, s := range t {
		s.OnAuthRequest(scheme)
	}
}

func (t TeeSink) OnGetDataRequest(path string, watch bool) {
	for _, s := range t {
		s.OnGetDataRequest(path, watch)
	}
}

func (t TeeSink) OnCreateRequest(path string, flags zkproto.CreateFlag, opcode zkproto.OpCode) {
	for _, s := range t {
		s.OnCreateRequest(path, flags, opcode)
	}
}

func (t TeeSink) OnSetRequest(path string) {
	for _, s := range t {
		s.OnSetRequest(path)
	}
}

func (t TeeSink) OnGetChildrenRequest(path string, watch, isV2 bool) {
	for _, s := range t {
		s.OnGetChildrenRequest(path, watch, isV2)
	}
}

func (t TeeSink) OnDeleteRequest(path string, version int32) {
	for _, s := range t {
		s.OnDeleteRequest(path, version)
	}
}

func (t TeeSink) OnExistsRequest(path string, watch bool) {
	for _, s := range t {
		s.OnExistsRequest(path, watch)
	}
}

func (t TeeSink) OnGetAclRequest(path string) {
	for _, s := range t {
		s.OnGetAclRequest(path)
	}
}

func (t TeeSink) OnSetAclRequest(path string, version int32) {
	for _, s := range t {
		s.OnSetAclRequest(path, version)
	}
}

func (t TeeSink) OnSyncRequest(path string) {
	for _, s := range t {
		s.OnSyncRequest(path)
	}
}

func (t TeeSink) OnCheckRequest(path string, version int32) {
	for _, s := range t {
		s.OnCheckRequest(path, version)
	}
}

func (t TeeSink) OnMultiRequest() {
	for _, s := range t {
		s.OnMultiRequest()
	}
}

func (t TeeSink) OnMultiSubOp(op zkproto.OpCode) {
	for _, s := range t {
		s.OnMultiSubOp(op)
	}
}

func (t TeeSink) OnReconfigRequest() {
	for _, s := range t {
		s.OnReconfigRequest()
	}
}

func (t TeeSink) OnSetWatchesRequest() {
	for _, s := range t {
		s.OnSetWatchesRequest()
	}
}

func (t TeeSink) OnCheckWatchesRequest(path string, watchType int32) {
	for _, s := range t {
		s.OnCheckWatchesRequest(path, watchType)
	}
}

func (t TeeSink) OnRemoveWatchesRequest(path string, watchType int32) {
	for _, s := range t {
		s.OnRemoveWatchesRequest(path, watchType)
	}
}

func (t TeeSink) OnGetEphemeralsRequest(path string) {
	for _, s := range t {
		s.OnGetEphemeralsRequest(path)
	}
}

func (t TeeSink) OnGetAllChildrenNumberRequest(path string) {
	for _, s := range t {
		s.OnGetAllChildrenNumberRequest(path)
	}
}

func (t TeeSink) OnCloseRequest() {
	for _, s := range t {
		s.OnCloseRequest()
	}
}

func (t TeeSink) OnConnectResponse(protocolVersion, timeout int32, readOnly bool, latency time.Duration) {
	for _, s := range t {
		s.OnConnectResponse(protocolVersion, timeout, readOnly, latency)
	}
}

func (t TeeSink) OnResponse(opcode zkproto.OpCode, xid int32, zxid int64, err zk.ErrCode, latency time.Duration) {
	for _, s := range t {
		s.OnResponse(opcode, xid, zxid, err, latency)
	}
}

func (t TeeSink) OnWatchEvent(ev *zkproto.WatchEvent) {
	for _, s := range t {
		s.OnWatchEvent(ev)
	}
}

func (t TeeSink) OnRequestBytes(n int) {
	for _, s := range t {
		s.OnRequestBytes(n)
	}
}

func (t TeeSink) OnResponseBytes(n int) {
	for _, s := range t {
		s.OnResponseBytes(n)
	}
}

func (t TeeSink) OnDecodeError(reason string) {
	for _, s := range t {
		s.OnDecodeError(reason)
	}
}
