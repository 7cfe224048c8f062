package zklog

import (
	"time"

	"github.com/jeffbean/go-zookeeper/zk"
	"go.uber.org/zap"

	"github.com/jeffbean/zkproxy/internal/zkerrors"
	"github.com/jeffbean/zkproxy/internal/zkproto"
)

// Sink logs every decoder callback at debug level, one structured field
// per wire value. It implements zkdecoder.Sink; wire it alongside
// zkmetrics.Sink through a zkdecoder.TeeSink when both logging and stats
// are wanted.
type Sink struct {
	log *zap.Logger
}

// New returns a logging Sink writing through log.
func New(log *zap.Logger) *Sink {
	return &Sink{log: log}
}

func (s *Sink) OnConnect(readOnly bool) {
	s.log.Info("--> client connect", zap.Bool("readOnly", readOnly))
}

func (s *Sink) OnPing() {
	s.log.Debug("--> client ping")
}

func (s *Sink) OnAuthRequest(scheme string) {
	s.log.Debug("--> client auth request", zap.String("scheme", scheme))
}

func (s *Sink) OnGetDataRequest(path string, watch bool) {
	s.log.Debug("--> client getData request", zap.String("path", path), zap.Bool("watch", watch))
}

func (s *Sink) OnCreateRequest(path string, flags zkproto.CreateFlag, opcode zkproto.OpCode) {
	s.log.Debug("--> client create request", zap.String("path", path), zap.Int32("flags", int32(flags)), zap.Object("opcode", opcode))
}

func (s *Sink) OnSetRequest(path string) {
	s.log.Debug("--> client setData request", zap.String("path", path))
}

func (s *Sink) OnGetChildrenRequest(path string, watch, isV2 bool) {
	s.log.Debug("--> client getChildren request", zap.String("path", path), zap.Bool("watch", watch), zap.Bool("v2", isV2))
}

func (s *Sink) OnDeleteRequest(path string, version int32) {
	s.log.Debug("--> client delete request", zap.String("path", path), zap.Int32("version", version))
}

func (s *Sink) OnExistsRequest(path string, watch bool) {
	s.log.Debug("--> client exists request", zap.String("path", path), zap.Bool("watch", watch))
}

func (s *Sink) OnGetAclRequest(path string) {
	s.log.Debug("--> client getAcl request", zap.String("path", path))
}

func (s *Sink) OnSetAclRequest(path string, version int32) {
	s.log.Debug("--> client setAcl request", zap.String("path", path), zap.Int32("version", version))
}

func (s *Sink) OnSyncRequest(path string) {
	s.log.Debug("--> client sync request", zap.String("path", path))
}

func (s *Sink) OnCheckRequest(path string, version int32) {
	s.log.Debug("--> client check request", zap.String("path", path), zap.Int32("version", version))
}

func (s *Sink) OnMultiRequest() {
	s.log.Debug("--> client multi request")
}

func (s *Sink) OnMultiSubOp(op zkproto.OpCode) {
	s.log.Debug("--> client multi sub-op", zap.Object("opcode", op))
}

func (s *Sink) OnReconfigRequest() {
	s.log.Debug("--> client reconfig request")
}

func (s *Sink) OnSetWatchesRequest() {
	s.log.Debug("--> client setWatches request")
}

func (s *Sink) OnCheckWatchesRequest(path string, watchType int32) {
	s.log.Debug("--> client checkWatches request", zap.String("path", path), zap.Int32("type", watchType))
}

func (s *Sink) OnRemoveWatchesRequest(path string, watchType int32) {
	s.log.Debug("--> client removeWatches request", zap.String("path", path), zap.Int32("type", watchType))
}

func (s *Sink) OnGetEphemeralsRequest(path string) {
	s.log.Debug("--> client getEphemerals request", zap.String("path", path))
}

func (s *Sink) OnGetAllChildrenNumberRequest(path string) {
	s.log.Debug("--> client getAllChildrenNumber request", zap.String("path", path))
}

func (s *Sink) OnCloseRequest() {
	s.log.Debug("--> client close request")
}

func (s *Sink) OnConnectResponse(protocolVersion, timeout int32, readOnly bool, latency time.Duration) {
	s.log.Info("<-- server connect response",
		zap.Int32("protocolVersion", protocolVersion),
		zap.Int32("timeout", timeout),
		zap.Bool("readOnly", readOnly),
		zap.Duration("latency", latency),
	)
}

func (s *Sink) OnResponse(opcode zkproto.OpCode, xid int32, zxid int64, err zk.ErrCode, latency time.Duration) {
	s.log.Debug("<-- server response",
		zap.Object("opcode", opcode),
		zap.Int32("xid", xid),
		zap.Int64("zxid", zxid),
		zap.Int32("err", int32(err)),
		zap.String("errMsg", zkerrors.ToMessage(err)),
		zap.Duration("latency", latency),
	)
}

func (s *Sink) OnWatchEvent(ev *zkproto.WatchEvent) {
	s.log.Info("<-- watcher event", zap.Object("event", ev))
}

func (s *Sink) OnRequestBytes(n int) {
	s.log.Debug("--> request bytes", zap.Int("bytes", n))
}

func (s *Sink) OnResponseBytes(n int) {
	s.log.Debug("<-- response bytes", zap.Int("bytes", n))
}

func (s *Sink) OnDecodeError(reason string) {
	s.log.Error("decode error", zap.String("reason", reason))
}
