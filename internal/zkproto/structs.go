package zkproto

import (
	"github.com/jeffbean/go-zookeeper/zk"
	"go.uber.org/zap/zapcore"
)

// WatchEvent is a server-pushed notification, xid always WatchXid, with no
// originating request.
type WatchEvent struct {
	EventType   zk.EventType
	ClientState zk.State
	Path        string
	Zxid        int64
	Err         zk.ErrCode
}

// MarshalLogObject renders a WatchEvent for zap structured logging.
func (w *WatchEvent) MarshalLogObject(kv zapcore.ObjectEncoder) error {
	kv.AddInt32("eventType", int32(w.EventType))
	kv.AddInt32("clientState", int32(w.ClientState))
	kv.AddString("path", w.Path)
	kv.AddInt64("zxid", w.Zxid)
	kv.AddInt32("err", int32(w.Err))
	return nil
}
