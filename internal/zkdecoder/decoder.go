// Package zkdecoder implements the ZooKeeper message decoder: it consumes
// one framed request or response at a time, dispatches on xid/opcode,
// maintains the inflight-request correlation table, and drives a Sink with
// the semantic event each message carries.
package zkdecoder

import (
	"encoding/binary"
	"time"

	"github.com/jeffbean/go-zookeeper/zk"

	"github.com/jeffbean/zkproxy/internal/zkcursor"
	"github.com/jeffbean/zkproxy/internal/zkproto"
)

const (
	// MinRequestBodyLen is the smallest declared length a request frame can
	// carry: xid(4) + opcode(4). The Stream Reassembler's pre-scan checks
	// declared lengths against this before a frame's body has even fully
	// arrived.
	MinRequestBodyLen = 8
	// MinResponseBodyLen is the smallest declared length a response frame
	// can carry: xid(4) + zxid(8) + err(4).
	MinResponseBodyLen = 16
)

// Decoder holds the per-connection state needed to decode both directions
// of one ZooKeeper session: the inflight-request correlation table and the
// configured frame-size ceiling. It is not safe for concurrent use — a
// connection is decoded by exactly one goroutine.
//
// Decoder never reads the wall clock itself: DecodeOnData and DecodeOnWrite
// both take an explicit now, so a caller replaying a pcap file can stamp
// requests with the capture's own timestamps instead of the time the
// replay happens to run.
type Decoder struct {
	maxPacketBytes uint32
	inflight       inflightTable
	sink           Sink
	cursor         *zkcursor.Cursor
}

// New returns a Decoder bounded by maxPacketBytes and driving sink.
func New(maxPacketBytes uint32, sink Sink) *Decoder {
	return &Decoder{
		maxPacketBytes: maxPacketBytes,
		inflight:       newInflightTable(),
		sink:           sink,
		cursor:         zkcursor.New(0),
	}
}

// InflightLen reports how many requests are awaiting a matching response.
func (d *Decoder) InflightLen() int { return d.inflight.Len() }

// MaxPacketBytes reports the configured frame-size ceiling, so a caller
// pre-scanning raw bytes ahead of a full frame's arrival can apply the
// same bound the Decoder itself enforces.
func (d *Decoder) MaxPacketBytes() uint32 { return d.maxPacketBytes }

func frameLength(frame []byte) (int32, error) {
	if len(frame) < 4 {
		return 0, zkcursor.ErrTruncated
	}
	return int32(binary.BigEndian.Uint32(frame[:4])), nil
}

func (d *Decoder) fail(cause error) error {
	err := wrapDecodeErr(cause)
	d.sink.OnDecodeError(err.Error())
	return err
}

// FailExternal reports a fatal decode failure detected outside the
// Decoder itself -- the Stream Reassembler's pre-scan is the one caller of
// this today -- through the same Sink.OnDecodeError path a Decoder-local
// failure would take.
func (d *Decoder) FailExternal(cause error) error {
	return d.fail(cause)
}

// DecodeOnData decodes exactly one client->server request frame: frame
// must be the full length-prefixed message (the 4-byte length plus
// exactly L body bytes). now stamps the request for later latency
// measurement.
func (d *Decoder) DecodeOnData(frame []byte, now time.Time) error {
	length, err := frameLength(frame)
	if err != nil {
		return d.fail(err)
	}
	if length < MinRequestBodyLen {
		return d.fail(ErrFrameTooSmall)
	}
	if uint32(length) > d.maxPacketBytes {
		return d.fail(ErrFrameTooBig)
	}
	if len(frame) < 4+int(length) {
		return d.fail(zkcursor.ErrTruncated)
	}
	body := frame[4 : 4+int(length)]

	d.cursor.Reset(int(length))
	offset := 0

	xid, err := d.cursor.PeekInt32(body, &offset)
	if err != nil {
		return d.fail(err)
	}

	switch zkproto.Xid(xid) {
	case zkproto.ConnectXid:
		readOnly, err := d.decodeConnectRequest(body, &offset)
		if err != nil {
			return d.fail(err)
		}
		d.sink.OnConnect(readOnly)
		d.inflight.record(xid, zkproto.OpNotify, now)

	case zkproto.PingXid:
		if err := d.cursor.Skip(body, &offset, 4); err != nil { // opcode
			return d.fail(err)
		}
		d.sink.OnPing()
		d.inflight.record(xid, zkproto.OpPing, now)

	case zkproto.AuthXid:
		if err := d.cursor.Skip(body, &offset, 8); err != nil { // opcode + auth type
			return d.fail(err)
		}
		scheme, err := d.cursor.PeekString(body, &offset)
		if err != nil {
			return d.fail(err)
		}
		if err := d.cursor.SkipString(body, &offset); err != nil { // credential
			return d.fail(err)
		}
		d.sink.OnAuthRequest(scheme)
		d.inflight.record(xid, zkproto.OpSetAuth, now)

	case zkproto.SetWatchesXid:
		if err := d.cursor.Skip(body, &offset, 4); err != nil { // opcode
			return d.fail(err)
		}
		if err := d.decodeSetWatchesBody(body, &offset); err != nil {
			return d.fail(err)
		}
		d.sink.OnSetWatchesRequest()
		d.inflight.record(xid, zkproto.OpSetWatches, now)

	default:
		op, err := d.cursor.PeekInt32(body, &offset)
		if err != nil {
			return d.fail(err)
		}
		opcode := zkproto.OpCode(op)
		if !zkproto.IsRecognized(opcode) {
			return d.fail(ErrUnknownOpcode)
		}
		if err := d.decodeDataRequest(opcode, body, &offset); err != nil {
			return d.fail(err)
		}
		d.inflight.record(xid, opcode, now)
	}

	d.sink.OnRequestBytes(4 + int(length))
	return nil
}

// DecodeOnWrite decodes exactly one server->client response frame, the
// mirror of DecodeOnData.
func (d *Decoder) DecodeOnWrite(frame []byte, now time.Time) error {
	length, err := frameLength(frame)
	if err != nil {
		return d.fail(err)
	}
	if length < MinResponseBodyLen {
		return d.fail(ErrFrameTooSmall)
	}
	if uint32(length) > d.maxPacketBytes {
		return d.fail(ErrFrameTooBig)
	}
	if len(frame) < 4+int(length) {
		return d.fail(zkcursor.ErrTruncated)
	}
	body := frame[4 : 4+int(length)]

	d.cursor.Reset(int(length))
	offset := 0

	xid, err := d.cursor.PeekInt32(body, &offset)
	if err != nil {
		return d.fail(err)
	}

	var entry inflightEntry
	if zkproto.Xid(xid) != zkproto.WatchXid {
		e, ok := d.inflight.take(xid)
		if !ok {
			return d.fail(ErrXidNotFound)
		}
		entry = e
	}
	latency := func() time.Duration {
		if entry.start.IsZero() {
			return 0
		}
		return now.Sub(entry.start)
	}

	if zkproto.Xid(xid) == zkproto.ConnectXid {
		// The wire format labels the leading 4-byte field "timeout" and
		// never actually carries a protocol version; we preserve that
		// observable behavior rather than silently swapping the names.
		// Connect responses are the one kind with no zxid/err header at all.
		timeout, err := d.cursor.PeekInt32(body, &offset)
		if err != nil {
			return d.fail(err)
		}
		if err := d.cursor.Skip(body, &offset, 8); err != nil { // session id
			return d.fail(err)
		}
		if err := d.cursor.SkipString(body, &offset); err != nil { // password
			return d.fail(err)
		}
		readOnly := false
		if offset < len(body) {
			readOnly, err = d.cursor.PeekBool(body, &offset)
			if err != nil {
				return d.fail(err)
			}
		}
		d.sink.OnConnectResponse(0, timeout, readOnly, latency())
		d.sink.OnResponseBytes(4 + int(length))
		return nil
	}

	// Every other response -- Ping, Auth, SetWatches, a watch event, and
	// ordinary data responses alike -- carries the same zxid+err header
	// right after the xid.
	zxid, err := d.cursor.PeekInt64(body, &offset)
	if err != nil {
		return d.fail(err)
	}
	errCode, err := d.cursor.PeekInt32(body, &offset)
	if err != nil {
		return d.fail(err)
	}

	if zkproto.Xid(xid) == zkproto.WatchXid {
		ev, err := d.decodeWatchEvent(body, &offset)
		if err != nil {
			return d.fail(err)
		}
		ev.Zxid = zxid
		ev.Err = zk.ErrCode(errCode)
		d.sink.OnWatchEvent(ev)
		d.sink.OnResponseBytes(4 + int(length))
		return nil
	}

	// PingXid/AuthXid/SetWatchesXid responses and ordinary data responses
	// both end here: neither is interpreted further, so any trailing
	// operation-specific body is simply skipped to keep the frame
	// ceiling accounting exact.
	if err := d.cursor.Skip(body, &offset, len(body)-offset); err != nil {
		return d.fail(err)
	}
	d.sink.OnResponse(entry.opcode, xid, zxid, zk.ErrCode(errCode), latency())
	d.sink.OnResponseBytes(4 + int(length))
	return nil
}

func (d *Decoder) decodeConnectRequest(buf []byte, offset *int) (bool, error) {
	if err := d.cursor.Skip(buf, offset, 8); err != nil { // last zxid seen
		return false, err
	}
	if err := d.cursor.Skip(buf, offset, 4); err != nil { // timeout
		return false, err
	}
	if err := d.cursor.Skip(buf, offset, 8); err != nil { // session id
		return false, err
	}
	if err := d.cursor.SkipString(buf, offset); err != nil { // password
		return false, err
	}
	if *offset >= len(buf) {
		return false, nil
	}
	return d.cursor.PeekBool(buf, offset)
}

func (d *Decoder) decodeWatchEvent(buf []byte, offset *int) (*zkproto.WatchEvent, error) {
	eventType, err := d.cursor.PeekInt32(buf, offset)
	if err != nil {
		return nil, err
	}
	clientState, err := d.cursor.PeekInt32(buf, offset)
	if err != nil {
		return nil, err
	}
	path, err := d.cursor.PeekString(buf, offset)
	if err != nil {
		return nil, err
	}
	return &zkproto.WatchEvent{
		EventType:   zk.EventType(eventType),
		ClientState: zk.State(clientState),
		Path:        path,
	}, nil
}

func (d *Decoder) decodeSetWatchesBody(buf []byte, offset *int) error {
	if err := d.cursor.Skip(buf, offset, 8); err != nil { // relative zxid
		return err
	}
	for i := 0; i < 3; i++ {
		if _, err := d.cursor.PeekStringVector(buf, offset); err != nil {
			return err
		}
	}
	return nil
}
