// Package zkstream reassembles ZooKeeper messages out of a raw TCP byte
// stream. TCP delivers bytes, not messages, so a length-prefixed packet may
// arrive split across two or more reads, or a read may carry several whole
// packets plus a trailing partial one. Reassembler absorbs that.
package zkstream

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"

	"github.com/jeffbean/zkproxy/internal/zkdecoder"
)

// Direction distinguishes the client->server request stream from the
// server->client response stream; each gets its own residual buffer and
// decode entry point.
type Direction int

const (
	// Request is the client->server direction, decoded with DecodeOnData.
	Request Direction = iota
	// Response is the server->client direction, decoded with DecodeOnWrite.
	Response
)

const minLengthPrefixSize = 4

// Reassembler wraps one Decoder with a residual buffer per direction. Feed
// it raw bytes as they arrive off the wire; it decodes every whole message
// it can and keeps any trailing partial bytes for the next call.
//
// One Reassembler serves exactly one connection; it is not safe for
// concurrent use.
type Reassembler struct {
	decoder  *zkdecoder.Decoder
	residual [2][]byte // indexed by Direction
}

// New wraps decoder with a residual buffer for each direction.
func New(decoder *zkdecoder.Decoder) *Reassembler {
	return &Reassembler{decoder: decoder}
}

// OnData feeds a new chunk of client->server bytes through the reassembler.
// It always returns nil unless decoding hit a fatal error, in which case
// the decoder has already invoked Sink.OnDecodeError; callers continue
// forwarding bytes regardless -- a decode error on one message doesn't
// stop the tap from observing the rest of the connection.
func (r *Reassembler) OnData(chunk []byte, now time.Time) error {
	return r.feed(Request, chunk, now)
}

// OnWrite feeds a new chunk of server->client bytes through the
// reassembler. See OnData.
func (r *Reassembler) OnWrite(chunk []byte, now time.Time) error {
	return r.feed(Response, chunk, now)
}

func (r *Reassembler) feed(dir Direction, chunk []byte, now time.Time) error {
	stream := chunk
	if len(r.residual[dir]) > 0 {
		// The residual is logically drained into the stream: what was
		// buffered becomes the prefix of what we now decode.
		stream = append(append([]byte{}, r.residual[dir]...), chunk...)
		r.residual[dir] = nil
	}

	minBodyLen := int32(zkdecoder.MinRequestBodyLen)
	if dir == Response {
		minBodyLen = int32(zkdecoder.MinResponseBodyLen)
	}
	completeEnd, sawComplete, err := prescan(stream, minBodyLen, r.decoder.MaxPacketBytes())
	if err != nil {
		return r.decoder.FailExternal(err)
	}

	if completeEnd == len(stream) {
		return r.decodeAll(dir, stream, now)
	}

	if !sawComplete {
		// Not even one whole message yet; buffer everything.
		r.residual[dir] = append([]byte{}, stream...)
		return nil
	}

	// completeEnd overshot len(stream): rewind to the start of the
	// trailing partial packet, decode the complete prefix, and stash the
	// remainder.
	complete := stream[:completeEnd]
	r.residual[dir] = append([]byte{}, stream[completeEnd:]...)
	return r.decodeAll(dir, complete, now)
}

// prescan walks stream peeking length prefixes and advancing by 4+L,
// without decoding bodies. It reports the offset one past the last whole
// message it found, and whether it found at least one. A declared length
// outside [minBodyLen, maxPacketBytes] is a bounds violation and, like a
// negative or truncated length header, is a pre-scan failure that aborts
// the whole chunk rather than waiting for bytes that would only be
// rejected once they arrived.
func prescan(stream []byte, minBodyLen int32, maxPacketBytes uint32) (offset int, sawComplete bool, err error) {
	for {
		remaining := len(stream) - offset
		if remaining == 0 {
			return offset, sawComplete, nil
		}
		if remaining < minLengthPrefixSize {
			return offset, sawComplete, errors.New("zkstream: truncated length header")
		}
		length := int32(binary.BigEndian.Uint32(stream[offset : offset+minLengthPrefixSize]))
		if length < 0 {
			return offset, sawComplete, errors.New("zkstream: negative frame length")
		}
		if length < minBodyLen {
			return offset, sawComplete, errors.New("zkstream: frame length below minimum")
		}
		if uint32(length) > maxPacketBytes {
			return offset, sawComplete, errors.New("zkstream: frame length exceeds max_packet_bytes")
		}
		next := offset + minLengthPrefixSize + int(length)
		if next > len(stream) {
			// This packet isn't wholly present yet -- not an error,
			// just the trailing partial packet.
			return offset, sawComplete, nil
		}
		offset = next
		sawComplete = true
	}
}

// decodeAll decodes every whole message in buf, stopping at the first
// decode error. The rest of buf, if any, is simply dropped on the floor:
// once a decode error occurs, xid correlation is best-effort.
func (r *Reassembler) decodeAll(dir Direction, buf []byte, now time.Time) error {
	offset := 0
	for offset < len(buf) {
		length := int32(binary.BigEndian.Uint32(buf[offset : offset+minLengthPrefixSize]))
		end := offset + minLengthPrefixSize + int(length)
		if err := r.decodeOne(dir, buf[offset:end], now); err != nil {
			return err
		}
		offset = end
	}
	return nil
}

func (r *Reassembler) decodeOne(dir Direction, frame []byte, now time.Time) error {
	if dir == Request {
		return r.decoder.DecodeOnData(frame, now)
	}
	return r.decoder.DecodeOnWrite(frame, now)
}

// ResidualLen reports how many bytes are currently buffered for dir,
// awaiting the rest of a split packet. Exposed for tests and diagnostics.
func (r *Reassembler) ResidualLen(dir Direction) int {
	return len(r.residual[dir])
}
