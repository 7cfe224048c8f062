// Package zkcursor implements a strictly big-endian primitive reader over a
// byte buffer, the innermost building block of the ZooKeeper wire decoder.
//
// A Cursor tracks two things: the caller's logical offset into the shared
// buffer (advanced by every peek/skip call) and its own internal per-message
// tally, reset with Reset before each top-level message is decoded. The
// internal tally enforces the declared frame length so a corrupt inner
// string length can never walk a read past the end of its own frame.
package zkcursor

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrTruncated is returned when a read would consume bytes past the end of
// the supplied buffer.
var ErrTruncated = errors.New("zkcursor: truncated read")

// ErrFrameExceeded is returned when a read would push the per-message tally
// past the frame's declared length.
var ErrFrameExceeded = errors.New("zkcursor: read exceeds declared frame length")

// Cursor reads big-endian ZooKeeper primitives from buf starting at a
// caller-supplied offset, enforcing a per-message length ceiling.
type Cursor struct {
	limit    int // declared length of the current message body, in bytes
	consumed int // bytes consumed from the current message body so far
}

// New returns a Cursor with its per-message ceiling already set to limit.
func New(limit int) *Cursor {
	c := &Cursor{}
	c.Reset(limit)
	return c
}

// Reset resets the internal per-message cursor used for length enforcement.
// Call this once per top-level message, before peeking any of its fields.
func (c *Cursor) Reset(limit int) {
	c.limit = limit
	c.consumed = 0
}

func (c *Cursor) take(n int) error {
	if n < 0 {
		return errors.Wrap(ErrTruncated, "negative length")
	}
	if c.consumed+n > c.limit {
		return ErrFrameExceeded
	}
	c.consumed += n
	return nil
}

func (c *Cursor) need(buf []byte, offset, n int) error {
	if offset < 0 || n < 0 || offset+n > len(buf) {
		return ErrTruncated
	}
	return c.take(n)
}

// Skip advances *offset by n bytes, charging n against the frame ceiling.
func (c *Cursor) Skip(buf []byte, offset *int, n int) error {
	if err := c.need(buf, *offset, n); err != nil {
		return err
	}
	*offset += n
	return nil
}

// PeekBool reads a single byte bool: non-zero is true.
func (c *Cursor) PeekBool(buf []byte, offset *int) (bool, error) {
	if err := c.need(buf, *offset, 1); err != nil {
		return false, err
	}
	v := buf[*offset] != 0
	*offset++
	return v, nil
}

// PeekInt32 reads a signed big-endian 4-byte integer.
func (c *Cursor) PeekInt32(buf []byte, offset *int) (int32, error) {
	if err := c.need(buf, *offset, 4); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(buf[*offset : *offset+4]))
	*offset += 4
	return v, nil
}

// PeekInt64 reads a signed big-endian 8-byte integer.
func (c *Cursor) PeekInt64(buf []byte, offset *int) (int64, error) {
	if err := c.need(buf, *offset, 8); err != nil {
		return 0, err
	}
	v := int64(binary.BigEndian.Uint64(buf[*offset : *offset+8]))
	*offset += 8
	return v, nil
}

// PeekString reads an int32 length n followed by n bytes. A negative n is
// the wire's null/empty sentinel: it returns "" and consumes no body bytes
// beyond the length prefix itself.
func (c *Cursor) PeekString(buf []byte, offset *int) (string, error) {
	n, err := c.PeekInt32(buf, offset)
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", nil
	}
	if err := c.need(buf, *offset, int(n)); err != nil {
		return "", err
	}
	s := string(buf[*offset : *offset+int(n)])
	*offset += int(n)
	return s, nil
}

// SkipString reads and discards a string, for fields the decoder observes
// but never surfaces through a callback (create payloads, passwords, ...).
func (c *Cursor) SkipString(buf []byte, offset *int) error {
	_, err := c.PeekString(buf, offset)
	return err
}

// PeekStringVector reads an int32 count followed by count strings.
func (c *Cursor) PeekStringVector(buf []byte, offset *int) ([]string, error) {
	count, err := c.PeekInt32(buf, offset)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, nil
	}
	out := make([]string, 0, count)
	for i := int32(0); i < count; i++ {
		s, err := c.PeekString(buf, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ACL is the on-wire (perms, scheme, credential) triple making up one entry
// of an acl-vector.
type ACL struct {
	Perms  int32
	Scheme string
	Cred   string
}

// SkipACLVector reads and discards an int32 count followed by count ACL
// entries. The core never interprets ACLs, only accounts for their bytes.
func (c *Cursor) SkipACLVector(buf []byte, offset *int) error {
	count, err := c.PeekInt32(buf, offset)
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		if err := c.Skip(buf, offset, 4); err != nil { // perms
			return err
		}
		if err := c.SkipString(buf, offset); err != nil { // scheme
			return err
		}
		if err := c.SkipString(buf, offset); err != nil { // cred
			return err
		}
	}
	return nil
}
