package zkcursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekInt32(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x08, 0xff}
	c := New(len(buf))
	offset := 0
	v, err := c.PeekInt32(buf, &offset)
	require.NoError(t, err)
	assert.Equal(t, int32(8), v)
	assert.Equal(t, 4, offset)
}

func TestPeekInt64Negative(t *testing.T) {
	buf := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe}
	c := New(len(buf))
	offset := 0
	v, err := c.PeekInt64(buf, &offset)
	require.NoError(t, err)
	assert.EqualValues(t, -2, v)
}

func TestPeekBool(t *testing.T) {
	buf := []byte{0x01, 0x00}
	c := New(len(buf))
	offset := 0
	v, err := c.PeekBool(buf, &offset)
	require.NoError(t, err)
	assert.True(t, v)
	v, err = c.PeekBool(buf, &offset)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestPeekStringNegativeLengthIsEmpty(t *testing.T) {
	buf := []byte{0xff, 0xff, 0xff, 0xff}
	c := New(len(buf))
	offset := 0
	s, err := c.PeekString(buf, &offset)
	require.NoError(t, err)
	assert.Equal(t, "", s)
	assert.Equal(t, 4, offset)
}

func TestPeekStringHappyPath(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x03, 'f', 'o', 'o', 'x'}
	c := New(len(buf))
	offset := 0
	s, err := c.PeekString(buf, &offset)
	require.NoError(t, err)
	assert.Equal(t, "foo", s)
	assert.Equal(t, 7, offset)
}

func TestPeekStringVector(t *testing.T) {
	buf := []byte{
		0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x01, 'a',
		0x00, 0x00, 0x00, 0x01, 'b',
	}
	c := New(len(buf))
	offset := 0
	v, err := c.PeekStringVector(buf, &offset)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)
	assert.Equal(t, len(buf), offset)
}

func TestTruncatedReadErrors(t *testing.T) {
	buf := []byte{0x00, 0x00}
	c := New(len(buf))
	offset := 0
	_, err := c.PeekInt32(buf, &offset)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestFrameCeilingEnforced(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	c := New(6) // declared frame shorter than the buffer
	offset := 0
	_, err := c.PeekInt64(buf, &offset)
	assert.ErrorIs(t, err, ErrFrameExceeded)
}

func TestResetStartsFreshCeiling(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x00}
	c := New(4)
	offset := 0
	_, err := c.PeekInt32(buf, &offset)
	require.NoError(t, err)

	c.Reset(4)
	offset = 0
	_, err = c.PeekInt32(buf, &offset)
	assert.NoError(t, err)
}

func TestSkipACLVector(t *testing.T) {
	buf := []byte{
		0x00, 0x00, 0x00, 0x01, // count = 1
		0x00, 0x00, 0x00, 0x1f, // perms
		0x00, 0x00, 0x00, 0x05, 'w', 'o', 'r', 'l', 'd', // scheme
		0x00, 0x00, 0x00, 0x05, 'a', 'n', 'y', 'o', 'n', // cred (5 bytes, truncated label ok for test)
	}
	c := New(len(buf))
	offset := 0
	err := c.SkipACLVector(buf, &offset)
	require.NoError(t, err)
	assert.Equal(t, len(buf), offset)
}
