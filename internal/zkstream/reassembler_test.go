package zkstream

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffbean/zkproxy/internal/zkdecoder"
)

func int32Bytes(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

func frame(body []byte) []byte {
	out := make([]byte, 0, 4+len(body))
	out = append(out, int32Bytes(int32(len(body)))...)
	out = append(out, body...)
	return out
}

func pingRequestFrame() []byte {
	return frame(append(int32Bytes(-2), int32Bytes(-2)...))
}

type countingSink struct {
	zkdecoder.NopSink
	pings  int
	errors int
}

func (s *countingSink) OnPing()            { s.pings++ }
func (s *countingSink) OnDecodeError(string) { s.errors++ }

func TestSplitPacketAcrossTwoChunks(t *testing.T) {
	sink := &countingSink{}
	r := New(zkdecoder.New(1<<20, sink))

	two := append(append([]byte{}, pingRequestFrame()...), pingRequestFrame()...)
	require.Len(t, two, 24)

	require.NoError(t, r.OnData(two[:6], time.Now()))
	assert.Equal(t, 0, sink.pings)
	require.NoError(t, r.OnData(two[6:], time.Now()))

	assert.Equal(t, 2, sink.pings)
	assert.Equal(t, 0, r.ResidualLen(Request))
}

func TestSplitAtEveryByteBoundaryMatchesWholeStream(t *testing.T) {
	whole := append(append([]byte{}, pingRequestFrame()...), pingRequestFrame()...)

	for cut := 0; cut <= len(whole); cut++ {
		sink := &countingSink{}
		r := New(zkdecoder.New(1<<20, sink))

		if cut > 0 && cut < minLengthPrefixSize {
			// 1-3 bytes is a truncated length header, not a legitimate
			// partial read: the pre-scan reports it as a decode error
			// rather than buffering and waiting for bytes that would
			// only realign the stream by coincidence.
			require.Error(t, r.OnData(whole[:cut], time.Now()), "cut at byte %d", cut)
			assert.Equal(t, 1, sink.errors, "cut at byte %d", cut)
			continue
		}

		require.NoError(t, r.OnData(whole[:cut], time.Now()))
		require.NoError(t, r.OnData(whole[cut:], time.Now()))
		assert.Equal(t, 2, sink.pings, "cut at byte %d", cut)
	}
}

func TestTruncatedLengthHeaderReportsDecodeError(t *testing.T) {
	sink := &countingSink{}
	r := New(zkdecoder.New(1<<20, sink))

	require.Error(t, r.OnData(int32Bytes(8)[:3], time.Now()))
	assert.Equal(t, 1, sink.errors)
	assert.Equal(t, 0, r.ResidualLen(Request))
}

func TestTrailingPartialPacketIsBuffered(t *testing.T) {
	sink := &countingSink{}
	r := New(zkdecoder.New(1<<20, sink))

	whole := pingRequestFrame()
	require.NoError(t, r.OnData(whole[:len(whole)-2], time.Now()))
	assert.Equal(t, 0, sink.pings)
	assert.Equal(t, len(whole)-2, r.ResidualLen(Request))

	require.NoError(t, r.OnData(whole[len(whole)-2:], time.Now()))
	assert.Equal(t, 1, sink.pings)
	assert.Equal(t, 0, r.ResidualLen(Request))
}

func TestPrescanFailureReportsDecodeError(t *testing.T) {
	sink := &countingSink{}
	r := New(zkdecoder.New(1<<20, sink))

	bad := append([]byte{}, int32Bytes(-5)...) // negative declared length
	require.Error(t, r.OnData(bad, time.Now()))
	assert.Equal(t, 1, sink.errors)
}

func TestPrescanRejectsUndersizedLengthWithoutBufferingForever(t *testing.T) {
	sink := &countingSink{}
	r := New(zkdecoder.New(1<<20, sink))

	// Declares a 4-byte body, below MinRequestBodyLen (8), and never
	// supplies it. The pre-scan must fail on the length prefix alone
	// rather than parking this in residual waiting for bytes that would
	// only be rejected once they arrived.
	bad := int32Bytes(4)
	require.Error(t, r.OnData(bad, time.Now()))
	assert.Equal(t, 1, sink.errors)
	assert.Equal(t, 0, r.ResidualLen(Request))
}

func TestPrescanRejectsOversizedLengthWithoutBufferingForever(t *testing.T) {
	sink := &countingSink{}
	r := New(zkdecoder.New(16, sink))

	// Declares a body bigger than the configured max_packet_bytes (16)
	// and never supplies it.
	bad := int32Bytes(1 << 20)
	require.Error(t, r.OnData(bad, time.Now()))
	assert.Equal(t, 1, sink.errors)
	assert.Equal(t, 0, r.ResidualLen(Request))
}

func TestNeverDropsOrRewritesBytesOnSuccess(t *testing.T) {
	sink := &countingSink{}
	r := New(zkdecoder.New(1<<20, sink))

	whole := append(append([]byte{}, pingRequestFrame()...), pingRequestFrame()...)
	require.NoError(t, r.OnData(whole, time.Now()))
	assert.Equal(t, 2, sink.pings)
}
