package zkdecoder

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/jeffbean/go-zookeeper/zk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffbean/zkproxy/internal/zkproto"
)

type recordingSink struct {
	NopSink
	pings           int
	connects        []bool
	responses       []responseCall
	connectResp     []connectRespCall
	watchEvents     []*zkproto.WatchEvent
	multiCalls      int
	decodeErrors    []string
	requestBytes    []int
	responseBytes   []int
	createRequests  []createCall
	getDataRequests []getDataCall
}

type responseCall struct {
	opcode  zkproto.OpCode
	xid     int32
	zxid    int64
	err     zk.ErrCode
	latency time.Duration
}

type connectRespCall struct {
	protocolVersion int32
	timeout         int32
	readOnly        bool
	latency         time.Duration
}

type createCall struct {
	path  string
	flags zkproto.CreateFlag
	op    zkproto.OpCode
}

type getDataCall struct {
	path  string
	watch bool
}

func (s *recordingSink) OnPing()             { s.pings++ }
func (s *recordingSink) OnConnect(ro bool)   { s.connects = append(s.connects, ro) }
func (s *recordingSink) OnMultiRequest()     { s.multiCalls++ }
func (s *recordingSink) OnDecodeError(r string) {
	s.decodeErrors = append(s.decodeErrors, r)
}
func (s *recordingSink) OnRequestBytes(n int)  { s.requestBytes = append(s.requestBytes, n) }
func (s *recordingSink) OnResponseBytes(n int) { s.responseBytes = append(s.responseBytes, n) }
func (s *recordingSink) OnResponse(op zkproto.OpCode, xid int32, zxid int64, err zk.ErrCode, latency time.Duration) {
	s.responses = append(s.responses, responseCall{op, xid, zxid, err, latency})
}
func (s *recordingSink) OnConnectResponse(pv, timeout int32, ro bool, latency time.Duration) {
	s.connectResp = append(s.connectResp, connectRespCall{pv, timeout, ro, latency})
}
func (s *recordingSink) OnWatchEvent(ev *zkproto.WatchEvent) {
	s.watchEvents = append(s.watchEvents, ev)
}
func (s *recordingSink) OnCreateRequest(path string, flags zkproto.CreateFlag, op zkproto.OpCode) {
	s.createRequests = append(s.createRequests, createCall{path, flags, op})
}
func (s *recordingSink) OnGetDataRequest(path string, watch bool) {
	s.getDataRequests = append(s.getDataRequests, getDataCall{path, watch})
}

func int32Bytes(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

func int64Bytes(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func frame(body []byte) []byte {
	out := make([]byte, 0, 4+len(body))
	out = append(out, int32Bytes(int32(len(body)))...)
	out = append(out, body...)
	return out
}

func stringBytes(s string) []byte {
	out := int32Bytes(int32(len(s)))
	return append(out, []byte(s)...)
}

func TestPingRoundTrip(t *testing.T) {
	sink := &recordingSink{}
	d := New(1<<20, sink)

	start := time.Unix(100, 0)
	req := frame(append(int32Bytes(-2), int32Bytes(-2)...))
	require.NoError(t, d.DecodeOnData(req, start))
	assert.Equal(t, 1, sink.pings)
	assert.Equal(t, 1, d.InflightLen())

	later := start.Add(5 * time.Millisecond)
	body := append(int32Bytes(-2), int64Bytes(42)...)
	body = append(body, int32Bytes(0)...)
	resp := frame(body)
	require.NoError(t, d.DecodeOnWrite(resp, later))

	require.Len(t, sink.responses, 1)
	got := sink.responses[0]
	assert.Equal(t, zkproto.OpPing, got.opcode)
	assert.EqualValues(t, -2, got.xid)
	assert.EqualValues(t, 42, got.zxid)
	assert.GreaterOrEqual(t, got.latency, time.Duration(0))
	assert.Equal(t, 0, d.InflightLen())
}

func TestUnknownOpcodeIsFatal(t *testing.T) {
	sink := &recordingSink{}
	d := New(1<<20, sink)

	body := append(int32Bytes(1), int32Bytes(0x7fffffff)...)
	require.Error(t, d.DecodeOnData(frame(body), time.Now()))
	assert.Len(t, sink.decodeErrors, 1)
}

func TestConnectRequestAndResponse(t *testing.T) {
	sink := &recordingSink{}
	d := New(1<<20, sink)

	start := time.Unix(0, 0)
	reqBody := append(int64Bytes(0), int32Bytes(10000)...) // zxid, timeout
	reqBody = append(reqBody, int64Bytes(99)...)           // session
	reqBody = append(reqBody, stringBytes("")...)          // password
	reqBody = append(reqBody, 1)                           // readonly = true
	reqBody = append(int32Bytes(0), reqBody...)            // xid=0 prefix
	require.NoError(t, d.DecodeOnData(frame(reqBody), start))
	require.Len(t, sink.connects, 1)
	assert.True(t, sink.connects[0])

	later := start.Add(10 * time.Millisecond)
	respBody := append(int32Bytes(0), int32Bytes(30000)...) // xid=0, timeout=30000
	respBody = append(respBody, int64Bytes(99)...)          // session
	respBody = append(respBody, stringBytes("")...)         // password
	respBody = append(respBody, 0)                          // readonly = false
	require.NoError(t, d.DecodeOnWrite(frame(respBody), later))

	require.Len(t, sink.connectResp, 1)
	got := sink.connectResp[0]
	assert.EqualValues(t, 0, got.protocolVersion)
	assert.EqualValues(t, 30000, got.timeout)
	assert.False(t, got.readOnly)
	assert.Equal(t, 10*time.Millisecond, got.latency)
}

func TestUnmatchedResponseXidIsFatal(t *testing.T) {
	sink := &recordingSink{}
	d := New(1<<20, sink)

	body := append(int32Bytes(42), int64Bytes(0)...)
	body = append(body, int32Bytes(0)...)
	require.Error(t, d.DecodeOnWrite(frame(body), time.Now()))
	assert.Len(t, sink.decodeErrors, 1)
}

func TestMultiWithCheckAndCreateAndDone(t *testing.T) {
	sink := &recordingSink{}
	d := New(1<<20, sink)

	var body []byte
	body = append(body, int32Bytes(7)...)            // xid
	body = append(body, int32Bytes(int32(zkproto.OpMulti))...) // opcode

	// sub-op 1: Check
	body = append(body, int32Bytes(int32(zkproto.OpCheck))...)
	body = append(body, 0) // done=false
	body = append(body, int32Bytes(0)...)
	body = append(body, stringBytes("/a")...)
	body = append(body, int32Bytes(3)...) // version

	// sub-op 2: Create
	body = append(body, int32Bytes(int32(zkproto.OpCreate))...)
	body = append(body, 0) // done=false
	body = append(body, int32Bytes(0)...)
	body = append(body, stringBytes("/b")...)
	body = append(body, stringBytes("data")...)
	body = append(body, int32Bytes(0)...) // acl count = 0
	body = append(body, int32Bytes(0)...) // flags

	// done header
	body = append(body, int32Bytes(-1)...)
	body = append(body, 1) // done=true
	body = append(body, int32Bytes(0)...)

	require.NoError(t, New(1<<20, sink).DecodeOnData(frame(body), time.Now()))
	assert.Equal(t, 1, sink.multiCalls)
}

func TestMultiWithNestedCreate2IsUnknownOpcode(t *testing.T) {
	sink := &recordingSink{}
	d := New(1<<20, sink)

	var body []byte
	body = append(body, int32Bytes(7)...)                      // xid
	body = append(body, int32Bytes(int32(zkproto.OpMulti))...) // opcode

	// sub-op: Create2 -- accepted as a top-level request opcode, but the
	// nested-op switch inside a Multi body only recognizes plain Create.
	body = append(body, int32Bytes(int32(zkproto.OpCreate2))...)
	body = append(body, 0) // done=false
	body = append(body, int32Bytes(0)...)
	body = append(body, stringBytes("/b")...)
	body = append(body, stringBytes("data")...)
	body = append(body, int32Bytes(0)...) // acl count = 0
	body = append(body, int32Bytes(0)...) // flags

	require.ErrorIs(t, d.DecodeOnData(frame(body), time.Now()), ErrUnknownMultiOpcode)
	assert.Len(t, sink.decodeErrors, 1)
}

func TestFrameTooBig(t *testing.T) {
	sink := &recordingSink{}
	d := New(8, sink) // max = exactly min request size

	okBody := append(int32Bytes(1), int32Bytes(int32(zkproto.OpPing))...)
	require.NoError(t, d.DecodeOnData(frame(okBody), time.Now()))

	tooBig := append(okBody, 0x00)
	require.Error(t, d.DecodeOnData(frame(tooBig), time.Now()))
}

func TestFrameTooSmall(t *testing.T) {
	sink := &recordingSink{}
	d := New(1<<20, sink)
	require.Error(t, d.DecodeOnData(frame(int32Bytes(1)), time.Now()))
}

func TestWatchEvent(t *testing.T) {
	sink := &recordingSink{}
	d := New(1<<20, sink)

	body := append(int32Bytes(-1), int64Bytes(55)...)
	body = append(body, int32Bytes(0)...)
	body = append(body, int32Bytes(1)...) // event type
	body = append(body, int32Bytes(3)...) // client state
	body = append(body, stringBytes("/watched")...)

	require.NoError(t, d.DecodeOnWrite(frame(body), time.Now()))
	require.Len(t, sink.watchEvents, 1)
	assert.Equal(t, "/watched", sink.watchEvents[0].Path)
}

func TestCreateRequestRecognizesAllFourVariants(t *testing.T) {
	ops := []zkproto.OpCode{zkproto.OpCreate, zkproto.OpCreate2, zkproto.OpCreateContainer, zkproto.OpCreateTTL}
	for _, op := range ops {
		sink := &recordingSink{}
		d := New(1<<20, sink)

		body := append(int32Bytes(1), int32Bytes(int32(op))...)
		body = append(body, stringBytes("/x")...)
		body = append(body, stringBytes("payload")...)
		body = append(body, int32Bytes(0)...) // acl count
		body = append(body, int32Bytes(int32(zkproto.FlagEphemeral))...)

		require.NoError(t, d.DecodeOnData(frame(body), time.Now()))
		require.Len(t, sink.createRequests, 1)
		assert.Equal(t, "/x", sink.createRequests[0].path)
		assert.Equal(t, zkproto.FlagEphemeral, sink.createRequests[0].flags)
		assert.Equal(t, op, sink.createRequests[0].op)
	}
}

func TestNegativeLengthStringConsumesNoBodyBytes(t *testing.T) {
	sink := &recordingSink{}
	d := New(1<<20, sink)

	body := append(int32Bytes(1), int32Bytes(int32(zkproto.OpGetData))...)
	body = append(body, int32Bytes(-1)...) // null path string
	body = append(body, 1)                 // watch = true

	require.NoError(t, d.DecodeOnData(frame(body), time.Now()))
	require.Len(t, sink.getDataRequests, 1)
	assert.Equal(t, "", sink.getDataRequests[0].path)
	assert.True(t, sink.getDataRequests[0].watch)
}
