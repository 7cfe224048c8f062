// Command zkproxy taps ZooKeeper client<->server traffic off a network
// interface (or replays a pcap file), reassembles and decodes every
// request/response, and reports per-operation counts, latencies, and
// decode errors to Prometheus. It is the observing half of the system:
// it never rewrites or originates traffic.
//
// Use tcpdump to create a test file for -pcap-file:
//
//	tcpdump -w test.pcap
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/jeffbean/zkproxy/internal/zkconfig"
	"github.com/jeffbean/zkproxy/internal/zkdecoder"
	"github.com/jeffbean/zkproxy/internal/zklog"
	"github.com/jeffbean/zkproxy/internal/zkmetrics"
	"github.com/jeffbean/zkproxy/internal/zkpacket"
	"github.com/jeffbean/zkproxy/internal/zkstream"
)

const snapshotLen int32 = 1024

// flowKey identifies one client<->server ZooKeeper connection by the
// client side's address.
type flowKey struct {
	clientIP   string
	clientPort layers.TCPPort
}

func (k flowKey) String() string {
	return fmt.Sprintf("%s:%d", k.clientIP, k.clientPort)
}

// connState is everything one connection's tap needs: its reassembler
// (which owns the per-direction residual buffers and the inflight-request
// table) and the metrics sink it's wired to, so main can push an inflight
// gauge update after every packet.
type connState struct {
	decoder     *zkdecoder.Decoder
	reassembler *zkstream.Reassembler
	metrics     *zkmetrics.Sink
}

type tap struct {
	cfg    zkconfig.Config
	logger *zap.Logger
	scope  tally.Scope
	flows  map[flowKey]*connState
}

func main() {
	cfg := zkconfig.Default()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	logger, err := zklog.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	scope, closer := zkmetrics.RootScope()
	defer closer.Close()

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(cfg.ListenAddress, nil); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	handle, err := openCapture(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer handle.Close()

	filter := fmt.Sprintf("tcp and port %d", cfg.ZKPort)
	if err := handle.SetBPFFilter(filter); err != nil {
		log.Fatal(err)
	}
	logger.Info("capture filter set", zap.String("filter", filter))

	t := &tap{cfg: cfg, logger: logger, scope: scope, flows: map[flowKey]*connState{}}

	source := gopacket.NewPacketSource(handle, handle.LinkType())
	for packet := range source.Packets() {
		t.handlePacket(packet)
	}
}

func openCapture(cfg zkconfig.Config) (*pcap.Handle, error) {
	if cfg.PcapFile != "" {
		return pcap.OpenOffline(cfg.PcapFile)
	}
	return pcap.OpenLive(cfg.Interface, snapshotLen, false /* promiscuous */, pcap.BlockForever)
}

func castLayers(packet gopacket.Packet) (*layers.TCP, *layers.IPv4, error) {
	tcpLayer := packet.Layer(layers.LayerTypeTCP)
	ipLayer := packet.LayerClass(layers.LayerClassIPNetwork)
	if tcpLayer == nil || ipLayer == nil {
		return nil, nil, errors.New("required layers not found")
	}
	tcp, _ := tcpLayer.(*layers.TCP)
	ip, _ := ipLayer.(*layers.IPv4)
	if tcp == nil || ip == nil {
		return nil, nil, errors.New("failed to cast required layers TCP or IPv4")
	}
	return tcp, ip, nil
}

func (t *tap) handlePacket(packet gopacket.Packet) {
	if err := packet.ErrorLayer(); err != nil {
		t.logger.Warn("error layer found in packet", zap.Error(err.Error()))
		return
	}

	tcp, ip, err := castLayers(packet)
	if err != nil {
		return
	}

	app := packet.ApplicationLayer()
	if app == nil {
		return
	}
	payload := app.Payload()
	if len(payload) == 0 {
		return
	}

	// Sanity-check the payload shape independent of the reassembler, which
	// re-reads the length prefix itself once this frame is actually
	// dispatched: a capture fragment shorter than a length prefix is
	// dropped here rather than handed to the stream reassembler at all.
	if _, err := zkpacket.DecodePacket(payload); err != nil {
		t.logger.Debug("short capture fragment dropped", zap.Error(err))
		return
	}

	now := packet.Metadata().Timestamp

	zkPort := layers.TCPPort(t.cfg.ZKPort)
	switch {
	case tcp.SrcPort == zkPort:
		key := flowKey{clientIP: ip.DstIP.String(), clientPort: tcp.DstPort}
		t.decodeInto(key, zkstream.Response, payload, now)
	case tcp.DstPort == zkPort:
		key := flowKey{clientIP: ip.SrcIP.String(), clientPort: tcp.SrcPort}
		t.decodeInto(key, zkstream.Request, payload, now)
	}
}

func (t *tap) decodeInto(key flowKey, dir zkstream.Direction, payload []byte, now time.Time) {
	conn, ok := t.flows[key]
	if !ok {
		if dir == zkstream.Response {
			// A response for a connection we never saw the request
			// side of (capture started mid-session): nothing to
			// correlate against, so there's nothing useful to do.
			return
		}
		conn = t.newConn(key)
		t.flows[key] = conn
	}

	var err error
	if dir == zkstream.Request {
		err = conn.reassembler.OnData(payload, now)
	} else {
		err = conn.reassembler.OnWrite(payload, now)
	}
	if err != nil {
		t.logger.Warn("decode error", zap.Stringer("flow", key), zap.Error(err))
	}
	conn.metrics.SetInflight(conn.decoder.InflightLen())
}

func (t *tap) newConn(key flowKey) *connState {
	connScope := t.scope.Tagged(map[string]string{"flow": key.String()})
	metricsSink := zkmetrics.New(connScope)
	logSink := zklog.New(t.logger.With(zap.Stringer("flow", key)))
	decoder := zkdecoder.New(t.cfg.MaxPacketBytes, zkdecoder.TeeSink{logSink, metricsSink})
	return &connState{
		decoder:     decoder,
		reassembler: zkstream.New(decoder),
		metrics:     metricsSink,
	}
}
