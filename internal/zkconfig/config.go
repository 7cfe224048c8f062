// Package zkconfig centralizes the tap's handful of tunables into one
// struct, loaded from command-line flags.
package zkconfig

import (
	"flag"
	"strconv"
)

// defaultMaxPacketBytes is the ceiling a frame's declared length falls
// back to when nothing else configures one.
const defaultMaxPacketBytes = 1 << 20

// Config is the tap's full set of runtime tunables.
type Config struct {
	// Interface is the network interface to capture traffic on.
	Interface string
	// PcapFile, if set, replays a capture file instead of a live interface.
	PcapFile string
	// ListenAddress is where the /metrics HTTP endpoint is served.
	ListenAddress string
	// ZKPort is the ZooKeeper server port used to pick request vs.
	// response direction and to build the capture filter.
	ZKPort int
	// MaxPacketBytes is the hard upper bound on a frame's declared length.
	MaxPacketBytes uint32
	// Debug turns on debug-level logging.
	Debug bool
}

// Default returns a Config with the tap's usual defaults.
func Default() Config {
	return Config{
		Interface:      "eth0",
		ListenAddress:  ":8085",
		ZKPort:         2181,
		MaxPacketBytes: defaultMaxPacketBytes,
		Debug:          false,
	}
}

// uint32Flag adapts a *uint32 to flag.Value, the way the flag package's own
// unexported intValue/boolValue types work.
type uint32Flag uint32

func (f *uint32Flag) String() string { return strconv.FormatUint(uint64(*f), 10) }

func (f *uint32Flag) Set(s string) error {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return err
	}
	*f = uint32Flag(v)
	return nil
}

// RegisterFlags binds c's fields to command-line flags on fs, returning c
// so callers can register-then-parse in one expression.
func (c *Config) RegisterFlags(fs *flag.FlagSet) *Config {
	fs.StringVar(&c.Interface, "interface", c.Interface, "interface to listen on")
	fs.StringVar(&c.PcapFile, "pcap-file", c.PcapFile, "replay a pcap file instead of a live interface")
	fs.StringVar(&c.ListenAddress, "listen-address", c.ListenAddress, "address to listen on for metrics HTTP requests")
	fs.IntVar(&c.ZKPort, "zk-port", c.ZKPort, "ZooKeeper server port to watch for")
	fs.Var((*uint32Flag)(&c.MaxPacketBytes), "max-packet-bytes", "hard upper bound on a frame's declared length")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "enable debug logging")
	return c
}
