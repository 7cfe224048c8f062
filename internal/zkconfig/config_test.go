package zkconfig

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFlagsOverridesDefaults(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"-interface=eth1",
		"-max-packet-bytes=2048",
		"-debug",
	}))

	assert.Equal(t, "eth1", cfg.Interface)
	assert.EqualValues(t, 2048, cfg.MaxPacketBytes)
	assert.True(t, cfg.Debug)
}

func TestDefaultsUnchangedWithoutFlags(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	assert.Equal(t, Default().MaxPacketBytes, cfg.MaxPacketBytes)
	assert.Equal(t, "eth0", cfg.Interface)
}
