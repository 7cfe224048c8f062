package zkpacket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePacketSplitsLengthPrefixFromBody(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x02, 0xaa, 0xbb}

	layer, err := DecodePacket(data)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x02}, layer.LayerContents())
	assert.Equal(t, []byte{0xaa, 0xbb}, layer.LayerPayload())
}

func TestDecodePacketRejectsShortPayload(t *testing.T) {
	_, err := DecodePacket([]byte{0x00, 0x01})
	assert.Equal(t, errShortZookeeperFrame, err)
}

func TestLayerTypeReturnsRegisteredType(t *testing.T) {
	layer, err := DecodePacket([]byte{0x00, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, LayerType, layer.LayerType())
}
