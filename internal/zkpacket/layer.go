// Package zkpacket registers a gopacket layer that peels the 4-byte
// length prefix off a captured ZooKeeper TCP payload.
package zkpacket

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
)

var errShortZookeeperFrame = errors.New("zkpacket: payload shorter than a length prefix")

// LayerType is this module's gopacket layer registration. gopacket layer
// type IDs are a shared global namespace, so this claims slot 1200 and
// keeps it rather than renumbering across revisions.
var LayerType = gopacket.RegisterLayerType(1200, gopacket.LayerTypeMetadata{
	Name:    "ZookeeperLayer",
	Decoder: gopacket.DecodeFunc(decodeLayer),
})

// Layer is a ZooKeeper frame as seen by gopacket: the 4-byte length prefix
// kept separate from the body payload that follows it.
type Layer struct {
	LengthPrefix []byte
	payload      []byte
}

// LayerType implements gopacket.Layer.
func (l *Layer) LayerType() gopacket.LayerType { return LayerType }

// LayerContents implements gopacket.Layer.
func (l *Layer) LayerContents() []byte { return l.LengthPrefix }

// LayerPayload implements gopacket.Layer.
func (l *Layer) LayerPayload() []byte { return l.payload }

func decodeLayer(data []byte, p gopacket.PacketBuilder) error {
	if len(data) < 4 {
		return errShortZookeeperFrame
	}
	p.AddLayer(&Layer{LengthPrefix: data[:4], payload: data[4:]})
	return p.NextDecoder(layers.LayerTypeEthernet)
}
