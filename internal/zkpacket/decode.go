package zkpacket

// DecodePacket splits a captured ZooKeeper TCP payload into its 4-byte
// length prefix and body, the same split decodeLayer performs when
// invoked as a registered gopacket decoder. Exported so cmd/zkproxy can
// sanity-check a captured payload before handing the whole thing (prefix
// included) to the stream reassembler, which re-reads the prefix itself.
func DecodePacket(data []byte) (*Layer, error) {
	if len(data) < 4 {
		return nil, errShortZookeeperFrame
	}
	return &Layer{LengthPrefix: data[:4], payload: data[4:]}, nil
}
