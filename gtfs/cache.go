package gtfs

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

// SerializeNetwork encodes a derived network using gob encoding.
// This is useful for disk-based caching to avoid re-parsing stop_times.txt.
//
// Example:
//
//	net, _ := gtfs.NewNetworkFromBytes(zipBytes, gtfs.Options{})
//	data, err := gtfs.SerializeNetwork(net)
//	if err != nil {
//	    // handle error
//	}
//	os.WriteFile("/path/to/cache/network.gob", data, 0644)
func SerializeNetwork(n network.Network) ([]byte, error) {
	var buf bytes.Buffer
	if err := SerializeNetworkToWriter(n, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializeNetwork decodes a network previously encoded by SerializeNetwork
func DeserializeNetwork(data []byte) (network.Network, error) {
	return DeserializeNetworkFromReader(bytes.NewReader(data))
}

// SerializeNetworkToFile writes a network to a file using gob encoding
func SerializeNetworkToFile(n network.Network, filepath string) error {
	data, err := SerializeNetwork(n)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// DeserializeNetworkFromFile reads a network from a gob file.
//
// Example:
//
//	net, err := gtfs.DeserializeNetworkFromFile("/cache/network.gob")
//	if err != nil {
//	    // Cache miss or corrupted, fetch fresh data
//	    net, _ = gtfs.NewNetworkFromBytes(freshZipBytes, gtfs.Options{})
//	}
func DeserializeNetworkFromFile(filepath string) (network.Network, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return network.Network{}, fmt.Errorf("failed to read cache file: %w", err)
	}
	return DeserializeNetwork(data)
}

// SerializeNetworkToWriter writes a network to an io.Writer using gob encoding
func SerializeNetworkToWriter(n network.Network, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(n); err != nil {
		return fmt.Errorf("failed to encode network: %w", err)
	}
	return nil
}

// DeserializeNetworkFromReader reads a network from an io.Reader using gob encoding
func DeserializeNetworkFromReader(r io.Reader) (network.Network, error) {
	var n network.Network
	if err := gob.NewDecoder(r).Decode(&n); err != nil {
		return network.Network{}, fmt.Errorf("failed to decode network: %w", err)
	}
	return n, nil
}
