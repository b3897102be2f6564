package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/transit-geometry/gtfsrt"
	"github.com/theoremus-urban-solutions/transit-geometry/store"
)

func TestStoreProvider(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "transit.db"))
	require.NoError(t, err)
	defer s.Close()

	p := StoreProvider{Store: s, Name: "paris"}
	_, err = p.Network(context.Background())
	assert.ErrorIs(t, err, store.ErrNoSnapshot)

	_, err = s.SaveNetwork(context.Background(), "paris", testNetwork())
	require.NoError(t, err)
	n, err := p.Network(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testNetwork().Fingerprint(), n.Fingerprint())
	assert.Equal(t, "store", p.Source())
}

func TestFeedVehicleSource_ReusesRecentRead(t *testing.T) {
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{GtfsRealtimeVersion: proto.String("2.0"), Timestamp: proto.Uint64(1700000000)},
		Entity: []*gtfsrtpb.FeedEntity{{
			Id: proto.String("e1"),
			Vehicle: &gtfsrtpb.VehiclePosition{
				Trip:     &gtfsrtpb.TripDescriptor{RouteId: proto.String("L1")},
				Position: &gtfsrtpb.Position{Latitude: proto.Float32(1), Longitude: proto.Float32(1)},
			},
		}},
	}
	data, err := proto.Marshal(fm)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "vehicles.pb")
	require.NoError(t, os.WriteFile(path, data, 0644))

	src := NewFeedVehicleSource(gtfsrt.NewClient(time.Second), path, time.Hour)
	first, err := src.Vehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, os.Remove(path))
	second, err := src.Vehicles(context.Background())
	require.NoError(t, err, "second read within maxAge is served from memory")
	assert.Equal(t, first, second)

	uncached := NewFeedVehicleSource(gtfsrt.NewClient(time.Second), path, 0)
	_, err = uncached.Vehicles(context.Background())
	assert.Error(t, err)
}
