package gtfs

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
)

var requiredFiles = []string{"routes.txt", "trips.txt", "stops.txt", "stop_times.txt"}

// fetchZip downloads a GTFS zip from an http(s) URL or reads it from a local path
func fetchZip(ctx context.Context, client *http.Client, urlOrPath string) ([]byte, error) {
	if !strings.HasPrefix(urlOrPath, "http://") && !strings.HasPrefix(urlOrPath, "https://") {
		return os.ReadFile(urlOrPath)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlOrPath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlOrPath, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, urlOrPath)
	}
	return io.ReadAll(resp.Body)
}

// readFeed consumes the GTFS tables of a zip archive
func readFeed(r io.ReaderAt, size int64) (*feed, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open GTFS zip: %w", err)
	}
	f := newFeed()
	seen := map[string]bool{}
	for _, zf := range zr.File {
		// Some producers nest the tables in a top-level folder
		name := strings.ToLower(zf.Name)
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		switch name {
		case "agency.txt", "routes.txt", "trips.txt", "stops.txt", "stop_times.txt":
			if err := f.consumeCSV(zf, name); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			seen[name] = true
		}
	}
	for _, name := range requiredFiles {
		if !seen[name] {
			return nil, fmt.Errorf("GTFS zip is missing %s", name)
		}
	}
	return f, nil
}

func readFeedBytes(data []byte) (*feed, error) {
	return readFeed(bytes.NewReader(data), int64(len(data)))
}

func (f *feed) consumeCSV(zf *zip.File, name string) error {
	r, err := zf.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	switch name {
	case "agency.txt":
		agID := idx("agency_id")
		if len(rec) > 1 {
			f.agencyID = cell(rec[1], agID)
		}
	case "routes.txt":
		rID := idx("route_id")
		rAg := idx("agency_id")
		rColor := idx("route_color")
		rType := idx("route_type")
		if rID < 0 {
			return fmt.Errorf("missing route_id column")
		}
		for _, row := range rec[1:] {
			r := routeRow{
				id:       cell(row, rID),
				agencyID: cell(row, rAg),
				color:    strings.ToUpper(cell(row, rColor)),
			}
			if r.id == "" {
				continue
			}
			if typeInt, err := strconv.Atoi(cell(row, rType)); err == nil {
				r.typ, r.hasType = typeInt, true
			}
			f.routes = append(f.routes, r)
		}
	case "trips.txt":
		rID := idx("route_id")
		tID := idx("trip_id")
		if rID < 0 || tID < 0 {
			return fmt.Errorf("missing route_id or trip_id column")
		}
		for _, row := range rec[1:] {
			f.tripRoute[cell(row, tID)] = cell(row, rID)
		}
	case "stops.txt":
		sID := idx("stop_id")
		sN := idx("stop_name")
		sLat := idx("stop_lat")
		sLon := idx("stop_lon")
		sParent := idx("parent_station")
		if sID < 0 {
			return fmt.Errorf("missing stop_id column")
		}
		for _, row := range rec[1:] {
			s := stopRow{id: cell(row, sID), name: cell(row, sN), parent: cell(row, sParent)}
			lat, errLat := strconv.ParseFloat(cell(row, sLat), 64)
			lon, errLon := strconv.ParseFloat(cell(row, sLon), 64)
			if errLat == nil && errLon == nil {
				s.lat, s.lon, s.hasCoord = lat, lon, true
			}
			f.stops[s.id] = s
		}
	case "stop_times.txt":
		tID := idx("trip_id")
		sID := idx("stop_id")
		sq := idx("stop_sequence")
		if tID < 0 || sID < 0 || sq < 0 {
			return fmt.Errorf("missing trip_id, stop_id or stop_sequence column")
		}
		tmp := map[string][]stopTimeRow{}
		for _, row := range rec[1:] {
			seq, err := strconv.Atoi(cell(row, sq))
			if err != nil {
				return fmt.Errorf("trip %s: invalid stop_sequence %q", cell(row, tID), cell(row, sq))
			}
			trip := cell(row, tID)
			tmp[trip] = append(tmp[trip], stopTimeRow{stop: cell(row, sID), seq: seq})
		}
		for trip, arr := range tmp {
			sort.SliceStable(arr, func(i, j int) bool { return arr[i].seq < arr[j].seq })
			stops := make([]string, len(arr))
			for i, v := range arr {
				stops[i] = v.stop
			}
			f.tripStops[trip] = stops
		}
	}
	return nil
}
