package gtfs

// Options filters the routes taken from a feed
type Options struct {
	// AgencyID keeps only routes of this agency. Routes without agency_id are
	// kept, as single-agency feeds may omit the column.
	AgencyID string
	// RouteType keeps only routes of this route_type (1 is metro)
	RouteType *int
}

type routeRow struct {
	id       string
	agencyID string
	color    string
	typ      int
	hasType  bool
}

type stopRow struct {
	id       string
	name     string
	lat, lon float64
	hasCoord bool
	parent   string
}

type stopTimeRow struct {
	stop string
	seq  int
}

// feed holds the raw tables needed to derive a network
type feed struct {
	agencyID  string
	routes    []routeRow
	stops     map[string]stopRow
	tripRoute map[string]string
	tripStops map[string][]string // trip_id -> stop_ids ordered by stop_sequence
}

func newFeed() *feed {
	return &feed{
		stops:     map[string]stopRow{},
		tripRoute: map[string]string{},
		tripStops: map[string][]string{},
	}
}
