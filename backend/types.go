package backend

// PathStop is one timed stop of a shortest path
type PathStop struct {
	Station       string `json:"station"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
}

// ShortestPath is the backend answer to a shortest path query
type ShortestPath struct {
	Stations    []string   `json:"stations"`
	Stops       []PathStop `json:"stops,omitempty"`
	ArrivalDate string     `json:"arrival_date,omitempty"`
	TotalTime   float64    `json:"total_time,omitempty"`
}

// StationIDs returns the ordered parent_station ids of the path
func (p ShortestPath) StationIDs() []string {
	if len(p.Stations) > 0 || len(p.Stops) == 0 {
		return p.Stations
	}
	ids := make([]string, len(p.Stops))
	for i, s := range p.Stops {
		ids[i] = s.Station
	}
	return ids
}

// TreeEdge is one edge of a spanning tree between two stations
type TreeEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// SpanningTree is the backend answer to a minimum spanning tree query
type SpanningTree struct {
	Cost               float64    `json:"cost"`
	Connexe            bool       `json:"connexe"`
	TotalExecutionTime float64    `json:"total_execution_time,omitempty"`
	Edges              []TreeEdge `json:"edges"`
}

// Pairs returns the tree edges as station id pairs
func (t SpanningTree) Pairs() [][2]string {
	out := make([][2]string, len(t.Edges))
	for i, e := range t.Edges {
		out[i] = [2]string{e.From, e.To}
	}
	return out
}
