package geometry

// TourOrder returns the indices of points in greedy nearest-neighbor order,
// starting at index 0. Ties go to the lowest index. Visited points are tracked
// by index so duplicate coordinates remain distinct stops.
func TourOrder(points []Coordinate) []int {
	n := len(points)
	if n == 0 {
		return nil
	}
	visited := make([]bool, n)
	order := make([]int, 0, n)
	cur := 0
	visited[cur] = true
	order = append(order, cur)
	for len(order) < n {
		best := -1
		bestD := 0.0
		for i, p := range points {
			if visited[i] {
				continue
			}
			d := Distance(points[cur], p)
			if best < 0 || d < bestD {
				best, bestD = i, d
			}
		}
		visited[best] = true
		order = append(order, best)
		cur = best
	}
	return order
}

// BuildTour returns points reordered by TourOrder
func BuildTour(points []Coordinate) []Coordinate {
	order := TourOrder(points)
	out := make([]Coordinate, len(order))
	for i, idx := range order {
		out[i] = points[idx]
	}
	return out
}
