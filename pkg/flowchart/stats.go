package flowchart

import "math"

// Stats summarizes task completion.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"` // rounded; 0 when Total is 0
}

// Stats counts the completable nodes of fc.
func (fc *Flowchart) Stats() Stats {
	var s Stats
	for _, n := range fc.Nodes {
		if !n.Kind.Completable() {
			continue
		}
		s.Total++
		if n.Completed {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// Fraction returns Completed/Total, or 0 for no tasks.
func (s Stats) Fraction() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}
