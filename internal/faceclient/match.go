package faceclient

import (
	"fmt"
	"math"
)

// DefaultTolerance is the labeled-match cutoff: candidates farther than
// this are reported as unknown.
const DefaultTolerance = 0.6

// UnknownLabel is reported when no candidate is within tolerance.
const UnknownLabel = "unknown"

// Candidate is a labeled reference embedding.
type Candidate struct {
	Label     string
	Embedding []float64
}

// Match is the closest candidate to a probe embedding.
type Match struct {
	Label    string
	Distance float64
}

// EuclideanDistance computes the L2 distance between two embeddings.
func EuclideanDistance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding length mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Matcher finds the best labeled match for a probe embedding among a
// gallery of candidates.
type Matcher struct {
	tolerance float64
}

// NewMatcher creates a matcher with the given tolerance; zero or negative
// values fall back to DefaultTolerance.
func NewMatcher(tolerance float64) *Matcher {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Matcher{tolerance: tolerance}
}

// BestMatch returns the closest candidate. If the closest candidate is
// farther than the tolerance, or the gallery is empty, the label is
// UnknownLabel with the distance of the nearest candidate (or +Inf for an
// empty gallery).
func (m *Matcher) BestMatch(probe []float64, gallery []Candidate) (Match, error) {
	best := Match{Label: UnknownLabel, Distance: math.Inf(1)}
	for _, c := range gallery {
		d, err := EuclideanDistance(probe, c.Embedding)
		if err != nil {
			return Match{}, err
		}
		if d < best.Distance {
			best = Match{Label: c.Label, Distance: d}
		}
	}
	if best.Distance > m.tolerance {
		best.Label = UnknownLabel
	}
	return best, nil
}
