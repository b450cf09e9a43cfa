package hyperbox

import (
	"sort"

	"github.com/akmonengine/hyperbox/compact"
)

// Contact describes how the two boxes of a pair meet.
type Contact struct {
	Pair
	Relation compact.Relation
	// Container is the index of the box holding the other for Inclusion, -1 otherwise.
	Container int
}

// BroadPhase fills spatialGrid with boxes and streams the pairs whose boxes intersect.
func BroadPhase(spatialGrid *SpatialGrid, boxes []*compact.Compact, workersCount int) <-chan Pair {
	spatialGrid.Clear()
	for i, box := range boxes {
		spatialGrid.Insert(i, box)
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairsParallel(boxes, workersCount)
}

// collectPairs drains pairs into a slice ordered by (IndexA, IndexB).
func collectPairs(pairs <-chan Pair) []Pair {
	out := make([]Pair, 0)
	for pair := range pairs {
		out = append(out, pair)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IndexA != out[j].IndexA {
			return out[i].IndexA < out[j].IndexA
		}
		return out[i].IndexB < out[j].IndexB
	})
	return out
}

// NarrowPhase classifies every pair coming out of the broad phase. Pairs that turn
// out disjoint, or that fail classification, are dropped.
func NarrowPhase(boxes []*compact.Compact, pairs <-chan Pair, tolerance float64, workersCount int) []Contact {
	candidates := collectPairs(pairs)

	contacts := make([]*Contact, len(candidates))
	for i, pair := range candidates {
		contacts[i] = &Contact{Pair: pair, Relation: compact.Disparate, Container: -1}
	}

	task(workersCount, contacts, func(contact *Contact) {
		a, b := boxes[contact.IndexA], boxes[contact.IndexB]
		relation, container, err := compact.Classify(a, b, tolerance)
		if err != nil {
			return
		}
		contact.Relation = relation
		switch container {
		case a:
			contact.Container = contact.IndexA
		case b:
			contact.Container = contact.IndexB
		}
	})

	out := make([]Contact, 0, len(contacts))
	for _, contact := range contacts {
		if contact.Relation == compact.Intersecting || contact.Relation == compact.Inclusion {
			out = append(out, *contact)
		}
	}
	return out
}
