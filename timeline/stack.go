package timeline

import (
	"math"
	"sort"
)

// LaneEntry is one item as seen by the lane allocator.
// Left and Right are the rendered horizontal extents, used only when both items are milestones.
type LaneEntry struct {
	ID        int64
	Start     float64
	End       float64 // equals Start for milestones
	Milestone bool
	Left      float64
	Right     float64
}

// Overlaps reports whether two entries may not share a lane.
// Two milestones collide by rendered extent; anything involving a span collides by time,
// and touching endpoints do not count.
func Overlaps(a, b LaneEntry) bool {
	if a.Milestone && b.Milestone {
		return a.Left < b.Right && b.Left < a.Right
	}
	return a.End > b.Start && b.End > a.Start
}

// Allocation maps item ids to lanes within one category.
type Allocation struct {
	Lane  map[int64]int
	Lanes [][]int64 // ids per lane in placement order
}

// LaneCount returns the number of lanes used.
func (a Allocation) LaneCount() int {
	return len(a.Lanes)
}

// AllocateLanes assigns each entry the first lane in which it overlaps nothing.
// Entries are placed by start age, then end age with milestones last; input order breaks
// any remaining ties.
func AllocateLanes(entries []LaneEntry) Allocation {
	sorted := make([]LaneEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return tieEnd(a) < tieEnd(b)
	})

	alloc := Allocation{Lane: make(map[int64]int, len(entries))}
	var lanes [][]LaneEntry
	for _, e := range sorted {
		placed := false
		for i, lane := range lanes {
			if fits(lane, e) {
				lanes[i] = append(lane, e)
				alloc.Lane[e.ID] = i
				alloc.Lanes[i] = append(alloc.Lanes[i], e.ID)
				placed = true
				break
			}
		}
		if !placed {
			lanes = append(lanes, []LaneEntry{e})
			alloc.Lane[e.ID] = len(lanes) - 1
			alloc.Lanes = append(alloc.Lanes, []int64{e.ID})
		}
	}
	return alloc
}

func tieEnd(e LaneEntry) float64 {
	if e.Milestone {
		return math.Inf(1)
	}
	return e.End
}

func fits(lane []LaneEntry, e LaneEntry) bool {
	for _, other := range lane {
		if Overlaps(other, e) {
			return false
		}
	}
	return true
}
