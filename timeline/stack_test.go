package timeline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func spanEntry(id int64, start, end float64) LaneEntry {
	return LaneEntry{ID: id, Start: start, End: end}
}

func milestoneEntry(id int64, age, left, right float64) LaneEntry {
	return LaneEntry{ID: id, Start: age, End: age, Milestone: true, Left: left, Right: right}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		description string
		a, b        LaneEntry
		want        bool
	}{
		{"disjoint spans", spanEntry(1, 0, 5), spanEntry(2, 6, 9), false},
		{"touching spans", spanEntry(1, 0, 5), spanEntry(2, 5, 9), false},
		{"overlapping spans", spanEntry(1, 0, 6), spanEntry(2, 5, 9), true},
		{"milestone inside span", spanEntry(1, 20, 25), milestoneEntry(2, 22, 200, 248), true},
		{"milestone at span start", spanEntry(1, 20, 25), milestoneEntry(2, 20, 176, 224), false},
		{"milestones with intersecting boxes", milestoneEntry(1, 20, 176, 224), milestoneEntry(2, 21, 186, 234), true},
		{"milestones with separate boxes", milestoneEntry(1, 20, 176, 224), milestoneEntry(2, 30, 276, 324), false},
		{"milestones at same age", milestoneEntry(1, 20, 176, 224), milestoneEntry(2, 20, 176, 224), true},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a), "overlap must be symmetric")
		})
	}
}

func TestAllocateLanes(t *testing.T) {
	tests := []struct {
		description string
		entries     []LaneEntry
		wantLanes   [][]int64
	}{
		{
			description: "empty",
			entries:     nil,
			wantLanes:   nil,
		},
		{
			description: "span and milestone inside it",
			entries:     []LaneEntry{spanEntry(1, 20, 25), milestoneEntry(2, 22, 196, 244)},
			wantLanes:   [][]int64{{1}, {2}},
		},
		{
			description: "sequential spans share a lane",
			entries:     []LaneEntry{spanEntry(2, 5, 10), spanEntry(1, 0, 5), spanEntry(3, 10, 15)},
			wantLanes:   [][]int64{{1, 2, 3}},
		},
		{
			description: "first fit reuses earlier lanes",
			entries: []LaneEntry{
				spanEntry(1, 0, 10),
				spanEntry(2, 2, 6),
				spanEntry(3, 7, 12),
				spanEntry(4, 11, 14),
			},
			wantLanes: [][]int64{{1, 4}, {2, 3}},
		},
		{
			description: "milestones sort after spans with the same start",
			entries:     []LaneEntry{milestoneEntry(1, 10, 76, 124), spanEntry(2, 10, 30)},
			wantLanes:   [][]int64{{2, 1}},
		},
		{
			description: "shorter span first on equal start",
			entries:     []LaneEntry{spanEntry(1, 10, 30), spanEntry(2, 10, 12)},
			wantLanes:   [][]int64{{2}, {1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := AllocateLanes(tt.entries)
			assert.Equal(t, tt.wantLanes, got.Lanes)
			assert.Equal(t, len(tt.wantLanes), got.LaneCount())
			for lane, ids := range tt.wantLanes {
				for _, id := range ids {
					assert.Equal(t, lane, got.Lane[id])
				}
			}
		})
	}
}

func TestAllocateLanes_NoOverlapWithinLane(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 500; round++ {
		var entries []LaneEntry
		byID := map[int64]LaneEntry{}
		n := int64(1 + rng.Intn(15))
		for i := int64(1); i <= n; i++ {
			start := float64(rng.Intn(60))
			var e LaneEntry
			if rng.Intn(3) == 0 {
				x := start * 10
				w := 48 + float64(rng.Intn(100))
				e = milestoneEntry(i, start, x-w/2, x+w/2)
			} else {
				e = spanEntry(i, start, start+float64(rng.Intn(20)))
			}
			entries = append(entries, e)
			byID[i] = e
		}

		alloc := AllocateLanes(entries)
		assert.Len(t, alloc.Lane, len(entries))
		for _, lane := range alloc.Lanes {
			for i := range lane {
				for j := i + 1; j < len(lane); j++ {
					assert.False(t, Overlaps(byID[lane[i]], byID[lane[j]]),
						"items %d and %d share a lane", lane[i], lane[j])
				}
			}
		}
	}
}
