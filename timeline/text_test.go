package timeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func TestFitText(t *testing.T) {
	m := NewMetrics(1)
	tests := []struct {
		description string
		title       string
		width       float64
		want        TextFit
	}{
		{
			description: "fits at base size",
			title:       "Hello",
			width:       200,
			want:        TextFit{FontSize: 12, Lines: []string{"Hello"}, Height: 22},
		},
		{
			description: "shrinks proportionally",
			title:       "abcdefghijklmno",
			width:       100,
			want:        TextFit{FontSize: 12 * 88 / (15 * 0.6 * 12), Lines: []string{"abcdefghijklmno"}, Height: 22},
		},
		{
			description: "wraps at minimum size",
			title:       "aaaa bbbb cccc dddd",
			width:       100,
			want:        TextFit{FontSize: 9, Lines: []string{"aaaa bbbb cccc", "dddd"}, Height: 2*9*1.25 + 12},
		},
		{
			description: "long word keeps its own line",
			title:       "a supercalifragilistic b",
			width:       60,
			want:        TextFit{FontSize: 9, Lines: []string{"a", "supercalifragilistic", "b"}, Height: 3*9*1.25 + 12},
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := FitText(tt.title, tt.width, m)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("FitText() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTextWidth_WideRunes(t *testing.T) {
	m := NewMetrics(1)
	assert.InDelta(t, 24.0, m.TextWidth("日本", 10), 1e-9)
	assert.InDelta(t, 12.0, m.TextWidth("ab", 10), 1e-9)
}

func TestMilestoneWidth(t *testing.T) {
	m := NewMetrics(1)
	assert.Equal(t, 48.0, m.MilestoneWidth("A"))
	assert.Equal(t, 160.0, m.MilestoneWidth("a very long milestone title that keeps going"))
	assert.InDelta(t, 10*0.6*12+12, m.MilestoneWidth("abcdefghij"), 1e-9)

	// zoom scales the bounds
	assert.InDelta(t, 48*1.4, NewMetrics(1.4).MilestoneWidth("A"), 1e-9)
}
