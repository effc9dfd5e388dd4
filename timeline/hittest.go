package timeline

// HitTest returns the id of the topmost item whose box contains (x, y).
func HitTest(l *Layout, x, y float64) (int64, bool) {
	for i := len(l.Items) - 1; i >= 0; i-- {
		g := l.Items[i]
		if x >= g.X && x <= g.X+g.Width && y >= g.Y && y <= g.Y+g.Height {
			return g.ID, true
		}
	}
	return 0, false
}
