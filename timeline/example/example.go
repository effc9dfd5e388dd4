// Package main demonstrates the use of the timeline package to render a life map as SVG.
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/stsysd/lifemap/model"
	"github.com/stsysd/lifemap/timeline"
)

func main() {
	// Generate a sample life map
	m := generateLifeMap()

	in := timeline.NewInput(m, time.Now())
	in.AutoScale = true
	in.Width = 960
	layout := timeline.ComputeLayout(in)

	// Output to stdout
	fmt.Println(timeline.RenderSVG(layout, nil))
}

// generateLifeMap creates a life map with a few random events per category
func generateLifeMap() *model.LifeMap {
	m, err := model.NewLifeMap("Sample")
	if err != nil {
		panic(err)
	}
	_ = m.SetDateOfBirth("1990-04-01")

	work, _ := m.AddCategory("Work", model.SectionTop, model.ColorBlue)
	life, _ := m.AddCategory("Life", model.SectionBottom, model.ColorRed)

	// consecutive jobs with random lengths
	age := 22.0
	for i := 1; i <= 4; i++ {
		end := age + float64(2+rand.Intn(6))
		item := model.NewTimelineItem(work.ID, fmt.Sprintf("Job %d", i), model.ColorBlue)
		start := age
		item.StartAge, item.EndAge = &start, &end
		_, _ = m.AddItem(item)
		age = end
	}

	for _, title := range []string{"Moved to Tokyo", "Married", "First child"} {
		item := model.NewTimelineItem(life.ID, title, model.ColorRed)
		item.InputMode = model.InputModeDate
		item.StartDate = time.Date(2012+rand.Intn(12), time.Month(1+rand.Intn(12)), 1, 0, 0, 0, 0, time.UTC).Format(model.DateLayout)
		_, _ = m.AddItem(item)
	}

	return m
}
