// Package timeline lays out life map items on an age axis and renders the result as SVG.
package timeline

import (
	"time"

	"github.com/stsysd/lifemap/model"
)

// Ages is the normalized temporal extent of an item.
// End is nil for milestones.
type Ages struct {
	Start   float64
	End     *float64
	Unknown bool // start could not be derived and defaulted to 0
}

// IsMilestone reports whether the item is a point in time.
func (a Ages) IsMilestone() bool {
	return a.End == nil
}

// EndOrStart returns the end age, or the start age for milestones.
func (a Ages) EndOrStart() float64 {
	if a.End == nil {
		return a.Start
	}
	return *a.End
}

// AgeAt returns the whole years between dob and date.
// A birthday not yet reached in the final year is not counted.
func AgeAt(date, dob time.Time) int {
	years := date.Year() - dob.Year()
	if date.Month() < dob.Month() || (date.Month() == dob.Month() && date.Day() < dob.Day()) {
		years--
	}
	return years
}

// MonthsBetween returns the whole months from a to b, using the same
// not-yet-reached rule as AgeAt for the day of month.
func MonthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}

// CurrentAge returns the age at today for a YYYY-MM-DD birth date, or 0 when dob is unset or invalid.
func CurrentAge(dob string, today time.Time) int {
	d, err := model.ParseDate(dob)
	if err != nil {
		return 0
	}
	return max(0, AgeAt(today, d))
}

// ageAtDate is AgeAt over stored date strings. ok is false when either date is missing or unparsable.
func ageAtDate(date, dob string) (age int, ok bool) {
	d, err := model.ParseDate(date)
	if err != nil {
		return 0, false
	}
	b, err := model.ParseDate(dob)
	if err != nil {
		return 0, false
	}
	return AgeAt(d, b), true
}

// Normalize converts an item's age or date representation into ages.
// Spans shorter than three months collapse to milestones; spans of three to twelve
// months become exactly one year long.
func Normalize(item *model.TimelineItem, dob string, ageRange int) Ages {
	maxAge := float64(ageRange)

	if item.Mode() == model.InputModeAge {
		a := Ages{}
		if item.StartAge != nil {
			a.Start = *item.StartAge
		}
		if item.UseMaxAge {
			a.End = &maxAge
		} else if item.EndAge != nil {
			end := *item.EndAge
			a.End = &end
		}
		return a
	}

	a := Ages{}
	start, ok := ageAtDate(item.StartDate, dob)
	if ok {
		a.Start = float64(start)
	} else {
		a.Unknown = true
	}

	switch {
	case item.UseMaxAge:
		a.End = &maxAge
	case item.EndDate == "":
		// milestone
	default:
		s, errS := model.ParseDate(item.StartDate)
		e, errE := model.ParseDate(item.EndDate)
		if errS != nil || errE != nil {
			return a
		}
		months := MonthsBetween(s, e)
		switch {
		case months < 3:
		case months <= 12:
			end := a.Start + 1
			a.End = &end
		default:
			if endAge, ok := ageAtDate(item.EndDate, dob); ok {
				end := float64(endAge)
				a.End = &end
			}
		}
	}
	return a
}
