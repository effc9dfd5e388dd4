// Package model provides value objects for API parameter validation.
package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for every stored date.
const DateLayout = "2006-01-02"

// Age range and zoom limits accepted at the input boundary.
const (
	MinAgeRange     = 10
	MaxAgeRange     = 200
	DefaultAgeRange = 80
	MinZoom         = 0.8
	MaxZoom         = 1.4
	DefaultZoom     = 1.0
)

// Date represents a calendar date value object.
type Date struct {
	value time.Time
}

// NewDate creates a new date value object from YYYY-MM-DD (or RFC3339) text.
func NewDate(s string) (*Date, error) {
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &Date{value: t}, nil
}

// Time returns the date at UTC midnight.
func (d *Date) Time() time.Time {
	return d.value
}

// String returns the date formatted as YYYY-MM-DD.
func (d *Date) String() string {
	return d.value.Format(DateLayout)
}

// ParseDate parses date string with flexible format support and drops the time of day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	// Try date-only format (YYYY-MM-DD)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}

	// Try RFC3339 format (with time)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, fmt.Errorf("invalid date %q. Use ISO8601 format (YYYY-MM-DD)", s)
}

// AgeRange represents the total number of years a life map displays.
type AgeRange struct {
	value int
}

// NewAgeRange creates a new age range value object. nil means the default range.
func NewAgeRange(v *int) (*AgeRange, error) {
	if v == nil {
		return &AgeRange{value: DefaultAgeRange}, nil
	}
	if *v < MinAgeRange || *v > MaxAgeRange {
		return nil, fmt.Errorf("age_range must be between %d and %d", MinAgeRange, MaxAgeRange)
	}
	return &AgeRange{value: *v}, nil
}

// Int returns the integer value.
func (a *AgeRange) Int() int {
	return a.value
}

// Zoom represents the display zoom multiplier.
type Zoom struct {
	value float64
}

// NewZoom creates a new zoom value object. nil means 1.0.
func NewZoom(v *float64) (*Zoom, error) {
	if v == nil {
		return &Zoom{value: DefaultZoom}, nil
	}
	if *v < MinZoom || *v > MaxZoom {
		return nil, fmt.Errorf("zoom must be between %.1f and %.1f", MinZoom, MaxZoom)
	}
	return &Zoom{value: *v}, nil
}

// Float returns the zoom multiplier.
func (z *Zoom) Float() float64 {
	return z.value
}

// Pagination represents pagination parameters value object.
type Pagination struct {
	limit  int
	offset int
}

// NewPagination creates a new pagination value object.
func NewPagination(limitStr, offsetStr string) (*Pagination, error) {
	limit := 100 // Default value
	offset := 0  // Default value

	// Process limit parameter
	if limitStr != "" {
		parsedLimit, err := parseInt(limitStr)
		if err != nil {
			return nil, fmt.Errorf("invalid limit parameter: must be a positive integer")
		}
		if parsedLimit <= 0 {
			return nil, fmt.Errorf("limit must be greater than 0")
		}
		if parsedLimit > 1000 { // Set upper limit
			parsedLimit = 1000
		}
		limit = parsedLimit
	}

	// Process offset parameter
	if offsetStr != "" {
		parsedOffset, err := parseInt(offsetStr)
		if err != nil {
			return nil, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
		}
		if parsedOffset < 0 {
			return nil, fmt.Errorf("offset must be non-negative")
		}
		offset = parsedOffset
	}

	return &Pagination{limit: limit, offset: offset}, nil
}

// Limit returns the limit value.
func (p *Pagination) Limit() int {
	return p.limit
}

// Offset returns the offset value.
func (p *Pagination) Offset() int {
	return p.offset
}

// parseInt converts a string to an integer and handles errors.
func parseInt(s string) (int, error) {
	var value int
	if _, err := fmt.Sscanf(s, "%d", &value); err != nil {
		return 0, err
	}
	return value, nil
}
