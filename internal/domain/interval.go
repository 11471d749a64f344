package domain

import "fmt"

// Interval describes the recurrence windows a client may attach to a
// notification request. It is validated at submission time only; the worker
// ignores scheduling entirely.
type Interval struct {
	Once   bool  `json:"Once,omitempty"`
	Days   []int `json:"Days,omitempty"`
	Weeks  []int `json:"Weeks,omitempty"`
	Months []int `json:"Months,omitempty"`
	Years  []int `json:"Years,omitempty"`
}

func (i *Interval) Validate() error {
	for _, d := range i.Days {
		if d < 1 || d > 31 {
			return fmt.Errorf("%w: days must be between 1 and 31", ErrInvalidInterval)
		}
	}
	for _, w := range i.Weeks {
		if w < 1 || w > 52 {
			return fmt.Errorf("%w: weeks must be between 1 and 52", ErrInvalidInterval)
		}
	}
	for _, m := range i.Months {
		if m < 1 || m > 12 {
			return fmt.Errorf("%w: months must be between 1 and 12", ErrInvalidInterval)
		}
	}
	for _, y := range i.Years {
		if y < 1970 || y > 2100 {
			return fmt.Errorf("%w: years must be between 1970 and 2100", ErrInvalidInterval)
		}
	}
	return nil
}
