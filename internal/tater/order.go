package tater

import "slices"

// Compare orders taters by first appearance. Records without a date come
// first; equal dates fall back to firstAppearance.order when both records
// carry one. A zero order is a valid tie-break value.
func Compare(a, b Tater) int {
	fa, fb := a.FirstAppearance, b.FirstAppearance
	switch {
	case !fa.HasDate && !fb.HasDate:
		return 0
	case !fa.HasDate:
		return -1
	case !fb.HasDate:
		return 1
	}

	if c := fa.Date.Compare(fb.Date); c != 0 {
		return c
	}
	if fa.Order != nil && fb.Order != nil {
		switch {
		case *fa.Order < *fb.Order:
			return -1
		case *fa.Order > *fb.Order:
			return 1
		}
	}
	return 0
}

// Sort orders taters in place. Records that compare equal keep their load
// order.
func Sort(taters []Tater) {
	slices.SortStableFunc(taters, Compare)
}

// Number assigns library numbers 1..N following slice order.
func Number(taters []Tater) {
	for i := range taters {
		taters[i].LibraryNumber = i + 1
	}
}
