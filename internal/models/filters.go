package models

import (
	"errors"
	"fmt"
	"net/url"
)

type StatusFilter string

const (
	FilterStatusPending  StatusFilter = "pending"
	FilterStatusAccepted StatusFilter = "accepted"
	FilterStatusRejected StatusFilter = "rejected"
	FilterStatusAll      StatusFilter = "all"
)

type CategoryFilter string

const FilterCategoryAll CategoryFilter = "all"

type DateRange string

const (
	DateRangeUpcoming DateRange = "upcoming"
	DateRangeToday    DateRange = "today"
	DateRangeWeek     DateRange = "week"
	DateRangeMonth    DateRange = "month"
	DateRangeAll      DateRange = "all"
)

var (
	ErrInvalidStatusFilter   = errors.New("invalid status filter")
	ErrInvalidCategoryFilter = errors.New("invalid category filter")
	ErrInvalidDateRange      = errors.New("invalid date range")
)

func (s StatusFilter) Valid() bool {
	switch s {
	case FilterStatusPending, FilterStatusAccepted, FilterStatusRejected, FilterStatusAll:
		return true
	}
	return false
}

func (c CategoryFilter) Valid() bool {
	return c == FilterCategoryAll || Category(c).Valid()
}

func (d DateRange) Valid() bool {
	switch d {
	case DateRangeUpcoming, DateRangeToday, DateRangeWeek, DateRangeMonth, DateRangeAll:
		return true
	}
	return false
}

// Filters is the complete query governing which suggestions are fetched.
type Filters struct {
	Status    StatusFilter   `json:"status"`
	Category  CategoryFilter `json:"category"`
	DateRange DateRange      `json:"dateRange"`
}

// FilterPatch carries a partial filter update; nil fields are left as-is.
type FilterPatch struct {
	Status    *StatusFilter
	Category  *CategoryFilter
	DateRange *DateRange
}

func DefaultFilters() Filters {
	return Filters{
		Status:    FilterStatusPending,
		Category:  FilterCategoryAll,
		DateRange: DateRangeUpcoming,
	}
}

func (f Filters) Validate() error {
	if !f.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatusFilter, f.Status)
	}
	if !f.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategoryFilter, f.Category)
	}
	if !f.DateRange.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDateRange, f.DateRange)
	}
	return nil
}

// Apply merges the patch into f. The receiver is never modified; when any
// patched value is outside its enum the original filters are returned with
// the error.
func (f Filters) Apply(p FilterPatch) (Filters, error) {
	next := f
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Category != nil {
		next.Category = *p.Category
	}
	if p.DateRange != nil {
		next.DateRange = *p.DateRange
	}
	if err := next.Validate(); err != nil {
		return f, err
	}
	return next, nil
}

// Empty reports whether the patch changes nothing.
func (p FilterPatch) Empty() bool {
	return p.Status == nil && p.Category == nil && p.DateRange == nil
}

// Query encodes the filters as GET /suggestions parameters. Status and
// category "all" are omitted; the date range is always sent.
func (f Filters) Query() url.Values {
	q := url.Values{}
	if f.Status != "" && f.Status != FilterStatusAll {
		q.Set("status", string(f.Status))
	}
	if f.Category != "" && f.Category != FilterCategoryAll {
		q.Set("category", string(f.Category))
	}
	if f.DateRange != "" {
		q.Set("dateRange", string(f.DateRange))
	}
	return q
}
