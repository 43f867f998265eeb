package interaction

import (
	"sort"

	"github.com/logflix/logflix/internal/core/model"
)

// SortField represents the field to sort sessions by
type SortField int

const (
	SortByTime SortField = iota
	SortByDuration
	SortByEvents
	SortByProject
)

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// SessionSorter orders inventory rows for the list views. The default is
// newest recording first.
type SessionSorter struct {
	field SortField
	order SortOrder
}

// NewSessionSorter creates a new session sorter
func NewSessionSorter() *SessionSorter {
	return &SessionSorter{
		field: SortByTime,
		order: SortDescending,
	}
}

// WithField selects the sort field, keeping the sorter chainable.
func (s *SessionSorter) WithField(field SortField) *SessionSorter {
	s.field = field
	return s
}

// WithOrder selects the sort direction.
func (s *SessionSorter) WithOrder(order SortOrder) *SessionSorter {
	s.order = order
	return s
}

// ParseSortField maps a flag value to a sort field; unknown values fall
// back to time so list output is always deterministic.
func ParseSortField(name string) SortField {
	switch name {
	case "duration":
		return SortByDuration
	case "events":
		return SortByEvents
	case "project":
		return SortByProject
	default:
		return SortByTime
	}
}

// Sort sorts the sessions based on current settings
func (s *SessionSorter) Sort(sessions []*model.SessionSummary) {
	sort.SliceStable(sessions, func(i, j int) bool {
		var less bool

		switch s.field {
		case SortByTime:
			less = sessions[i].RecordedAt < sessions[j].RecordedAt
		case SortByDuration:
			less = sessions[i].Duration < sessions[j].Duration
		case SortByEvents:
			less = sessions[i].EventCount < sessions[j].EventCount
		case SortByProject:
			less = sessions[i].Project < sessions[j].Project
		}

		if s.order == SortDescending {
			return !less
		}
		return less
	})
}
