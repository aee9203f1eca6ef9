package analytics

import (
	"fmt"
	"strings"
)

// SortMode selects the ordering of a display view.
type SortMode string

const (
	SortNone       SortMode = "none"
	SortByDate     SortMode = "date"
	SortByPriority SortMode = "priority"
	SortByName     SortMode = "name"
)

// SortModes lists every supported sort mode.
func SortModes() []SortMode {
	return []SortMode{SortNone, SortByDate, SortByPriority, SortByName}
}

// IsValid reports whether m is a known sort mode.
func (m SortMode) IsValid() bool {
	switch m {
	case SortNone, SortByDate, SortByPriority, SortByName:
		return true
	}
	return false
}

// ParseSortMode parses a sort mode name, ignoring case.
func ParseSortMode(s string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("invalid sort mode %q: must be one of %s", s, joinModes(SortModes()))
	}
	return m, nil
}

// FilterMode selects which items a display view keeps.
type FilterMode string

const (
	FilterNone           FilterMode = "none"
	FilterUnfinishedOnly FilterMode = "unfinished"
	FilterFinishedOnly   FilterMode = "finished"
	FilterLowPriority    FilterMode = "low"
	FilterMediumPriority FilterMode = "medium"
	FilterHighPriority   FilterMode = "high"
)

// FilterModes lists every supported filter mode.
func FilterModes() []FilterMode {
	return []FilterMode{
		FilterNone,
		FilterUnfinishedOnly,
		FilterFinishedOnly,
		FilterLowPriority,
		FilterMediumPriority,
		FilterHighPriority,
	}
}

// IsValid reports whether m is a known filter mode.
func (m FilterMode) IsValid() bool {
	switch m {
	case FilterNone, FilterUnfinishedOnly, FilterFinishedOnly,
		FilterLowPriority, FilterMediumPriority, FilterHighPriority:
		return true
	}
	return false
}

// ParseFilterMode parses a filter mode name, ignoring case.
func ParseFilterMode(s string) (FilterMode, error) {
	m := FilterMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("invalid filter mode %q: must be one of %s", s, joinModes(FilterModes()))
	}
	return m, nil
}

func joinModes[M ~string](modes []M) string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
