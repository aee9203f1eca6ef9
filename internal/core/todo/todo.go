// Package todo defines the task item domain model: items, their validation rules,
// and the positional addressing used by views to refer back into the store.
package todo

import (
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

// Delimiter separates fields in the persisted record format. It is reserved and may
// not appear in any user supplied text field.
const Delimiter = "|"

// MaxNameLength is the display width, in runes, that ShortenName truncates to.
const MaxNameLength = 20

const ellipsis = "..."

// Created dates are stored as RFC 3339, which only has room for four digit years.
const (
	minYear = 0
	maxYear = 9999
)

// Priority ranks how urgent an item is.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists every priority from least to most urgent.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities numerically; higher is more urgent. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ParsePriority parses a priority name, ignoring case.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority %q: must be one of low, medium, high", s)
	}
	return p, nil
}

// Status is the completion state of an item.
type Status string

const (
	StatusUnfinished Status = "UNFINISHED"
	StatusFinished   Status = "FINISHED"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s == StatusUnfinished || s == StatusFinished
}

// ParseStatus parses a status name, ignoring case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("invalid status %q: must be one of unfinished, finished", s)
	}
	return st, nil
}

// Item is a single task record. Items are values: edits replace the whole record,
// and only Status may change in place through ToggleStatus.
type Item struct {
	DisplayName string    `json:"display_name"`
	Description string    `json:"description,omitempty"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedDate time.Time `json:"created_date"`
}

// New creates an unfinished item stamped with the current time.
func New(name, description string, priority Priority) Item {
	return NewAt(name, description, priority, time.Now())
}

// NewAt creates an unfinished item with an explicit creation time. The time is
// normalized to UTC so it survives a round trip through the record format.
func NewAt(name, description string, priority Priority, created time.Time) Item {
	return Item{
		DisplayName: name,
		Description: description,
		Priority:    priority,
		Status:      StatusUnfinished,
		CreatedDate: created.UTC(),
	}
}

// CheckIfAllowed reports whether text is free of the reserved delimiter.
func CheckIfAllowed(text string) bool {
	return !strings.Contains(text, Delimiter)
}

// ToggleStatus flips the item between unfinished and finished.
func (i *Item) ToggleStatus() {
	if i.Status == StatusFinished {
		i.Status = StatusUnfinished
		return
	}
	i.Status = StatusFinished
}

// IsFinished reports whether the item is finished.
func (i Item) IsFinished() bool {
	return i.Status == StatusFinished
}

// ShortenName returns the display name truncated to MaxNameLength runes.
func (i Item) ShortenName() string {
	runes := []rune(i.DisplayName)
	if len(runes) <= MaxNameLength {
		return i.DisplayName
	}
	return string(runes[:MaxNameLength-len(ellipsis)]) + ellipsis
}

// Equal reports whether both items hold the same field values.
func (i Item) Equal(other Item) bool {
	return i.DisplayName == other.DisplayName &&
		i.Description == other.Description &&
		i.Priority == other.Priority &&
		i.Status == other.Status &&
		i.CreatedDate.Equal(other.CreatedDate)
}

// Validate checks that the item may be persisted. The returned error matches
// ErrValidation and unwraps to criterio.FieldErrors.
func (i Item) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if strings.TrimSpace(i.DisplayName) == "" {
		errs = errs.Append("display_name", fmt.Errorf("is required"))
	}
	if !CheckIfAllowed(i.DisplayName) {
		errs = errs.Append("display_name", fmt.Errorf("must not contain %q", Delimiter))
	}
	if !CheckIfAllowed(i.Description) {
		errs = errs.Append("description", fmt.Errorf("must not contain %q", Delimiter))
	}
	if !i.Priority.IsValid() {
		errs = errs.Append("priority", fmt.Errorf("unknown priority %q", i.Priority))
	}
	if !i.Status.IsValid() {
		errs = errs.Append("status", fmt.Errorf("unknown status %q", i.Status))
	}
	if year := i.CreatedDate.UTC().Year(); year < minYear || year > maxYear {
		errs = errs.Append("created_date", fmt.Errorf("year %d outside %d..%d", year, minYear, maxYear))
	}

	if err := errs.ToError(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// Positioned binds an item snapshot to its index in the store's canonical order.
// The index is only meaningful until the next write, edit, or delete; after any
// mutation callers must fetch positioned items again.
type Positioned struct {
	Item  Item `json:"item"`
	Index int  `json:"index"`
}
