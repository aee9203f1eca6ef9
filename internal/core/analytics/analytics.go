// Package analytics builds display views over positioned items. Every function
// returns a new slice; inputs are never modified and indices are never renumbered.
package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hay-kot/taskpad/internal/core/todo"
)

// View applies Sort and then Filter, the order the presentation layer uses.
func View(sortMode SortMode, filterMode FilterMode, items []todo.Positioned) []todo.Positioned {
	return Filter(filterMode, Sort(sortMode, items))
}

// Sort returns items ordered by mode. Unknown modes and SortNone keep the input order.
func Sort(mode SortMode, items []todo.Positioned) []todo.Positioned {
	out := slices.Clone(items)
	if out == nil {
		out = []todo.Positioned{}
	}

	var compare func(a, b todo.Positioned) int
	switch mode {
	case SortByDate:
		compare = func(a, b todo.Positioned) int {
			return cmp.Or(
				a.Item.CreatedDate.Compare(b.Item.CreatedDate),
				cmp.Compare(a.Index, b.Index),
			)
		}
	case SortByPriority:
		compare = func(a, b todo.Positioned) int {
			return cmp.Or(
				cmp.Compare(b.Item.Priority.Rank(), a.Item.Priority.Rank()),
				a.Item.CreatedDate.Compare(b.Item.CreatedDate),
				cmp.Compare(a.Index, b.Index),
			)
		}
	case SortByName:
		compare = func(a, b todo.Positioned) int {
			return cmp.Or(
				strings.Compare(a.Item.DisplayName, b.Item.DisplayName),
				cmp.Compare(a.Index, b.Index),
			)
		}
	default:
		return out
	}

	slices.SortStableFunc(out, compare)
	return out
}

// Filter returns the items kept by mode in their input order.
// Unknown modes and FilterNone keep everything.
func Filter(mode FilterMode, items []todo.Positioned) []todo.Positioned {
	keep := predicate(mode)

	out := make([]todo.Positioned, 0, len(items))
	for _, p := range items {
		if keep(p.Item) {
			out = append(out, p)
		}
	}
	return out
}

func predicate(mode FilterMode) func(todo.Item) bool {
	switch mode {
	case FilterUnfinishedOnly:
		return func(i todo.Item) bool { return i.Status == todo.StatusUnfinished }
	case FilterFinishedOnly:
		return func(i todo.Item) bool { return i.Status == todo.StatusFinished }
	case FilterLowPriority:
		return func(i todo.Item) bool { return i.Priority == todo.PriorityLow }
	case FilterMediumPriority:
		return func(i todo.Item) bool { return i.Priority == todo.PriorityMedium }
	case FilterHighPriority:
		return func(i todo.Item) bool { return i.Priority == todo.PriorityHigh }
	default:
		return func(todo.Item) bool { return true }
	}
}

// MatchName keeps items whose display name matches the glob pattern.
// An empty pattern keeps everything.
func MatchName(pattern string, items []todo.Positioned) ([]todo.Positioned, error) {
	if pattern == "" {
		return slices.Clone(items), nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid name pattern %q", pattern)
	}

	out := make([]todo.Positioned, 0, len(items))
	for _, p := range items {
		// pattern was validated above
		if ok, _ := doublestar.Match(pattern, p.Item.DisplayName); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Contains reports whether the view holds the item stored at index.
func Contains(items []todo.Positioned, index int) bool {
	return slices.ContainsFunc(items, func(p todo.Positioned) bool {
		return p.Index == index
	})
}
