package todo

import (
	"context"
	"errors"
)

var (
	// ErrValidation is returned when an item fails validation and was not persisted.
	ErrValidation = errors.New("invalid todo item")
	// ErrIndexOutOfRange is returned when an index does not address a stored item,
	// usually because the caller holds a stale Positioned.
	ErrIndexOutOfRange = errors.New("todo index out of range")
	// ErrStorageUnavailable is returned when the backing medium cannot be read or written.
	ErrStorageUnavailable = errors.New("todo storage unavailable")
)

// Store defines the canonical, insertion-ordered item collection.
// All indices are 0-based positions in insertion order.
type Store interface {
	// Reload replaces the in-memory items with the persisted ones.
	// A missing backing file yields an empty store.
	Reload(ctx context.Context) error

	// List returns a snapshot of all items in canonical order.
	List() []Item

	// PositionedList returns a snapshot of all items paired with their index.
	PositionedList() []Positioned

	// Len returns the number of stored items.
	Len() int

	// Get returns the item at index or ErrIndexOutOfRange.
	Get(index int) (Item, error)

	// GetPositioned returns the item at index with its index or ErrIndexOutOfRange.
	GetPositioned(index int) (Positioned, error)

	// Write validates and appends a new item.
	Write(ctx context.Context, item Item) error

	// Edit replaces the item at p.Index with p.Item, keeping the stored creation time.
	Edit(ctx context.Context, p Positioned) error

	// ToggleStatus flips the status of the item at index.
	ToggleStatus(ctx context.Context, index int) error

	// Delete removes the item at index. Later items shift down by one.
	Delete(ctx context.Context, index int) error
}
