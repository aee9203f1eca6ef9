// Package linefile implements todo.Store on a delimited text file, one item per line.
package linefile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/hay-kot/taskpad/internal/core/todo"
)

const (
	lockRetryDelay = 25 * time.Millisecond
	maxLineSize    = 1 << 20
)

// Store keeps the canonical item list in memory and writes it through to disk
// on every mutation. One mutex guards the whole surface; disk access also holds
// an advisory file lock so separate processes do not interleave writes.
type Store struct {
	path string
	log  zerolog.Logger

	mu    sync.Mutex
	items []todo.Item
}

var _ todo.Store = (*Store)(nil)

// New creates a store backed by the file at path. Call Reload before reading.
func New(path string, logger zerolog.Logger) *Store {
	return &Store{
		path:  path,
		log:   logger,
		items: []todo.Item{},
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Reload replaces the in-memory items with the contents of the backing file.
// A missing file yields an empty store. On error the previous items are kept.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.items = items
	s.log.Debug().Ctx(ctx).Str("path", s.path).Int("items", len(items)).Msg("reloaded items")
	return nil
}

// List returns a copy of all items in canonical order.
func (s *Store) List() []todo.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

// PositionedList returns every item paired with its current index.
func (s *Store) PositionedList() []todo.Positioned {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]todo.Positioned, len(s.items))
	for i, item := range s.items {
		out[i] = todo.Positioned{Item: item, Index: i}
	}
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Get returns the item at index.
func (s *Store) Get(index int) (todo.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(index); err != nil {
		return todo.Item{}, err
	}
	return s.items[index], nil
}

// GetPositioned returns the item at index paired with the index.
func (s *Store) GetPositioned(index int) (todo.Positioned, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(index); err != nil {
		return todo.Positioned{}, err
	}
	return todo.Positioned{Item: s.items[index], Index: index}, nil
}

// Write validates item and appends it. A zero CreatedDate is stamped with the
// current time.
func (s *Store) Write(ctx context.Context, item todo.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	if item.CreatedDate.IsZero() {
		item.CreatedDate = time.Now()
	}
	item.CreatedDate = item.CreatedDate.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(slices.Clone(s.items), item)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.log.Debug().Ctx(ctx).Int("index", len(next)-1).Str("name", item.DisplayName).Msg("wrote item")
	return nil
}

// Edit replaces the item at p.Index with p.Item. The stored creation time is
// kept regardless of what p.Item carries.
func (s *Store) Edit(ctx context.Context, p todo.Positioned) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(p.Index); err != nil {
		return err
	}

	replacement := p.Item
	replacement.CreatedDate = s.items[p.Index].CreatedDate
	if err := replacement.Validate(); err != nil {
		return err
	}

	next := slices.Clone(s.items)
	next[p.Index] = replacement
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.log.Debug().Ctx(ctx).Int("index", p.Index).Msg("edited item")
	return nil
}

// ToggleStatus flips the status of the item at index.
func (s *Store) ToggleStatus(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(index); err != nil {
		return err
	}

	next := slices.Clone(s.items)
	next[index].ToggleStatus()
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.log.Debug().Ctx(ctx).Int("index", index).Str("status", string(next[index].Status)).Msg("toggled item")
	return nil
}

// Delete removes the item at index; items after it move down by one.
func (s *Store) Delete(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(index); err != nil {
		return err
	}

	next := slices.Delete(slices.Clone(s.items), index, index+1)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.log.Debug().Ctx(ctx).Int("index", index).Msg("deleted item")
	return nil
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %d not in [0, %d)", todo.ErrIndexOutOfRange, index, len(s.items))
	}
	return nil
}

// commit persists next and only then makes it the in-memory state.
// Caller must hold s.mu.
func (s *Store) commit(ctx context.Context, next []todo.Item) error {
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// lock acquires the exclusive cross-process file lock for a write, creating
// the data directory first. The returned func releases it.
func (s *Store) lock(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %w", todo.ErrStorageUnavailable, err)
	}

	fl := flock.New(s.lockPath())
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: lock %s: %w", todo.ErrStorageUnavailable, s.path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: lock %s: not acquired", todo.ErrStorageUnavailable, s.path)
	}

	return s.unlocker(ctx, fl), nil
}

// rlock acquires the shared cross-process file lock for a read. It never
// creates the data directory. When the lock file cannot be opened because the
// directory is missing or not writable, the read proceeds unlocked.
func (s *Store) rlock(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fl := flock.New(s.lockPath())
	locked, err := fl.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() == nil && lockFileUnavailable(err) {
			s.log.Debug().Ctx(ctx).Err(err).Str("path", s.path).Msg("reading without lock")
			return func() {}, nil
		}
		return nil, fmt.Errorf("%w: lock %s: %w", todo.ErrStorageUnavailable, s.path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: lock %s: not acquired", todo.ErrStorageUnavailable, s.path)
	}

	return s.unlocker(ctx, fl), nil
}

func (s *Store) lockPath() string {
	return s.path + ".lock"
}

func (s *Store) unlocker(ctx context.Context, fl *flock.Flock) func() {
	return func() {
		if err := fl.Unlock(); err != nil {
			s.log.Warn().Ctx(ctx).Err(err).Str("path", s.path).Msg("failed to release lock")
		}
	}
}

// lockFileUnavailable reports whether err means the lock file cannot be
// opened on a medium that may still be readable.
func lockFileUnavailable(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.EROFS)
}

// load reads all records from disk.
func (s *Store) load(ctx context.Context) ([]todo.Item, error) {
	unlock, err := s.rlock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []todo.Item{}, nil
		}
		return nil, fmt.Errorf("%w: open %s: %w", todo.ErrStorageUnavailable, s.path, err)
	}
	defer func() { _ = f.Close() }()

	items := []todo.Item{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		item, err := DecodeRecord(scanner.Text())
		if err != nil {
			return nil, &CorruptRecordError{Path: s.path, Line: line, Err: err}
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", todo.ErrStorageUnavailable, s.path, err)
	}

	return items, nil
}

// save writes all records to disk atomically.
func (s *Store) save(ctx context.Context, items []todo.Item) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	var buf bytes.Buffer
	for _, item := range items {
		buf.WriteString(EncodeRecord(item))
		buf.WriteByte('\n')
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", todo.ErrStorageUnavailable, tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %w", todo.ErrStorageUnavailable, s.path, err)
	}

	return nil
}
