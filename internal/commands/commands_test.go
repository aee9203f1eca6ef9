package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskpad/internal/core/config"
	"github.com/hay-kot/taskpad/internal/core/todo"
	"github.com/hay-kot/taskpad/internal/store/linefile"
)

type registerer interface {
	Register(app *cli.Command) *cli.Command
}

type harness struct {
	flags *Flags
	store *linefile.Store
	out   bytes.Buffer
	err   bytes.Buffer
	stdin *strings.Reader
}

func newHarness(t *testing.T, items ...todo.Item) *harness {
	t.Helper()

	dataDir := t.TempDir()
	cfg, err := config.Load("", dataDir)
	require.NoError(t, err)

	store := linefile.New(filepath.Join(dataDir, "items.txt"), zerolog.Nop())
	for _, item := range items {
		require.NoError(t, store.Write(context.Background(), item))
	}

	return &harness{
		flags: &Flags{ConfigPath: filepath.Join(dataDir, "config.yaml"), DataDir: dataDir, Config: cfg, Store: store},
		store: store,
		stdin: strings.NewReader(""),
	}
}

func (h *harness) run(cmd registerer, args ...string) error {
	h.out.Reset()
	h.err.Reset()

	app := &cli.Command{
		Name:      "taskpad",
		Reader:    h.stdin,
		Writer:    &h.out,
		ErrWriter: &h.err,
	}
	cmd.Register(app)

	return app.Run(context.Background(), append([]string{"taskpad"}, args...))
}

func seedItems() []todo.Item {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return []todo.Item{
		todo.NewAt("Write report", "quarterly numbers", todo.PriorityMedium, base.Add(2*time.Hour)),
		todo.NewAt("Buy milk", "", todo.PriorityLow, base),
		todo.NewAt("Fix bug", "see ticket", todo.PriorityHigh, base.Add(time.Hour)),
	}
}

func decodeLines(t *testing.T, data []byte) []todo.Positioned {
	t.Helper()

	var out []todo.Positioned
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var p todo.Positioned
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &p))
		out = append(out, p)
	}
	return out
}

func indexes(items []todo.Positioned) []int {
	out := make([]int, len(items))
	for i, p := range items {
		out[i] = p.Index
	}
	return out
}

func TestLsCmd(t *testing.T) {
	t.Run("default view sorts by date", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		require.NoError(t, h.run(NewLsCmd(h.flags), "ls", "--json"))
		assert.Equal(t, []int{1, 2, 0}, indexes(decodeLines(t, h.out.Bytes())))
	})

	t.Run("priority sort with filter", func(t *testing.T) {
		h := newHarness(t, seedItems()...)
		require.NoError(t, h.store.ToggleStatus(context.Background(), 2))

		require.NoError(t, h.run(NewLsCmd(h.flags), "ls", "--sort", "priority", "--filter", "unfinished", "--json"))
		assert.Equal(t, []int{0, 1}, indexes(decodeLines(t, h.out.Bytes())))
	})

	t.Run("match narrows by name", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		require.NoError(t, h.run(NewLsCmd(h.flags), "ls", "--match", "*bug*", "--json"))
		got := decodeLines(t, h.out.Bytes())
		require.Len(t, got, 1)
		assert.Equal(t, "Fix bug", got[0].Item.DisplayName)
	})

	t.Run("text rows show names", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		require.NoError(t, h.run(NewLsCmd(h.flags), "ls", "--sort", "none"))
		lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "Write report")
		assert.Contains(t, lines[1], "Buy milk")
		assert.Contains(t, lines[2], "Fix bug")
	})

	t.Run("empty store", func(t *testing.T) {
		h := newHarness(t)

		require.NoError(t, h.run(NewLsCmd(h.flags), "ls"))
		assert.Empty(t, h.out.String())
		assert.Contains(t, h.err.String(), "No items found")
	})

	t.Run("hidden selection is reported", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		require.NoError(t, h.run(NewLsCmd(h.flags), "ls", "--filter", "high", "--select", "0"))
		assert.Contains(t, h.err.String(), "Item 0 is hidden by the current view")
		assert.Contains(t, h.out.String(), "Fix bug")
	})

	t.Run("unknown sort mode", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		err := h.run(NewLsCmd(h.flags), "ls", "--sort", "size")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "size")
	})
}

func TestShowCmd(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		require.NoError(t, h.run(NewShowCmd(h.flags), "show", "--json", "2"))

		var p todo.Positioned
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &p))
		assert.Equal(t, 2, p.Index)
		assert.Equal(t, "Fix bug", p.Item.DisplayName)
		assert.Equal(t, "see ticket", p.Item.Description)
	})

	t.Run("plain detail", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		require.NoError(t, h.run(NewShowCmd(h.flags), "show", "0"))
		out := h.out.String()
		assert.Contains(t, out, "Write report")
		assert.Contains(t, out, "MEDIUM")
		assert.Contains(t, out, "UNFINISHED")
		assert.Contains(t, out, "quarterly numbers")
	})

	t.Run("out of range", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		err := h.run(NewShowCmd(h.flags), "show", "3")
		require.ErrorIs(t, err, todo.ErrIndexOutOfRange)
	})

	t.Run("missing index", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		err := h.run(NewShowCmd(h.flags), "show")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage")
	})

	t.Run("non numeric index", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		err := h.run(NewShowCmd(h.flags), "show", "abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid index")
	})
}

func TestAddCmd(t *testing.T) {
	t.Run("from flags", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		require.NoError(t, h.run(NewAddCmd(h.flags), "add", "--name", "Call bank", "-d", "about card", "-p", "high", "--json"))

		got := decodeLines(t, h.out.Bytes())
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].Index)

		item, err := h.store.Get(3)
		require.NoError(t, err)
		assert.Equal(t, "Call bank", item.DisplayName)
		assert.Equal(t, "about card", item.Description)
		assert.Equal(t, todo.PriorityHigh, item.Priority)
		assert.Equal(t, todo.StatusUnfinished, item.Status)
		assert.False(t, item.CreatedDate.IsZero())
	})

	t.Run("default priority is low", func(t *testing.T) {
		h := newHarness(t)

		require.NoError(t, h.run(NewAddCmd(h.flags), "add", "--name", "Stretch"))

		item, err := h.store.Get(0)
		require.NoError(t, err)
		assert.Equal(t, todo.PriorityLow, item.Priority)
	})

	t.Run("from stdin json", func(t *testing.T) {
		h := newHarness(t)
		h.stdin = strings.NewReader(`{"display_name":"Pay rent","priority":"HIGH"}`)

		require.NoError(t, h.run(NewAddCmd(h.flags), "add", "--file", "-"))

		item, err := h.store.Get(0)
		require.NoError(t, err)
		assert.Equal(t, "Pay rent", item.DisplayName)
		assert.Equal(t, todo.PriorityHigh, item.Priority)
		assert.Equal(t, todo.StatusUnfinished, item.Status)
	})

	t.Run("name required without terminal", func(t *testing.T) {
		h := newHarness(t)

		err := h.run(NewAddCmd(h.flags), "add")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
		assert.Equal(t, 0, h.store.Len())
	})

	t.Run("delimiter rejected", func(t *testing.T) {
		h := newHarness(t)

		err := h.run(NewAddCmd(h.flags), "add", "--name", "a|b")
		require.ErrorIs(t, err, todo.ErrValidation)
		assert.Equal(t, 0, h.store.Len())
	})

	t.Run("unknown priority", func(t *testing.T) {
		h := newHarness(t)

		err := h.run(NewAddCmd(h.flags), "add", "--name", "x", "--priority", "urgent")
		require.Error(t, err)
		assert.Equal(t, 0, h.store.Len())
	})
}

func TestEditCmd(t *testing.T) {
	t.Run("only set fields change", func(t *testing.T) {
		h := newHarness(t, seedItems()...)
		before, err := h.store.Get(1)
		require.NoError(t, err)

		require.NoError(t, h.run(NewEditCmd(h.flags), "edit", "--priority", "high", "--status", "finished", "1"))

		after, err := h.store.Get(1)
		require.NoError(t, err)
		assert.Equal(t, before.DisplayName, after.DisplayName)
		assert.Equal(t, before.Description, after.Description)
		assert.Equal(t, before.CreatedDate, after.CreatedDate)
		assert.Equal(t, todo.PriorityHigh, after.Priority)
		assert.Equal(t, todo.StatusFinished, after.Status)
	})

	t.Run("clear description", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		require.NoError(t, h.run(NewEditCmd(h.flags), "edit", "--name", "Draft report", "--description", "", "0"))

		after, err := h.store.Get(0)
		require.NoError(t, err)
		assert.Equal(t, "Draft report", after.DisplayName)
		assert.Empty(t, after.Description)
	})

	t.Run("invalid edit leaves item", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		err := h.run(NewEditCmd(h.flags), "edit", "--name", "a|b", "0")
		require.ErrorIs(t, err, todo.ErrValidation)

		after, err := h.store.Get(0)
		require.NoError(t, err)
		assert.Equal(t, "Write report", after.DisplayName)
	})

	t.Run("out of range", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		err := h.run(NewEditCmd(h.flags), "edit", "--name", "x", "7")
		require.ErrorIs(t, err, todo.ErrIndexOutOfRange)
	})
}

func TestToggleCmd(t *testing.T) {
	h := newHarness(t, seedItems()...)

	require.NoError(t, h.run(NewToggleCmd(h.flags), "toggle", "--json", "0"))
	got := decodeLines(t, h.out.Bytes())
	require.Len(t, got, 1)
	assert.Equal(t, todo.StatusFinished, got[0].Item.Status)

	require.NoError(t, h.run(NewToggleCmd(h.flags), "toggle", "0"))
	item, err := h.store.Get(0)
	require.NoError(t, err)
	assert.Equal(t, todo.StatusUnfinished, item.Status)
}

func TestRmCmd(t *testing.T) {
	t.Run("yes skips confirmation", func(t *testing.T) {
		h := newHarness(t, seedItems()...)
		cmd := NewRmCmd(h.flags).WithConfirm(func(todo.Positioned) (bool, error) {
			t.Fatal("confirm should not be called")
			return false, nil
		})

		require.NoError(t, h.run(cmd, "rm", "--yes", "0"))
		assert.Contains(t, h.out.String(), "Deleted Write report")
		require.Equal(t, 2, h.store.Len())

		item, err := h.store.Get(0)
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", item.DisplayName)
	})

	t.Run("declined confirmation keeps item", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		var asked todo.Positioned
		cmd := NewRmCmd(h.flags).WithConfirm(func(p todo.Positioned) (bool, error) {
			asked = p
			return false, nil
		})

		require.NoError(t, h.run(cmd, "rm", "2"))
		assert.Equal(t, "Fix bug", asked.Item.DisplayName)
		assert.Equal(t, 3, h.store.Len())
		assert.Contains(t, h.err.String(), "cancelled")
	})

	t.Run("accepted confirmation deletes", func(t *testing.T) {
		h := newHarness(t, seedItems()...)
		cmd := NewRmCmd(h.flags).WithConfirm(func(todo.Positioned) (bool, error) { return true, nil })

		require.NoError(t, h.run(cmd, "rm", "2"))
		assert.Equal(t, 2, h.store.Len())
	})

	t.Run("no terminal without yes", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		err := h.run(NewRmCmd(h.flags), "rm", "0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--yes")
		assert.Equal(t, 3, h.store.Len())
	})

	t.Run("out of range", func(t *testing.T) {
		h := newHarness(t, seedItems()...)

		err := h.run(NewRmCmd(h.flags), "rm", "--yes", "9")
		require.ErrorIs(t, err, todo.ErrIndexOutOfRange)
	})
}

func TestConfigCmd(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(NewConfigCmd(h.flags), "config", "show", "--format", "json"))

	var got struct {
		ItemsFile string            `json:"items_file"`
		View      config.ViewConfig `json:"view"`
	}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	assert.Equal(t, filepath.Join(h.flags.DataDir, "items.txt"), got.ItemsFile)
	assert.Equal(t, h.flags.Config.View.Sort, got.View.Sort)

	require.NoError(t, h.run(NewConfigCmd(h.flags), "config", "show"))
	assert.Contains(t, h.out.String(), "sort: date")

	require.Error(t, h.run(NewConfigCmd(h.flags), "config", "show", "--format", "toml"))
}

func TestIndexCompleter(t *testing.T) {
	h := newHarness(t, seedItems()...)

	var buf bytes.Buffer
	IndexCompleter(h.flags)(context.Background(), &cli.Command{Writer: &buf})

	assert.Equal(t, "0:Write report\n1:Buy milk\n2:Fix bug\n", buf.String())
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestLsCmd_Watch(t *testing.T) {
	h := newHarness(t, seedItems()...)

	var out syncBuffer
	app := &cli.Command{Name: "taskpad", Writer: &out, ErrWriter: &out}
	NewLsCmd(h.flags).Register(app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx, []string{"taskpad", "ls", "--watch", "--sort", "none"})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Fix bug")
	}, 5*time.Second, 20*time.Millisecond)

	other := linefile.New(h.store.Path(), zerolog.Nop())
	require.NoError(t, other.Reload(ctx))
	require.NoError(t, other.Write(ctx, todo.New("Call bank", "", todo.PriorityLow)))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Call bank")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Equal(t, 4, h.store.Len())
}
