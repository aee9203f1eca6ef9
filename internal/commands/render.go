package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/taskpad/internal/core/styles"
	"github.com/hay-kot/taskpad/internal/core/todo"
	"github.com/hay-kot/taskpad/pkg/maybe"
	"github.com/hay-kot/taskpad/pkg/pair"
)

const dateLayout = "2006-01-02 15:04"

var defaultSize = pair.Of(80, 24)

// terminalSize returns the width and height of w when it is a terminal.
func terminalSize(w io.Writer) pair.Pair[int, int] {
	f, ok := w.(*os.File)
	if !ok {
		return defaultSize
	}

	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultSize
	}
	return pair.Of(width, height)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// parseIndex reads the item index from the first positional argument.
func parseIndex(c *cli.Command) (int, error) {
	if c.NArg() < 1 {
		return 0, fmt.Errorf("usage: %s", c.UsageText)
	}

	raw := c.Args().First()
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: must be a number", raw)
	}
	return index, nil
}

// renderRow formats a single list row. Selected rows get a leading marker.
func renderRow(p todo.Positioned, selected bool) string {
	marker := " "
	if selected {
		marker = styles.HeaderStyle.Render(">")
	}

	name := p.Item.ShortenName()
	if p.Item.IsFinished() {
		name = styles.FinishedStyle.Render(name)
	}

	priority := styles.PriorityStyle(p.Item.Priority).Render(fmt.Sprintf("%-6s", p.Item.Priority))

	return strings.Join([]string{
		marker,
		styles.IndexStyle.Render(strconv.Itoa(p.Index)),
		styles.StatusIcon(p.Item.Status),
		priority,
		name,
	}, " ")
}

// renderList writes the display view, one item per line.
func renderList(w io.Writer, items []todo.Positioned, selection maybe.Maybe[int]) {
	selected := selection.OrElse(-1)
	for _, p := range items {
		_, _ = fmt.Fprintln(w, renderRow(p, p.Index == selected))
	}
}

// renderDetail writes every field of p. Descriptions are rendered as markdown
// when markdown is true.
func renderDetail(w io.Writer, p todo.Positioned, markdown bool, size pair.Pair[int, int]) error {
	item := p.Item

	_, _ = fmt.Fprintf(w, "%s %s\n", styles.MutedStyle.Render(fmt.Sprintf("#%d", p.Index)), styles.TitleStyle.Render(item.DisplayName))
	_, _ = fmt.Fprintf(w, "Priority: %s\n", styles.PriorityStyle(item.Priority).Render(string(item.Priority)))
	_, _ = fmt.Fprintf(w, "Status:   %s %s\n", styles.StatusIcon(item.Status), item.Status)
	_, _ = fmt.Fprintf(w, "Created:  %s\n", item.CreatedDate.In(time.Local).Format(dateLayout))

	if item.Description == "" {
		return nil
	}

	_, _ = fmt.Fprintln(w)
	if !markdown {
		_, _ = fmt.Fprintln(w, item.Description)
		return nil
	}

	rendered, err := renderMarkdown(item.Description, size.First())
	if err != nil {
		return fmt.Errorf("render description: %w", err)
	}
	_, _ = fmt.Fprint(w, rendered)
	return nil
}

func renderMarkdown(content string, width int) (string, error) {
	wrapWidth := max(width-4, 20)
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}
