package linefile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/taskpad/internal/core/todo"
)

// TimeFormat is the canonical layout of the created date field.
const TimeFormat = time.RFC3339Nano

const fieldCount = 5

var escaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)

// CorruptRecordError reports a persisted line that could not be decoded.
// It matches both its cause and todo.ErrStorageUnavailable.
type CorruptRecordError struct {
	Path string
	Line int // 1-based
	Err  error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt record at %s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *CorruptRecordError) Unwrap() []error {
	return []error{e.Err, todo.ErrStorageUnavailable}
}

// EncodeRecord renders an item as a single line without the trailing newline.
func EncodeRecord(item todo.Item) string {
	fields := [fieldCount]string{
		escaper.Replace(item.DisplayName),
		escaper.Replace(item.Description),
		string(item.Priority),
		string(item.Status),
		item.CreatedDate.UTC().Format(TimeFormat),
	}
	return strings.Join(fields[:], todo.Delimiter)
}

// DecodeRecord parses a line produced by EncodeRecord and validates the result.
func DecodeRecord(line string) (todo.Item, error) {
	fields := strings.Split(line, todo.Delimiter)
	if len(fields) != fieldCount {
		return todo.Item{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields))
	}

	name, err := unescape(fields[0])
	if err != nil {
		return todo.Item{}, fmt.Errorf("display name: %w", err)
	}
	description, err := unescape(fields[1])
	if err != nil {
		return todo.Item{}, fmt.Errorf("description: %w", err)
	}
	created, err := time.Parse(TimeFormat, fields[4])
	if err != nil {
		return todo.Item{}, fmt.Errorf("created date: %w", err)
	}

	item := todo.Item{
		DisplayName: name,
		Description: description,
		Priority:    todo.Priority(fields[2]),
		Status:      todo.Status(fields[3]),
		CreatedDate: created.UTC(),
	}
	if err := item.Validate(); err != nil {
		return todo.Item{}, err
	}

	return item, nil
}

var errBadEscape = errors.New("invalid escape sequence")

func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", errBadEscape
		}
		i++
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", fmt.Errorf("%w: \\%c", errBadEscape, s[i])
		}
	}
	return b.String(), nil
}
