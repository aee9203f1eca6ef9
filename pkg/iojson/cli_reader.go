package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader decodes a JSON value of type T from the file named by its flag,
// or from stdin when the flag is "-".
type FileReader[T any] struct {
	fileFlagValue string
	stdin         io.Reader
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (use - to read stdin)",
		Destination: &fr.fileFlagValue,
	}
}

// SetStdin overrides the reader used for "-". os.Stdin is ignored so the
// terminal check still applies to it.
func (fr *FileReader[T]) SetStdin(r io.Reader) {
	if f, ok := r.(*os.File); ok && f == os.Stdin {
		return
	}
	fr.stdin = r
}

// IsSet reports whether the file flag was provided.
func (fr *FileReader[T]) IsSet() bool {
	return fr.fileFlagValue != ""
}

func (fr *FileReader[T]) Read() (T, error) {
	var reader io.Reader
	var input T

	switch {
	case fr.fileFlagValue == "":
		return input, fmt.Errorf("no input file provided")
	case fr.fileFlagValue != "-":
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	case fr.stdin != nil:
		reader = fr.stdin
	default:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return input, fmt.Errorf("no input provided (stdin is a terminal); pipe JSON input or pass a file path")
		}
		reader = os.Stdin
	}

	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}
