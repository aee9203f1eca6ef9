package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/taskpad/internal/core/styles"
)

// Validate checks that the configuration is valid. Errors are reported as
// criterio.FieldErrors keyed by the YAML path of the offending value.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	} else if err := isDirectoryOrNotExist(c.DataDir); err != nil {
		errs = errs.Append("data_dir", err)
	}

	if !c.View.Sort.IsValid() {
		errs = errs.Append("view.sort", fmt.Errorf("invalid sort mode %q", c.View.Sort))
	}
	if !c.View.Filter.IsValid() {
		errs = errs.Append("view.filter", fmt.Errorf("invalid filter mode %q", c.View.Filter))
	}

	if _, ok := styles.GetPalette(c.View.Theme); !ok {
		errs = errs.Append("view.theme", fmt.Errorf("unknown theme %q: must be one of %s",
			c.View.Theme, strings.Join(styles.ThemeNames(), ", ")))
	}

	if err := isFileOrNotExist(c.ItemsFile()); err != nil {
		errs = errs.Append("store.path", err)
	}

	return errs.ToError()
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isFileOrNotExist validates that a path is a regular file or doesn't exist.
func isFileOrNotExist(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}
