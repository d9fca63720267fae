// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fintrack/bank-import/cmd/root"
	"fintrack/bank-import/internal/container"
	"fintrack/bank-import/internal/importer"
	"fintrack/bank-import/internal/logging"
)

// WithContainer builds the application container, runs fn and closes it.
func WithContainer(ctx context.Context, fn func(c *container.Container) error) (err error) {
	c, err := root.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Shutdown(ctx); cerr != nil {
			c.GetLogger().WithError(cerr).Warn("Failed to close cleanly")
			if err == nil {
				err = cerr
			}
		}
	}()
	return fn(c)
}

// ReadFiles loads statements from disk. Directories are rejected.
func ReadFiles(paths []string, log logging.Logger) ([]importer.File, error) {
	files := make([]importer.File, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", p, err)
		}
		log.Debug("Read statement",
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(p)},
			logging.Field{Key: "bytes", Value: len(data)})
		files = append(files, importer.File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
