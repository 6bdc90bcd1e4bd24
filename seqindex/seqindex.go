// Package seqindex persists the sequence number assigned to each input, so
// every input keeps writing to the same output directory across runs.
package seqindex

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

type Record struct {
	Index   uint32 `toml:"index"`
	RateNum int    `toml:"rate_n"`
	RateDen int    `toml:"rate_d"`
}

// Table maps input identifiers to their records.
type Table struct {
	records map[string]Record
}

func New() *Table {
	return &Table{records: map[string]Record{}}
}

// Load reads the table stored at path. A missing file yields an empty
// table.
func Load(path string) (*Table, error) {
	t := New()
	if _, err := toml.DecodeFile(path, &t.records); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return t, nil
		}
		return nil, fmt.Errorf("could not load index %q: %w", path, err)
	}
	return t, nil
}

func (t *Table) Get(key string) (Record, bool) {
	r, ok := t.records[key]
	return r, ok
}

// Remove deletes key and reports whether it was present. The freed index
// is not reused while a higher one exists.
func (t *Table) Remove(key string) bool {
	_, ok := t.records[key]
	delete(t.records, key)
	return ok
}

func (t *Table) Len() int { return len(t.records) }

func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.records))
	for k := range t.records {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Acquire returns the record for key. Unknown keys get a new record one
// past the highest index in the table (0 for an empty table) with the
// given rate; created reports whether that happened.
func (t *Table) Acquire(key string, rateNum, rateDen int) (rec Record, created bool) {
	if r, ok := t.records[key]; ok {
		return r, false
	}

	rec = Record{RateNum: rateNum, RateDen: rateDen}
	if len(t.records) > 0 {
		var top uint32
		for _, r := range t.records {
			top = max(top, r.Index)
		}
		rec.Index = top + 1
	}
	t.records[key] = rec
	return rec, true
}

// Save writes the table to path through a temporary file, creating the
// parent directory if needed.
func (t *Table) Save(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create index folder %q: %w", dir, err)
	}

	outFile, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary index %q: %w", path, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary index %q: %w", outFile.Name(), defErr)
		}
		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename index %q: %w", path, defErr)
			}
		}
		if err != nil {
			if rmErr := os.Remove(outFile.Name()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				slog.Error("could not remove temporary index", "name", outFile.Name(), "error", rmErr)
			}
		}
	}()

	if err = toml.NewEncoder(outFile).Encode(t.records); err != nil {
		return fmt.Errorf("could not encode index %q: %w", path, err)
	}
	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush index %q: %w", path, err)
	}
	canRename = true
	return nil
}

func (t *Table) String() string {
	var sb strings.Builder
	for _, k := range t.Keys() {
		r := t.records[k]
		fmt.Fprintf(&sb, "%04d  %d/%d  %s\n", r.Index, r.RateNum, r.RateDen, k)
	}
	return sb.String()
}
