// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/orcid-bib/internal/bib"
)

// entrySeparator puts exactly one blank line between entries.
const entrySeparator = "\n\n"

// Render joins the entries in the given order. There is no trailing
// separator.
func Render(results []bib.Result) string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text()
	}
	return strings.Join(texts, entrySeparator)
}

// WriteFile writes the rendered entries to path as UTF-8. The file is
// replaced atomically; on error the previous contents are left in place.
func WriteFile(path string, results []bib.Result) error {
	return writeAtomic(path, []byte(Render(results)))
}

// WriteOutputs writes the bibliography and, when cslPath is set, the
// CSL-YAML file. Both are fully written to temporary files before either
// is renamed into place, so an encoding or write error leaves both
// previous files untouched. It returns the number of raw-text results
// left out of the CSL file.
func WriteOutputs(bibPath, cslPath string, results []bib.Result) (cslSkipped int, err error) {
	bibFile, err := stage(bibPath, []byte(Render(results)))
	if err != nil {
		return 0, err
	}
	defer bibFile.discard()

	var cslFile *staged
	if cslPath != "" {
		items, skipped := ToCSL(results)
		data, err := EncodeCSL(items)
		if err != nil {
			return 0, fmt.Errorf("encoding CSL: %w", err)
		}
		cslFile, err = stage(cslPath, data)
		if err != nil {
			return 0, err
		}
		defer cslFile.discard()
		cslSkipped = skipped
	}

	if err := bibFile.commit(); err != nil {
		return 0, err
	}
	if cslFile != nil {
		if err := cslFile.commit(); err != nil {
			return 0, err
		}
	}
	return cslSkipped, nil
}

func writeAtomic(path string, data []byte) error {
	f, err := stage(path, data)
	if err != nil {
		return err
	}
	defer f.discard()
	return f.commit()
}

// staged is a complete temporary file waiting to replace path.
type staged struct {
	tmp  string
	path string
	done bool
}

// stage writes data to a temporary file in path's directory.
func stage(path string, data []byte) (*staged, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	return &staged{tmp: tmpPath, path: path}, nil
}

// commit renames the temporary file into place.
func (s *staged) commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	s.done = true
	return nil
}

// discard removes the temporary file unless it was committed.
func (s *staged) discard() {
	if !s.done {
		os.Remove(s.tmp)
	}
}
