package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageSegment is the per-page text of a source document, enriched with the
// metadata citations need later: display filename and 1-indexed page.
type PageSegment struct {
	Source     string // display filename, not the full path
	PageNumber int    // 1-indexed
	Text       string
}

// DiscoverPDFs returns all PDF paths under root, recursively, in a stable
// order. There is no manifest tracking what was already ingested; guarding
// against duplicate runs is the caller's responsibility.
func DiscoverPDFs(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// LoadPDF extracts per-page text segments from a PDF file. Pages that yield
// no text are skipped.
func LoadPDF(path string) ([]PageSegment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	source := filepath.Base(path)
	var segments []PageSegment

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d of %s: %w", i, path, err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		segments = append(segments, PageSegment{
			Source:     source,
			PageNumber: i,
			Text:       text,
		})
	}

	return segments, nil
}
