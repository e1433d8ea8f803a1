// Package corpus discovers candidate documents under a root directory.
package corpus

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/gnosia/internal/model"
)

// Scanner enumerates and classifies candidate documents. Unreadable
// paths are skipped, never fatal; out-of-bounds and disallowed files are
// filtered out. Results are sorted by path for reproducible runs.
type Scanner struct {
	extensions map[string]bool
	excluded   map[string]bool
	minBytes   int64
	maxBytes   int64
}

// ScanResult carries the discovered documents plus the skip count for
// the output metadata.
type ScanResult struct {
	Documents []model.Document
	Skipped   int
}

// NewScanner creates a scanner from corpus configuration.
func NewScanner(cfg model.CorpusConfig) *Scanner {
	s := &Scanner{
		extensions: make(map[string]bool, len(cfg.Extensions)),
		excluded:   make(map[string]bool, len(cfg.ExcludeDirs)),
		minBytes:   cfg.MinFileBytes,
		maxBytes:   cfg.MaxFileBytes,
	}
	for _, ext := range cfg.Extensions {
		s.extensions[strings.ToLower(ext)] = true
	}
	for _, dir := range cfg.ExcludeDirs {
		s.excluded[dir] = true
	}
	return s
}

// Scan walks root and returns the candidate documents.
func (s *Scanner) Scan(root string) (*ScanResult, error) {
	result := &ScanResult{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry: skip and count, keep walking.
			result.Skipped++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && s.excluded[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !s.extensions[ext] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			result.Skipped++
			return nil
		}
		if info.Size() < s.minBytes || (s.maxBytes > 0 && info.Size() > s.maxBytes) {
			result.Skipped++
			return nil
		}

		result.Documents = append(result.Documents, model.Document{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Format:  model.FormatForExtension(ext),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan corpus %s: %w", root, err)
	}

	sort.Slice(result.Documents, func(i, j int) bool {
		return result.Documents[i].Path < result.Documents[j].Path
	})

	return result, nil
}
