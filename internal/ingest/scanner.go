package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/menu-builder/constants"
)

// Scanner finds meal PDFs named like "<anything>_<B|L|D>_<anything>.pdf".
type Scanner struct {
	Recursive  bool
	SkipHidden bool
	Logger     *slog.Logger
}

func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{SkipHidden: true, Logger: logger}
}

// MealsOf returns every meal code a file name carries ("x_B_L_menu.pdf" is both breakfast
// and lunch), in service order. The extension must be .pdf in any case.
func MealsOf(name string) []constants.Meal {
	base := filepath.Base(name)
	if FormatOf(base) != constants.PDF {
		return nil
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	var out []constants.Meal
	for _, m := range constants.AllMeals() {
		if strings.Contains(stem, "_"+string(m)+"_") {
			out = append(out, m)
		}
	}
	return out
}

// Scan walks root and returns one document per (file, meal) for the requested meal (or all
// meals when meal is empty), in lexical path order. A file whose content repeats an earlier
// document of the same meal is flagged Deduplicated; identical bytes under different meals
// are kept for each. Unreadable matches are returned with Err set.
func (s *Scanner) Scan(root string, meal constants.Meal) ([]Document, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}
	if st, err := os.Stat(root); err != nil {
		return nil, DirStats{}, fmt.Errorf("stat root: %w", err)
	} else if !st.IsDir() {
		return nil, DirStats{}, fmt.Errorf("%s is not a directory", root)
	}

	var paths []string
	var docs []Document
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			s.Logger.Warn("ingest.walk_failed", "path", path, "error", walkErr)
			stats.Failed++
			docs = append(docs, Document{Path: path, Err: walkErr.Error()})
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !s.Recursive || (s.SkipHidden && IsHidden(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		stats.Scanned++
		if s.SkipHidden && IsHidden(path) {
			return nil
		}
		if len(s.mealsFor(path, meal)) == 0 {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return docs, stats, fmt.Errorf("walk: %w", err)
	}

	sort.Strings(paths)
	type seenKey struct {
		meal constants.Meal
		sum  string
	}
	seen := map[seenKey]string{}
	for _, p := range paths {
		kind := constants.ClassifyDoc(filepath.Base(p))
		sum, size, hashErr := hashFile(p)
		if hashErr != nil {
			s.Logger.Warn("ingest.hash_failed", "path", p, "error", hashErr)
			stats.Failed++
		} else {
			stats.Succeeded++
		}

		for _, m := range s.mealsFor(p, meal) {
			doc := Document{Path: p, Meal: m, Kind: kind}
			if hashErr != nil {
				doc.Err = hashErr.Error()
				docs = append(docs, doc)
				continue
			}
			doc.HashHex = sum
			doc.Size = size
			k := seenKey{meal: m, sum: sum}
			if first, dup := seen[k]; dup {
				s.Logger.Info("ingest.duplicate", "path", p, "meal", string(m), "same_as", first)
				doc.Deduplicated = true
				stats.Deduplicated++
			} else {
				seen[k] = p
			}
			docs = append(docs, doc)
		}
	}

	s.Logger.Info("ingest.scan.ok",
		"root", root,
		"meal", string(meal),
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return docs, stats, nil
}

// mealsFor narrows the meals a path carries to the requested one.
func (s *Scanner) mealsFor(path string, want constants.Meal) []constants.Meal {
	all := MealsOf(path)
	if want == "" {
		return all
	}
	for _, m := range all {
		if m == want {
			return []constants.Meal{m}
		}
	}
	return nil
}

func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
