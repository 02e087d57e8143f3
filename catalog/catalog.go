// Package catalog maintains disk-backed lists of scanned media files, one
// entry per channel plus one for the shared commercial pool. The cache is a
// pure optimization: every failure path degrades to a direct scan.
package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/CinkadeusBG/LCARSTV/filesystem"
	"github.com/CinkadeusBG/LCARSTV/log"
	"github.com/CinkadeusBG/LCARSTV/where"
	"github.com/samber/lo"
)

// entryVersion is the on-disk cache file format version.
const entryVersion = 1

// Entry is the persisted catalog for one key.
// Wire format: {"version":1,"file_count":N,"scanned_at":ISO8601,"files":[...]}.
type Entry struct {
	Version   int       `json:"version"`
	FileCount int       `json:"file_count"`
	ScannedAt time.Time `json:"scanned_at"`
	Files     []string  `json:"files"`
}

// IOError wraps a cache file read or write failure. It is advisory: the
// operation that hit it has already fallen back to a direct scan.
type IOError struct {
	Key string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("catalog cache %q: %s", e.Key, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Store owns the per-key catalog cache files in a single directory.
type Store struct {
	Dir string
}

// NewStore returns a Store over the default catalog cache directory.
func NewStore() *Store {
	return &Store{Dir: where.Catalogs()}
}

// GetOrScan returns the sorted media file list for key. The fast path counts
// matching files under roots without materializing paths; when the count
// matches the persisted entry the stored list is returned unchanged. Any
// mismatch, missing entry, or cache I/O problem triggers a full scan, which
// is persisted atomically and returned.
func (s *Store) GetOrScan(key string, roots []string, extensions []string) ([]string, error) {
	count := countFiles(roots, extensions)

	if entry, err := s.load(key); err != nil {
		log.Warn(&IOError{Key: key, Err: err})
	} else if entry != nil && entry.FileCount == count {
		return entry.Files, nil
	}

	files := scan(roots, extensions)
	if err := s.persist(key, files); err != nil {
		log.Warn(&IOError{Key: key, Err: err})
	}
	return files, nil
}

// Invalidate drops the persisted entry for key, forcing the next GetOrScan
// to perform a full rescan. Used when a catalogued file turns out to be
// missing from disk.
func (s *Store) Invalidate(key string) {
	path := s.entryPath(key)
	if exists := lo.Must(filesystem.API().Exists(path)); exists {
		if err := filesystem.API().Remove(path); err != nil {
			log.Warn(&IOError{Key: key, Err: err})
		}
	}
}

func (s *Store) entryPath(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

// load returns (nil, nil) when no entry exists, and an error only for a
// present-but-unreadable one.
func (s *Store) load(key string) (*Entry, error) {
	path := s.entryPath(key)

	exists, err := filesystem.API().Exists(path)
	if err != nil || !exists {
		return nil, err
	}

	raw, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	if entry.Version != entryVersion {
		return nil, fmt.Errorf("unsupported cache version %d", entry.Version)
	}
	return &entry, nil
}

// persist writes the entry to a temp file and renames it over the old one,
// so a crash mid-write never leaves a corrupt cache behind.
func (s *Store) persist(key string, files []string) error {
	entry := Entry{
		Version:   entryVersion,
		FileCount: len(files),
		ScannedAt: time.Now().UTC(),
		Files:     files,
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := s.entryPath(key)
	tmp := path + ".tmp"
	if err := filesystem.API().WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return filesystem.API().Rename(tmp, path)
}

// countFiles is the cheap validity probe: it walks roots counting matching
// files without collecting their paths. Unreadable roots count as empty.
func countFiles(roots []string, extensions []string) int {
	count := 0
	walkRoots(roots, extensions, func(string) {
		count++
	})
	return count
}

// scan walks roots collecting matching file paths, sorted deterministically
// (case-insensitive) so persisted lists are stable across platforms.
func scan(roots []string, extensions []string) []string {
	files := []string{}
	walkRoots(roots, extensions, func(path string) {
		files = append(files, path)
	})

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i]) < strings.ToLower(files[j])
	})
	return files
}

func walkRoots(roots []string, extensions []string, visit func(path string)) {
	for _, root := range roots {
		// A missing or unreadable root contributes nothing; the channel
		// surfaces the empty list downstream.
		_ = filesystem.API().Walk(root, func(path string, info fs.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if matchesExtension(path, extensions) {
				visit(path)
			}
			return nil
		})
	}
}

func matchesExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return lo.Contains(extensions, ext)
}
