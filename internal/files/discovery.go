package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery over the screening output directories.
type Discovery struct {
	selectionDir string
	resultsDir   string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(selectionDir, resultsDir string) *Discovery {
	return &Discovery{selectionDir: selectionDir, resultsDir: resultsDir}
}

// FindStrategyFiles finds every per-strategy CSV the selection script wrote
// for the given sanitized identifier, matching <id>_*.csv. A missing
// selection directory is a fatal configuration error: the directory is an
// operational precondition, not per-request state. Matches are sorted
// lexically for deterministic output.
func (d *Discovery) FindStrategyFiles(id string) ([]FileInfo, error) {
	if _, err := os.Stat(d.selectionDir); err != nil {
		return nil, fmt.Errorf("selection output directory %s is not available: %w", d.selectionDir, err)
	}

	pattern := filepath.Join(d.selectionDir, id+"_*.csv")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}
	sort.Strings(matches)

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			files = append(files, FileInfo{
				Path:    match,
				Name:    filepath.Base(match),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
	}

	return files, nil
}

// StatResultFile stats one of the fixed batch result files. The batch flow
// assumes a complete file set, so a missing file is an error naming it.
func (d *Discovery) StatResultFile(name string) (FileInfo, error) {
	path := filepath.Join(d.resultsDir, name)
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("batch result file %s is missing: %w", name, err)
	}

	return FileInfo{
		Path:    path,
		Name:    name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}
