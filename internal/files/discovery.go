package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrInvalidName is returned for artifact names that are not a plain file
// name with a known extension.
var ErrInvalidName = errors.New("invalid artifact name")

// FileInfo represents an artifact found in the output directory
type FileInfo struct {
	Path    string    `json:"-"`
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// artifactKinds maps the extensions the exporter and chart renderer write
// to the kind reported to clients.
var artifactKinds = map[string]string{
	".csv":  "csv",
	".pdf":  "pdf",
	".xlsx": "xlsx",
	".svg":  "svg",
}

// Discovery finds the report and chart artifacts under a directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindArtifacts lists the artifacts in the base directory, newest first.
// A directory that does not exist yet holds no artifacts.
func (d *Discovery) FindArtifacts() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.basePath)
	if errors.Is(err, fs.ErrNotExist) {
		return []FileInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.basePath, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		kind, ok := kindOf(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(d.basePath, entry.Name()),
			Name:    entry.Name(),
			Kind:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Stat resolves name inside the base directory. Anything but a bare file
// name with an artifact extension is rejected with ErrInvalidName, so a
// name can never escape the directory.
func (d *Discovery) Stat(name string) (FileInfo, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return FileInfo{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	kind, ok := kindOf(name)
	if !ok {
		return FileInfo{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	path := filepath.Join(d.basePath, name)
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	if info.IsDir() {
		return FileInfo{}, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return FileInfo{
		Path:    path,
		Name:    name,
		Kind:    kind,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func kindOf(name string) (string, bool) {
	kind, ok := artifactKinds[strings.ToLower(filepath.Ext(name))]
	return kind, ok
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
