package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ZoneFile is a zone file waiting in the input directory.
type ZoneFile struct {
	Name   string // file name, e.g. "example.com.db"
	Domain string // zone name derived from Name, e.g. "example.com"
	Path   string
}

// DomainFromFilename removes suffix from the end of name. Names without
// the suffix are returned unchanged.
func DomainFromFilename(name, suffix string) string {
	return strings.TrimSuffix(name, suffix)
}

// ListZoneFiles returns the regular files in dir in directory order.
// Symlinks are followed; directories and dangling links are skipped.
func ListZoneFiles(dir, suffix string) ([]ZoneFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing zone files: %w", err)
	}

	files := make([]ZoneFile, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, ZoneFile{
			Name:   e.Name(),
			Domain: DomainFromFilename(e.Name(), suffix),
			Path:   path,
		})
	}
	return files, nil
}
