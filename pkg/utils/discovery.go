package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
)

// DocumentInfo is a configuration document found on disk
type DocumentInfo struct {
	Path   string
	Config models.Configuration
}

// documentExtensions are the file types scanned for configurations
var documentExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// DiscoverDocuments finds all configuration documents under root. Files
// that fail to parse are reported and skipped.
func DiscoverDocuments(root string) ([]DocumentInfo, error) {
	var docs []DocumentInfo

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !documentExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		doc, err := LoadDocument(path)
		if err != nil {
			// Log error but continue scanning
			logger.Warnf("Skipping %s: %v", path, err)
			return nil
		}
		docs = append(docs, *doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for documents: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// LoadDocument reads and validates one configuration document
func LoadDocument(path string) (*DocumentInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	cfg, err := models.ParseDocument(data)
	if err != nil {
		return nil, err
	}

	return &DocumentInfo{Path: path, Config: *cfg}, nil
}

// FindUp looks for rel in the current directory and each parent, returning
// the first match
func FindUp(rel string) (string, error) {
	// Start from current directory
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findUpFrom(dir, rel)
}

func findUpFrom(dir, rel string) (string, error) {
	for {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding it
			return "", fmt.Errorf("could not find %s in any parent directory", rel)
		}
		dir = parent
	}
}
