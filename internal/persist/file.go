package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
)

// FileGateway stores the document as a single JSON file, written via
// a temp file and rename so a power cut mid-write leaves the previous
// state intact.
type FileGateway struct {
	path string
}

// NewFileGateway creates a gateway backed by the given file path.
func NewFileGateway(path string) *FileGateway {
	return &FileGateway{path: path}
}

// Load reads and parses the state file. A missing file is the normal
// first boot; anything unreadable or malformed is logged and treated
// as absent.
func (g *FileGateway) Load() (Document, bool) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("persist: read %s: %v", g.path, err)
		}
		return Document{ActivePreset: -1}, false
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("persist: corrupt state file %s: %v", g.path, err)
		return Document{ActivePreset: -1}, false
	}
	return doc, true
}

// Save writes the document atomically.
func (g *FileGateway) Save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmp := g.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, g.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
