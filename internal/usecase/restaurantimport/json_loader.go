package restaurantimport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Document is a decoded import payload, expected to look like
// {"restaurants": [...]}.
type Document map[string]any

// JSONLoader resolves the payload of a run. Files are only read from below
// root; anything resolving outside of it is reported as not found.
type JSONLoader struct {
	root string
	log  *ImportLogger
}

func NewJSONLoader(root string, log *ImportLogger) *JSONLoader {
	return &JSONLoader{root: root, log: log}
}

// Load prefers a non-empty pre-parsed document. Problems are logged and yield
// an empty document.
func (l *JSONLoader) Load(doc Document, fileName string) Document {
	if len(doc) > 0 {
		return doc
	}

	path, ok := l.resolve(fileName)
	if !ok {
		l.log.Error("Import file could not be found.")
		return Document{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		l.log.Error("Import file could not be found.")
		return Document{}
	}

	parsed, err := ParseDocument(data)
	if err != nil {
		l.log.Error("The import file is not a valid JSON document.")
		return Document{}
	}
	return parsed
}

// ParseDocument decodes raw JSON. A valid JSON value that is not an object
// decodes to an empty document.
func ParseDocument(data []byte) (Document, error) {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, err
	}

	object, ok := decoded.(map[string]any)
	if !ok {
		return Document{}, nil
	}
	return Document(object), nil
}

func (l *JSONLoader) resolve(fileName string) (string, bool) {
	name := strings.TrimSpace(fileName)
	if name == "" {
		return "", false
	}

	root, err := filepath.Abs(l.root)
	if err != nil {
		return "", false
	}
	root, err = filepath.EvalSymlinks(root)
	if err != nil {
		return "", false
	}

	candidate := name
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(root, candidate)
	}
	candidate, err = filepath.EvalSymlinks(filepath.Clean(candidate))
	if err != nil {
		return "", false
	}

	rel, err := filepath.Rel(root, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	info, err := os.Stat(candidate)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return candidate, true
}
