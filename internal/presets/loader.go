package presets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/Conceptual-Machines/tuning-api/pkg/embedded"
)

// Kind distinguishes scale presets from keymap presets
type Kind string

const (
	KindScale  Kind = "scale"
	KindKeymap Kind = "keymap"
)

// ErrNotFound is returned for an unknown preset name
var ErrNotFound = errors.New("preset not found")

// Preset describes one embedded document
type Preset struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Loader reads preset documents from a file system laid out like
// embedded.Presets.
type Loader struct {
	fsys fs.FS
}

// NewLoader returns a loader over the embedded presets
func NewLoader() *Loader {
	return NewLoaderFS(embedded.Presets)
}

// NewLoaderFS returns a loader over fsys
func NewLoaderFS(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// List returns every preset, scales first, sorted by name
func (l *Loader) List() ([]Preset, error) {
	var presets []Preset
	for _, dir := range []struct {
		path string
		kind Kind
	}{
		{embedded.ScalesDir, KindScale},
		{embedded.KeymapsDir, KindKeymap},
	} {
		entries, err := fs.ReadDir(l.fsys, dir.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to list %s presets: %w", dir.kind, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			presets = append(presets, Preset{Name: name, Kind: dir.kind})
		}
	}
	return presets, nil
}

// Get returns the document text of the named preset. The kind is taken
// from the extension (.scl or .kbm).
func (l *Loader) Get(name string) (string, Kind, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".scl":
		text, err := l.Scale(name)
		return text, KindScale, err
	case ".kbm":
		text, err := l.Keymap(name)
		return text, KindKeymap, err
	}
	return "", "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Scale returns the text of a .scl preset
func (l *Loader) Scale(name string) (string, error) {
	return l.read(embedded.ScalesDir, name)
}

// Keymap returns the text of a .kbm preset
func (l *Loader) Keymap(name string) (string, error) {
	return l.read(embedded.KeymapsDir, name)
}

func (l *Loader) read(dir, name string) (string, error) {
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	data, err := fs.ReadFile(l.fsys, path.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to read preset %s: %w", name, err)
	}
	return string(data), nil
}
