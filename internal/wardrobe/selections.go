package wardrobe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/natefinch/atomic"
)

// selectionsVersion is the only document version understood.
const selectionsVersion = 4

// ErrUnsupportedVersion is returned for saved selections of another version.
var ErrUnsupportedVersion = errors.New("wardrobe: unsupported selections version")

// Selection is one clothing item and the outfit chosen for it.
type Selection struct {
	Clothing string `json:"clothes"`
	Outfit   string `json:"outfit"`
}

// Selections maps clothing items to their chosen outfits.
type Selections struct {
	entries map[string]string
}

func NewSelections() *Selections {
	return &Selections{entries: make(map[string]string)}
}

func (s *Selections) Set(clothing, outfit string) {
	s.entries[clothing] = outfit
}

func (s *Selections) Get(clothing string) (string, bool) {
	o, ok := s.entries[clothing]
	return o, ok
}

func (s *Selections) Delete(clothing string) {
	delete(s.entries, clothing)
}

// All returns the selections sorted by clothing name.
func (s *Selections) All() []Selection {
	out := make([]Selection, 0, len(s.entries))
	for c, o := range s.entries {
		out = append(out, Selection{Clothing: c, Outfit: o})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Clothing < out[j].Clothing })
	return out
}

type selectionsDoc struct {
	Version      int         `json:"version"`
	Replacements []Selection `json:"replacements"`
}

func (s *Selections) MarshalJSON() ([]byte, error) {
	return json.Marshal(selectionsDoc{Version: selectionsVersion, Replacements: s.All()})
}

func (s *Selections) UnmarshalJSON(data []byte) error {
	var doc selectionsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Version != selectionsVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	s.entries = make(map[string]string, len(doc.Replacements))
	for _, r := range doc.Replacements {
		s.entries[r.Clothing] = r.Outfit
	}
	return nil
}

// Save writes the selections to path atomically.
func (s *Selections) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("wardrobe: encode selections: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("wardrobe: write %s: %w", path, err)
	}
	return nil
}

// LoadSelections reads saved selections. A missing file is empty.
func LoadSelections(path string) (*Selections, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSelections(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("wardrobe: read %s: %w", path, err)
	}

	s := NewSelections()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("wardrobe: parse %s: %w", path, err)
	}
	return s, nil
}
