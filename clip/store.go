package clip

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/clipreel/clipreel/filesystem"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a clip list.
type File struct {
	Media string `json:"media,omitempty" yaml:"media,omitempty" toml:"media,omitempty" jsonschema:"description=Optional path or URL of the source media"`
	Clips []Clip `json:"clips" yaml:"clips" toml:"clips" jsonschema:"description=Clips in playback order"`
}

// Load reads and validates a clip file. The format is chosen by extension:
// .json, .yaml/.yml or .toml.
func Load(path string) (*File, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clip file: %w", err)
	}

	file, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	if err := Validate(file.Clips); err != nil {
		return nil, err
	}

	return file, nil
}

// Decode parses raw clip file contents in the format named by ext.
func Decode(data []byte, ext string) (*File, error) {
	var file File

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported clip file extension %q", ext)
	}

	return &file, nil
}

// Store holds the current clip list handed over by the editing surface.
// Readers always receive a copy, so a snapshot never changes underneath them.
type Store struct {
	mu       sync.RWMutex
	clips    []Clip
	revision int
}

// NewStore validates clips and wraps them in a Store.
func NewStore(clips []Clip) (*Store, error) {
	if err := Validate(clips); err != nil {
		return nil, err
	}
	return &Store{clips: clone(clips)}, nil
}

// Snapshot returns a copy of the clips together with the revision it was taken at.
func (s *Store) Snapshot() ([]Clip, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.clips), s.revision
}

// Replace swaps in a new clip list after validating it.
func (s *Store) Replace(clips []Clip) error {
	if err := Validate(clips); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clips = clone(clips)
	s.revision++
	return nil
}

// Len returns the number of clips.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clips)
}

// Find returns the index of the clip whose label best matches query.
// Exact (case-insensitive) matches win over fuzzy ones; ties go to the earliest clip.
func (s *Store) Find(query string) mo.Option[int] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, idx, ok := lo.FindIndexOf(s.clips, func(c Clip) bool {
		return strings.EqualFold(c.Label, query)
	}); ok {
		return mo.Some(idx)
	}

	labels := lo.Map(s.clips, func(c Clip, _ int) string { return c.Label })
	ranks := fuzzy.RankFindFold(query, labels)
	if len(ranks) == 0 {
		return mo.None[int]()
	}

	best := lo.MinBy(ranks, func(a, b fuzzy.Rank) bool {
		if a.Distance == b.Distance {
			return a.OriginalIndex < b.OriginalIndex
		}
		return a.Distance < b.Distance
	})
	return mo.Some(best.OriginalIndex)
}

func clone(clips []Clip) []Clip {
	if clips == nil {
		return nil
	}
	out := make([]Clip, len(clips))
	copy(out, clips)
	return out
}
