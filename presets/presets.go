// Package presets manages named configuration bundles: the builtin set
// plus user presets stored as JSON files in a directory.
package presets

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/regginator/omniwordlist/charset"
	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/fields"
	"github.com/regginator/omniwordlist/generator"
	"github.com/regginator/omniwordlist/logger"
	"github.com/regginator/omniwordlist/storage"
)

// Export formats
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Preset is a named config with descriptive metadata.
type Preset struct {
	Name        string        `json:"name" toml:"name" yaml:"name"`
	Title       string        `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty"`
	Description string        `json:"description" toml:"description" yaml:"description"`
	Version     string        `json:"version" toml:"version" yaml:"version"`
	Config      config.Config `json:"config" toml:"config" yaml:"config"`
	Tags        []string      `json:"tags" toml:"tags" yaml:"tags"`
	CreatedAt   time.Time     `json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" toml:"updated_at" yaml:"updated_at"`

	// Builtin presets ship with the tool and cannot be deleted.
	Builtin bool `json:"-" toml:"-" yaml:"-"`
}

// Store holds presets by name. Disk presets shadow builtins of the same
// name.
type Store struct {
	dir string

	mu      sync.RWMutex
	presets map[string]Preset
}

// NewStore loads the builtins and every preset file in dir. An empty dir
// gives a store of builtins that cannot save. Unreadable preset files
// are skipped with a warning.
func NewStore(dir string) (*Store, error) {
	s := &Store{dir: dir, presets: make(map[string]Preset)}
	for _, p := range Builtin() {
		s.presets[p.Name] = p
	}
	if dir == "" {
		return s, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.WrapKindf(err, errors.ErrPreset, "reading preset directory %s", dir)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warnw("Skipping unreadable preset", logger.FieldFile, path, logger.FieldError, err.Error())
			continue
		}
		p, err := Decode(data, FormatJSON)
		if err != nil {
			logger.Warnw("Skipping malformed preset", logger.FieldFile, path, logger.FieldError, err.Error())
			continue
		}
		s.presets[p.Name] = p
	}
	return s, nil
}

// Dir returns the directory user presets are saved to.
func (s *Store) Dir() string { return s.dir }

func notFound(name string) error {
	return errors.WithHint(
		errors.Presetf("preset not found: %s", name),
		"run `omni presets list` to see available presets",
	)
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.Presetf("invalid preset name %q", name)
	}
	return nil
}

func clonePreset(p Preset) Preset {
	p.Config = p.Config.Clone()
	p.Tags = slices.Clone(p.Tags)
	return p
}

// Get returns a copy of the named preset.
func (s *Store) Get(name string) (Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presets[name]
	if !ok {
		return Preset{}, notFound(name)
	}
	return clonePreset(p), nil
}

// Names lists preset names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every preset sorted by name.
func (s *Store) List() []Preset {
	names := s.Names()
	out := make([]Preset, 0, len(names))
	for _, name := range names {
		if p, err := s.Get(name); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// ByTag returns the presets carrying tag, sorted by name.
func (s *Store) ByTag(tag string) []Preset {
	var out []Preset
	for _, p := range s.List() {
		if slices.Contains(p.Tags, tag) {
			out = append(out, p)
		}
	}
	return out
}

// Save stores p and writes it to <dir>/<name>.json.
func (s *Store) Save(p Preset) error {
	if err := validName(p.Name); err != nil {
		return err
	}
	if s.dir == "" {
		return errors.Presetf("no preset directory configured")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = time.Now().UTC()
	p.Builtin = false

	data, err := Encode(p, FormatJSON)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.WrapKindf(err, errors.ErrStorage, "creating preset directory %s", s.dir)
	}
	if err := storage.WriteFileAtomic(filepath.Join(s.dir, p.Name+".json"), data, 0644); err != nil {
		return err
	}

	s.mu.Lock()
	s.presets[p.Name] = clonePreset(p)
	s.mu.Unlock()
	logger.Debugw("Saved preset", logger.FieldPreset, p.Name)
	return nil
}

// Delete removes a user preset and its file.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.presets[name]
	if !ok {
		return notFound(name)
	}
	if p.Builtin {
		return errors.Presetf("preset %s is builtin and cannot be deleted", name)
	}
	if s.dir != "" {
		path := filepath.Join(s.dir, name+".json")
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.WrapKindf(err, errors.ErrStorage, "removing %s", path)
		}
	}
	delete(s.presets, name)
	// a deleted user preset may have been shadowing a builtin
	for _, b := range Builtin() {
		if b.Name == name {
			s.presets[name] = b
		}
	}
	return nil
}

// Encode renders a preset as json, toml or yaml.
func Encode(p Preset, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(p, "", "  ")
		data = append(data, '\n')
	case FormatTOML:
		data, err = toml.Marshal(p)
	case FormatYAML:
		data, err = yaml.Marshal(p)
	default:
		return nil, errors.WithHint(
			errors.Presetf("unsupported preset format %q", format),
			"use json, toml or yaml",
		)
	}
	if err != nil {
		return nil, errors.WrapKindf(err, errors.ErrSerialization, "encoding preset %s as %s", p.Name, format)
	}
	return data, nil
}

// Decode parses a preset in the given format. JSON may carry comments.
func Decode(data []byte, format string) (Preset, error) {
	var (
		p   Preset
		err error
	)
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		err = dec.Decode(&p)
	case FormatTOML:
		err = toml.Unmarshal(data, &p)
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	default:
		return Preset{}, errors.Presetf("unsupported preset format %q", format)
	}
	if err != nil {
		return Preset{}, errors.WrapKindf(err, errors.ErrSerialization, "decoding %s preset", format)
	}
	if err := validName(p.Name); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// FormatFromPath picks an export format from a file extension.
func FormatFromPath(path string) (string, error) {
	kind, err := config.FileType(path)
	if err != nil {
		return "", errors.Mark(err, errors.ErrPreset)
	}
	return kind, nil
}

// Export renders the named preset.
func (s *Store) Export(name, format string) ([]byte, error) {
	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	return Encode(p, format)
}

// Import decodes a preset and saves it.
func (s *Store) Import(data []byte, format string) (Preset, error) {
	p, err := Decode(data, format)
	if err != nil {
		return Preset{}, err
	}
	if err := s.Save(p); err != nil {
		return Preset{}, err
	}
	return s.Get(p.Name)
}

// ImportFile imports a preset file, choosing the format by extension.
func (s *Store) ImportFile(path string) (Preset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Preset{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, errors.WrapKindf(err, errors.ErrPreset, "reading %s", path)
	}
	return s.Import(data, format)
}

func appendUnique(dst []string, src ...string) []string {
	for _, v := range src {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

// Merge saves a preset named out holding a's config with b's fields and
// transforms appended, and the union of their tags.
func (s *Store) Merge(a, b, out string) (Preset, error) {
	first, err := s.Get(a)
	if err != nil {
		return Preset{}, err
	}
	second, err := s.Get(b)
	if err != nil {
		return Preset{}, err
	}

	cfg := first.Config.Clone()
	cfg.EnabledFields = appendUnique(cfg.EnabledFields, second.Config.EnabledFields...)
	cfg.Transforms = append(cfg.Transforms, second.Config.Transforms...)

	tags := appendUnique(slices.Clone(first.Tags), second.Tags...)
	sort.Strings(tags)

	merged := Preset{
		Name:        out,
		Description: "Merged: " + first.Description + " + " + second.Description,
		Version:     "1.0",
		Config:      cfg,
		Tags:        tags,
	}
	if err := s.Save(merged); err != nil {
		return Preset{}, err
	}
	return s.Get(out)
}

// EstimateCardinality sizes the named preset: the field product when it
// enables fields, plus the charset or pattern enumeration over its
// length range. The result saturates at math.MaxUint64.
func (s *Store) EstimateCardinality(name string) (uint64, error) {
	p, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	return EstimateConfig(p.Config)
}

// EstimateConfig applies the preset estimate to a bare config.
func EstimateConfig(cfg config.Config) (uint64, error) {
	var total uint64
	if len(cfg.EnabledFields) > 0 {
		total = fields.EstimateCardinality(cfg.EnabledFields)
	}
	if len(cfg.EnabledFields) > 0 && cfg.Charset == "" && cfg.Pattern == "" {
		return total, nil
	}

	cs, err := charset.Resolve(cfg)
	if err != nil {
		return 0, err
	}
	mode := generator.Combination
	if cfg.PermutationsOnly {
		mode = generator.Permutation
	}
	for length := cfg.MinLength; length <= cfg.MaxLength; length++ {
		n := generator.Count(cs.Len(), length, mode)
		if total+n < total {
			return ^uint64(0), nil
		}
		total += n
	}
	return total, nil
}
