// Package curriculum holds the ordered level data: characters, curriculum
// stories and treasure achievements. Levels are immutable input; nothing in
// the application mutates them after loading.
package curriculum

import (
	_ "embed"
	"fmt"
	"os"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the curriculum file major version this build reads.
const SupportedMajor = "v1"

//go:embed levels.yaml
var bundled []byte

// file is the on-disk YAML layout.
type file struct {
	Version      string        `yaml:"version"`
	Levels       []Level       `yaml:"levels"`
	Achievements []Achievement `yaml:"achievements"`
}

// Curriculum is a validated, indexed set of levels.
type Curriculum struct {
	version      string
	levels       []Level
	byID         map[int]int
	chars        map[int]Character
	achievements []Achievement
}

// Bundled returns the curriculum compiled into the binary.
func Bundled() (*Curriculum, error) {
	return Parse(bundled)
}

// Load reads a curriculum YAML file from path.
func Load(path string) (*Curriculum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates curriculum YAML.
func Parse(data []byte) (*Curriculum, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}
	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	if err := validate(f.Levels, f.Achievements); err != nil {
		return nil, fmt.Errorf("invalid curriculum: %w", err)
	}
	return build(f), nil
}

// New builds a curriculum from in-memory levels. Used by tests and tools
// that assemble levels programmatically.
func New(levels []Level, achievements []Achievement) (*Curriculum, error) {
	if err := validate(levels, achievements); err != nil {
		return nil, fmt.Errorf("invalid curriculum: %w", err)
	}
	return build(file{Version: SupportedMajor + ".0.0", Levels: levels, Achievements: achievements}), nil
}

func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("curriculum version %q is not a semantic version", v)
	}
	if semver.Major(v) != SupportedMajor {
		return fmt.Errorf("curriculum version %s is not compatible with %s", v, SupportedMajor)
	}
	return nil
}

func build(f file) *Curriculum {
	c := &Curriculum{
		version:      f.Version,
		levels:       f.Levels,
		byID:         make(map[int]int, len(f.Levels)),
		chars:        make(map[int]Character),
		achievements: f.Achievements,
	}
	for i, l := range c.levels {
		c.byID[l.ID] = i
		for _, ch := range l.Characters {
			c.chars[ch.ID] = ch
		}
	}
	return c
}

// Version returns the curriculum file version.
func (c *Curriculum) Version() string { return c.version }

// Levels returns all levels in id order.
func (c *Curriculum) Levels() []Level { return c.levels }

// Len returns the number of levels.
func (c *Curriculum) Len() int { return len(c.levels) }

// Level returns the level with the given id.
func (c *Curriculum) Level(id int) (Level, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Level{}, false
	}
	return c.levels[i], true
}

// Next returns the level following id, if one exists.
func (c *Curriculum) Next(id int) (Level, bool) {
	return c.Level(id + 1)
}

// Character looks up a character by its global id.
func (c *Curriculum) Character(id int) (Character, bool) {
	ch, ok := c.chars[id]
	return ch, ok
}

// Achievements returns all achievements in threshold order.
func (c *Curriculum) Achievements() []Achievement { return c.achievements }

// Earned returns the achievements unlocked by holding count treasures.
func (c *Curriculum) Earned(count int) []Achievement {
	var out []Achievement
	for _, a := range c.achievements {
		if count >= a.Threshold {
			out = append(out, a)
		}
	}
	return out
}
