// Package corpus reads collections of hands with their expected shanten
// numbers and useful tiles.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/tilemapping"
)

var ErrEmptyHand = errors.New("case has no hand")

// Case is one hand of a corpus. Shanten and Useful are optional
// expectations.
type Case struct {
	Hand    string `yaml:"hand"`
	Pattern string `yaml:"pattern,omitempty"`
	Shanten *int   `yaml:"shanten,omitempty"`
	Useful  string `yaml:"useful,omitempty"`
	Note    string `yaml:"note,omitempty"`
}

// Corpus is a named list of cases.
type Corpus struct {
	Name  string `yaml:"name,omitempty"`
	Cases []Case `yaml:"cases"`
}

func (c Case) TileSet() (tilemapping.TileSet, error) {
	return tilemapping.FromString(c.Hand)
}

// WinPattern returns the case's pattern; an empty name is the standard
// pattern.
func (c Case) WinPattern() (pattern.WinPattern, error) {
	return pattern.FromName(c.Pattern)
}

// UsefulSet returns the expected useful kinds. ok is false if the case
// does not state them.
func (c Case) UsefulSet() (ks tilemapping.KindSet, ok bool, err error) {
	if c.Useful == "" {
		return 0, false, nil
	}
	ks, err = tilemapping.KindSetFromString(c.Useful)
	if err != nil {
		return 0, false, err
	}
	return ks, true, nil
}

func (c Case) validate() error {
	if c.Hand == "" {
		return ErrEmptyHand
	}
	if _, err := c.TileSet(); err != nil {
		return err
	}
	if _, err := c.WinPattern(); err != nil {
		return err
	}
	_, _, err := c.UsefulSet()
	return err
}

// Load decodes a corpus from YAML and checks every case.
func Load(r io.Reader) (*Corpus, error) {
	var c Corpus
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding corpus: %w", err)
	}
	for i, cs := range c.Cases {
		if err := cs.validate(); err != nil {
			return nil, fmt.Errorf("case %d (%q): %w", i, cs.Hand, err)
		}
	}
	return &c, nil
}

func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Write encodes the corpus as YAML.
func (c *Corpus) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
