package chordgen

import (
	"fmt"
	"sort"
	"strings"
)

// OrderEntry is one step of a song's performance order: a section name
// and how many times it is played in a row.
type OrderEntry struct {
	Name      string
	Frequency int
}

// Song is a set of named sections, a performance order over them, and the
// key the sections were written in. Built once by the loader and read-only
// afterwards; each render call is a pure function of the song and the
// target key, so concurrent renders need no locking.
type Song struct {
	sections map[string]Section
	order    []OrderEntry
	key      string
}

// NewSong assembles a song. Every order entry must name a defined section
// and carry a frequency of at least one; the key must be supported.
func NewSong(sections map[string]Section, order []OrderEntry, key string) (*Song, error) {
	if !IsSupportedKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKey, key)
	}
	owned := make(map[string]Section, len(sections))
	for name, s := range sections {
		owned[name] = s
	}
	ordered := append([]OrderEntry(nil), order...)
	for i, e := range ordered {
		if _, ok := owned[e.Name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, e.Name)
		}
		if e.Frequency < 1 {
			ordered[i].Frequency = 1
		}
	}
	return &Song{
		sections: owned,
		order:    ordered,
		key:      key,
	}, nil
}

// Key returns the key the song's source was written in.
func (s *Song) Key() string { return s.key }

// Order returns a copy of the performance order.
func (s *Song) Order() []OrderEntry {
	return append([]OrderEntry(nil), s.order...)
}

// Section looks up a section by name.
func (s *Song) Section(name string) (Section, bool) {
	sec, ok := s.sections[name]
	return sec, ok
}

// Chordsheet renders the whole chordsheet body in newKey. The first
// occurrence of each section is rendered in full; later occurrences use
// the short repeat macro. The seen-set lives only for the duration of
// this call, so renders stay reentrant.
func (s *Song) Chordsheet(newKey string) (string, error) {
	notes, err := NewNotes(s.key, newKey)
	if err != nil {
		return "", err
	}

	seen := make(map[string]bool)
	var b strings.Builder
	b.WriteString("\\bsong\n\n")
	for _, e := range s.order {
		out, err := s.sections[e.Name].renderChordsheet(notes, e.Frequency, seen[e.Name])
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		b.WriteString("\n\n")
		seen[e.Name] = true
	}
	b.WriteString("\\esong\n\n")
	return b.String(), nil
}

// Slides renders the slide deck body. Sections without lyrics are
// skipped. With withRepeats false, a section name already rendered in
// this traversal is skipped too (but still marked seen). Only the very
// first frame of the whole deck carries the citation footer.
func (s *Song) Slides(withRepeats bool) (string, error) {
	seen := make(map[string]bool)
	first := true
	var b strings.Builder

	for _, e := range s.order {
		sec := s.sections[e.Name]
		if (withRepeats || !seen[e.Name]) && sec.HasLyrics() {
			out, err := sec.renderSlides(first)
			if err != nil {
				return "", err
			}
			b.WriteString(out)
			b.WriteString("\n\n")
			first = false
		}
		seen[e.Name] = true
	}
	return b.String(), nil
}

// String is a human-oriented dump of the order and sections, used for
// verbose CLI output.
func (s *Song) String() string {
	var b strings.Builder
	b.WriteString("Order:\n")
	entries := make([]string, len(s.order))
	for i, e := range s.order {
		if e.Frequency > 1 {
			entries[i] = fmt.Sprintf("%s (x%d)", e.Name, e.Frequency)
		} else {
			entries[i] = e.Name
		}
	}
	b.WriteString(strings.Join(entries, "\n"))
	b.WriteString("\n\n")

	names := make([]string, 0, len(s.sections))
	for name := range s.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = s.sections[name].String()
	}
	b.WriteString(strings.Join(parts, "\n\n"))
	return b.String()
}
