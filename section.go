package chordgen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// sectionArchetype is one named category of section and the markup macros
// that wrap it. A name matches by exact spelling, or, when digitSuffix is
// set, by spelling plus a space and a single digit ("Verse 2").
type sectionArchetype struct {
	names       []string
	digitSuffix bool
	begin       string
	end         string
	repeat      string
}

// The archetype table, tried in order. Intro and Outro take no numeric
// suffix; Break and Instrumental share one archetype.
var sectionArchetypes = []sectionArchetype{
	{names: []string{"Intro"}, begin: `\bi`, end: `\ei`, repeat: `\ri`},
	{names: []string{"Verse"}, digitSuffix: true, begin: `\bv`, end: `\ev`, repeat: `\rv`},
	{names: []string{"Prechorus", "Pre-chorus", "Pre-Chorus"}, digitSuffix: true, begin: `\bp`, end: `\ep`, repeat: `\rp`},
	{names: []string{"Chorus"}, digitSuffix: true, begin: `\bc`, end: `\ec`, repeat: `\rc`},
	{names: []string{"Break", "Instrumental"}, digitSuffix: true, begin: `\bin`, end: `\ein`, repeat: `\rin`},
	{names: []string{"Bridge"}, digitSuffix: true, begin: `\bb`, end: `\eb`, repeat: `\rb`},
	{names: []string{"Outro"}, begin: `\bo`, end: `\eo`, repeat: `\ro`},
	{names: []string{"Tag"}, digitSuffix: true, begin: `\bt`, end: `\et`, repeat: `\rt`},
}

func (a sectionArchetype) matches(name string) bool {
	for _, n := range a.names {
		if name == n {
			return true
		}
		if a.digitSuffix && len(name) == len(n)+2 &&
			strings.HasPrefix(name, n+" ") &&
			name[len(n)+1] >= '0' && name[len(n)+1] <= '9' {
			return true
		}
	}
	return false
}

// resolveArchetype finds the archetype for a section name, or fails with
// ErrUnrecognizedSection.
func resolveArchetype(name string) (sectionArchetype, error) {
	for _, a := range sectionArchetypes {
		if a.matches(name) {
			return a, nil
		}
	}
	return sectionArchetype{}, fmt.Errorf("%w: %q", ErrUnrecognizedSection, name)
}

// sectionIndexRe extracts the numeric suffix of names like "Verse 2".
// Hyphenated spellings ("Pre-chorus 2") intentionally fall back to index 1.
var sectionIndexRe = regexp.MustCompile(`^[a-zA-Z]+ ([0-9])$`)

// Section is a named ordered sequence of lines.
type Section struct {
	name  string
	lines []Line
}

// NewSection builds a section from its name and classified lines.
func NewSection(name string, lines []Line) Section {
	return Section{name: name, lines: append([]Line(nil), lines...)}
}

// Name returns the section's name as defined in the source file.
func (s Section) Name() string { return s.name }

// Index is the section's numeric suffix ("Chorus 2" -> 2), defaulting to 1.
func (s Section) Index() int {
	m := sectionIndexRe.FindStringSubmatch(s.name)
	if m == nil {
		return 1
	}
	idx, _ := strconv.Atoi(m[1])
	return idx
}

// HasLyrics reports whether at least one line of the section is a lyric.
func (s Section) HasLyrics() bool {
	for _, l := range s.lines {
		if l.hasLyrics() {
			return true
		}
	}
	return false
}

// renderChordsheet emits the section's chordsheet markup. The first
// occurrence renders all lines between the archetype's begin/end macros,
// annotating the begin macro with the play frequency when above one. A
// repeat occurrence renders only the short repeat macro carrying the
// section's index.
func (s Section) renderChordsheet(n *Notes, frequency int, repeated bool) (string, error) {
	a, err := resolveArchetype(s.name)
	if err != nil {
		return "", err
	}

	if repeated {
		if frequency > 1 {
			return fmt.Sprintf("%s[%d]{%d}", a.repeat, frequency, s.Index()), nil
		}
		return fmt.Sprintf("%s{%d}", a.repeat, s.Index()), nil
	}

	begin := a.begin
	if frequency > 1 {
		begin = fmt.Sprintf("%s[%d]", begin, frequency)
	}
	rendered := make([]string, len(s.lines))
	for i, l := range s.lines {
		rendered[i] = l.renderChordsheet(n)
	}
	return begin + "\n" + strings.Join(rendered, "\n\n") + "\n" + a.end, nil
}

// renderSlides partitions the section's lines into runs separated by
// break lines; each non-empty run becomes one beamer frame of plain lyric
// text. When citeFirst is set the first emitted frame carries the
// citation footer. Fails with ErrEmptySectionSlide when the section has
// no lyrics at all.
func (s Section) renderSlides(citeFirst bool) (string, error) {
	if !s.HasLyrics() {
		return "", fmt.Errorf("%w: %q", ErrEmptySectionSlide, s.name)
	}

	var b strings.Builder
	var run []Line
	emitted := false

	flush := func() {
		if len(run) == 0 {
			return
		}
		if emitted {
			b.WriteString("\n\n")
		}
		b.WriteString("\\begin{frame}\n\\header\n\\begin{center}\n")
		texts := make([]string, len(run))
		for i, l := range run {
			texts[i] = l.lyricsText()
		}
		b.WriteString(strings.Join(texts, "\n\n"))
		b.WriteString("\n\\end{center}\n")
		if citeFirst && !emitted {
			b.WriteString("\\cite\n")
		}
		b.WriteString("\\end{frame}")
		emitted = true
		run = nil
	}

	for _, l := range s.lines {
		if l.isBreak() {
			flush()
			continue
		}
		run = append(run, l)
	}
	flush()

	return b.String(), nil
}

func (s Section) String() string {
	parts := make([]string, 0, len(s.lines)+1)
	parts = append(parts, s.name+":")
	for _, l := range s.lines {
		parts = append(parts, fmt.Sprintf("%v", l))
	}
	return strings.Join(parts, "\n")
}
