package chordgen

import (
	"fmt"
	"html/template"
	"strings"
)

// previewPageTemplate is the HTML shell the preview renders into. The
// monospace body keeps chord rows aligned over their lyrics.
const previewPageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: "DejaVu Sans Mono", monospace; margin: 2em; }
h1 { font-size: 1.6em; margin-bottom: 0.1em; }
p.meta { color: #555; margin-top: 0; }
h2 { font-size: 1.1em; margin-bottom: 0.2em; }
pre { margin: 0 0 1em 0; line-height: 1.35; }
span.chord { color: #b03030; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">{{.Subtitle}}</p>
{{range .Sections}}<h2>{{.Name}}</h2>
<pre>{{range .Rows}}{{.}}
{{end}}</pre>
{{end}}</body>
</html>
`

var previewTemplate = template.Must(template.New("preview").Parse(previewPageTemplate))

type previewSection struct {
	Name string
	Rows []template.HTML
}

type previewPage struct {
	Title    string
	Subtitle string
	Sections []previewSection
}

// RenderHTMLPreview renders the song as a standalone HTML page in the
// target key, with chords on their own row above the lyric text.
func RenderHTMLPreview(header HeaderData, song *Song, newKey string) (string, error) {
	notes, err := NewNotes(song.Key(), newKey)
	if err != nil {
		return "", err
	}

	page := previewPage{
		Title: header.Song,
		Subtitle: fmt.Sprintf("%s | Key of %s %s | %s BPM",
			header.Composer, newKey, header.MajorMinor, header.BPM),
	}

	for _, entry := range song.Order() {
		sec, ok := song.Section(entry.Name)
		if !ok {
			continue
		}
		ps := previewSection{Name: entry.Name}
		for _, line := range sec.lines {
			ps.Rows = append(ps.Rows, previewRows(line, notes)...)
		}
		if len(ps.Rows) == 0 {
			continue
		}
		page.Sections = append(page.Sections, ps)
	}

	var b strings.Builder
	if err := previewTemplate.Execute(&b, page); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPreviewRender, err)
	}
	return b.String(), nil
}

// previewRows renders one line as preview rows. A lyric becomes a chord
// row over a text row, a music line a single chord row, a break a blank
// row.
func previewRows(line Line, notes *Notes) []template.HTML {
	switch l := line.(type) {
	case Lyric:
		chordRow, textRow := lyricPreviewRows(l, notes)
		if strings.TrimSpace(string(chordRow)) == "" {
			return []template.HTML{textRow}
		}
		return []template.HTML{chordRow, textRow}
	case MusicLine:
		var parts []string
		for _, measure := range l.measures {
			var chords []string
			for _, chord := range measure {
				chords = append(chords, notes.Transpose(chord))
			}
			parts = append(parts, strings.Join(chords, " "))
		}
		row := "| " + strings.Join(parts, " | ") + " |"
		return []template.HTML{template.HTML(`<span class="chord">` + template.HTMLEscapeString(row) + `</span>`)}
	case BreakLine:
		return []template.HTML{""}
	}
	return nil
}

// lyricPreviewRows lays chords out in a row aligned over the lyric
// glyphs they attach to. Transposed chords wider than the gap to the
// next chord push later chords right.
func lyricPreviewRows(l Lyric, notes *Notes) (chordRow, textRow template.HTML) {
	var chords, text strings.Builder
	for _, ch := range l.characters {
		if ch.HasChord() {
			symbol := notes.Transpose(*ch.chord)
			if chords.Len() > text.Len() {
				// Previous chord overhangs this column.
				text.WriteString(strings.Repeat(" ", chords.Len()-text.Len()))
			}
			for chords.Len() < text.Len() {
				chords.WriteByte(' ')
			}
			chords.WriteString(symbol)
			chords.WriteByte(' ')
		}
		text.WriteString(ch.Glyph())
	}

	escaped := template.HTMLEscapeString(strings.TrimRight(chords.String(), " "))
	if escaped != "" {
		chordRow = template.HTML(`<span class="chord">` + escaped + `</span>`)
	}
	textRow = template.HTML(template.HTMLEscapeString(text.String()))
	return chordRow, textRow
}
