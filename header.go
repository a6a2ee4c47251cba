package chordgen

import (
	"fmt"
	"strings"
	"text/template"
)

// LaTeX document headers. Square-bracket delimiters keep the templates
// readable next to LaTeX's own braces.
const chordsheetHeaderTemplate = `\documentclass[9pt]{extarticle}

\input{latex_templates/chordsheet}

% SET THESE FOR THE SONG
\newcommand{\name}{[[.Song]]} % TITLE
\newcommand{\ccli}{[[.CCLI]]} % CCLI
\newcommand{\composer}{[[.Composer]]} % COMPOSER
\newcommand{\bpm}{[[.BPM]]} % BEATS PER MINUTE
\newcommand{\timesignature}{[[.Signature]]} % TIME SIGNATURE
\newcommand{\key}{[[.Key]]} % KEY OF SONG
\newcommand{\bibleverse}{[[.Verse]]} % BIBLE VERSE REFERENCE
\newcommand{\arranger}{[[.Arranger]]} % ARRANGER

\fancyhead[L]{ \\ \bpm\ bpm, \timesignature \\ \key}
\fancyhead[C]{{\Large \bf{\name}} \\ \#\ccli \\ \bibleverse}
\fancyhead[R]{ \\ \composer \\ \arranger}
`

const slidesHeaderTemplate = `\documentclass[xcolor=svgnames,table,aspectratio=169]{beamer}
\input{latex_templates/musicslides}

\newcommand{\name}{[[.Song]]}  % TITLE
\newcommand{\composer}{[[.Composer]]}  % COMPOSER
\renewcommand{\year}{[[.Year]]}  % YEAR OF PUBLISHING
\newcommand{\publisher}{[[.Publisher]]}  % PUBLISHER(S)
\newcommand{\ccli}{[[.CCLI]]}  % CCLI

\renewcommand{\cite}{\bottomleft{` + "``" + `\name'' by \composer\\\textcopyright\year\ \publisher\\CCLI License \#\ccli\\}}
\renewcommand{\header}{\topleft{\name}}
`

var (
	chordsheetHeaderTmpl = template.Must(
		template.New("chordsheet").Delims("[[", "]]").Parse(chordsheetHeaderTemplate))
	slidesHeaderTmpl = template.Must(
		template.New("slides").Delims("[[", "]]").Parse(slidesHeaderTemplate))
)

// RenderChordsheetHeader substitutes header data into the chordsheet
// document preamble. Composer lists too long for the header field are
// abbreviated to the first name plus "et. al.".
func RenderChordsheetHeader(h HeaderData) (string, error) {
	h.Composer = abbreviateComposer(h.Composer)
	return renderHeader(chordsheetHeaderTmpl, h)
}

// RenderSlidesHeader substitutes header data into the beamer preamble.
func RenderSlidesHeader(h HeaderData) (string, error) {
	return renderHeader(slidesHeaderTmpl, h)
}

func renderHeader(tmpl *template.Template, h HeaderData) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, h); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHeaderTemplate, err)
	}
	return b.String(), nil
}

// abbreviateComposer shortens a comma-separated composer list that would
// overflow the header field.
func abbreviateComposer(composer string) string {
	if len(composer) <= maxComposerFieldLen {
		return composer
	}
	first, _, _ := strings.Cut(composer, ",")
	return strings.TrimSpace(first) + " et. al."
}
