package chordgen

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderHTMLPreview(t *testing.T) {
	t.Parallel()

	header, song, err := ParseSongFile(strings.NewReader(sampleSongFile))
	if err != nil {
		t.Fatalf("ParseSongFile error = %v", err)
	}

	page, err := RenderHTMLPreview(header, song, "A")
	if err != nil {
		t.Fatalf("RenderHTMLPreview error = %v", err)
	}

	wantContains := []string{
		"<title>Amazing Grace</title>",
		"Key of A Major",
		"<h2>Intro</h2>",
		"<h2>Verse 1</h2>",
		// G -> A moves the intro chords up a tone.
		"| A | D | A | E |",
		"Amazing grace how sweet the sound",
		`<span class="chord">`,
	}
	for _, want := range wantContains {
		if !strings.Contains(page, want) {
			t.Errorf("preview missing %q", want)
		}
	}

	// Repeated order entries render each occurrence.
	if got := strings.Count(page, "<h2>Verse 1</h2>"); got != 2 {
		t.Errorf("Verse 1 headings = %d, want 2", got)
	}
}

func TestRenderHTMLPreview_KeepsSectionSpelling(t *testing.T) {
	t.Parallel()

	sections := map[string]Section{
		"Pre-Chorus 2": NewSection("Pre-Chorus 2", []Line{mustLine(t, "[G]lift it up")}),
	}
	song, err := NewSong(sections, []OrderEntry{{Name: "Pre-Chorus 2", Frequency: 1}}, "G")
	if err != nil {
		t.Fatalf("NewSong error = %v", err)
	}

	page, err := RenderHTMLPreview(HeaderData{Song: "Test"}, song, "G")
	if err != nil {
		t.Fatalf("RenderHTMLPreview error = %v", err)
	}

	// The heading uses the name as written, interior capitals intact.
	if !strings.Contains(page, "<h2>Pre-Chorus 2</h2>") {
		t.Errorf("preview = %q, want heading spelled as in the source", page)
	}
}

func TestRenderHTMLPreview_BadKey(t *testing.T) {
	t.Parallel()

	header, song, err := ParseSongFile(strings.NewReader(sampleSongFile))
	if err != nil {
		t.Fatalf("ParseSongFile error = %v", err)
	}

	if _, err := RenderHTMLPreview(header, song, "H"); !errors.Is(err, ErrUnsupportedKey) {
		t.Errorf("RenderHTMLPreview error = %v, want ErrUnsupportedKey", err)
	}
}

func TestLyricPreviewRows_Alignment(t *testing.T) {
	t.Parallel()

	lyric := mustLine(t, "[G]Amazing [C]grace").(Lyric)
	chordRow, textRow := lyricPreviewRows(lyric, mustNotes(t, "G", "G"))

	if string(textRow) != "Amazing grace" {
		t.Errorf("text row = %q, want lyric text", textRow)
	}
	// The C chord sits over the "g" of grace, eight columns in.
	want := `<span class="chord">G       C</span>`
	if string(chordRow) != want {
		t.Errorf("chord row = %q, want %q", chordRow, want)
	}
}

func TestLyricPreviewRows_NoChords(t *testing.T) {
	t.Parallel()

	lyric := mustLine(t, "plain text").(Lyric)
	chordRow, textRow := lyricPreviewRows(lyric, mustNotes(t, "C", "C"))
	if chordRow != "" {
		t.Errorf("chord row = %q, want empty", chordRow)
	}
	if string(textRow) != "plain text" {
		t.Errorf("text row = %q, want plain text", textRow)
	}
}
