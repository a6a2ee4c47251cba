package chordgen

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Default values for header fields the source file leaves out.
const (
	DefaultKey          = "C"
	defaultComposer     = "Unknown Artist"
	defaultCCLI         = "N/A"
	defaultBPM          = "Unknown"
	defaultSignature    = "Unknown signature"
	defaultVerse        = "N/A"
	defaultArranger     = "Unknown Arranger"
	defaultYear         = ""
	defaultPublisher    = "Unknown Publisher"
	maxComposerFieldLen = 40
)

// HeaderData is the song metadata collected from <tag> lines at the top
// of a source file, with defaults for anything missing.
type HeaderData struct {
	Song       string
	CCLI       string
	Composer   string
	Key        string // render key plus mode, e.g. "D Major"; set at render time
	MajorMinor string
	BPM        string
	Signature  string
	Verse      string
	Arranger   string
	Year       string
	Publisher  string
}

func defaultHeaderData() HeaderData {
	return HeaderData{
		Composer:  defaultComposer,
		CCLI:      defaultCCLI,
		BPM:       defaultBPM,
		Signature: defaultSignature,
		Verse:     defaultVerse,
		Arranger:  defaultArranger,
		Year:      defaultYear,
		Publisher: defaultPublisher,
	}
}

// Header tag patterns. Each matches one whole line of the form "<tag> value".
var (
	songTagRe      = regexp.MustCompile(`^<song> ([a-zA-Z0-9 :,'()/-]+)$`)
	ccliTagRe      = regexp.MustCompile(`^<ccli> ([0-9/ ]+|N/A)$`)
	composerTagRe  = regexp.MustCompile(`^<composer> ([a-zA-Z0-9 ,-.]+)$`)
	keyTagRe       = regexp.MustCompile(`(?i)^<key> ([A-G][#b]?) (major|minor)$`)
	bpmTagRe       = regexp.MustCompile(`^<bpm> ([0-9]+|\?)$`)
	signatureTagRe = regexp.MustCompile(`^<signature> ([0-9]+/[0-9]+|\?)`)
	verseTagRe     = regexp.MustCompile(`^<verse> ([a-zA-Z0-9 :,-]+|N/A)$`)
	arrangerTagRe  = regexp.MustCompile(`^<arranger> ([a-zA-Z0-9 -]+)$`)
	publisherTagRe = regexp.MustCompile(`^<publisher> ([a-zA-Z0-9 ,.!'/-]+|N/A)$`)
	yearTagRe      = regexp.MustCompile(`^<year> ([0-9]+|N/A)$`)

	orderStartRe   = regexp.MustCompile(`^<order>`)
	sectionStartRe = regexp.MustCompile(`^<([a-zA-Z0-9 ]+)>$`)
	orderEntryRe   = regexp.MustCompile(`^([a-zA-Z0-9 ]+?)( \(x?([0-9]+)x?\))?$`)
)

// parseMode tracks which block of the source file the scanner is in.
type parseMode int

const (
	modeNormal parseMode = iota
	modeOrder
	modeSection
)

// ParseSongFile reads a whole raw chordsheet: header tags, the <order>
// block, and the <Section Name> blocks, each block terminated by a blank
// line. It returns the header data and the assembled song. The file must
// carry at least a <song> title and a <key>.
func ParseSongFile(r io.Reader) (HeaderData, *Song, error) {
	header := defaultHeaderData()
	sections := make(map[string]Section)
	var order []OrderEntry
	key := DefaultKey
	keyFound := false

	mode := modeNormal
	var sectionName string
	var sectionLines []Line

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNo++

		switch mode {
		case modeNormal:
			switch {
			case songTagRe.MatchString(line):
				header.Song = songTagRe.FindStringSubmatch(line)[1]
			case ccliTagRe.MatchString(line):
				header.CCLI = ccliTagRe.FindStringSubmatch(line)[1]
			case composerTagRe.MatchString(line):
				header.Composer = composerTagRe.FindStringSubmatch(line)[1]
			case keyTagRe.MatchString(line):
				m := keyTagRe.FindStringSubmatch(line)
				key = m[1]
				header.MajorMinor = properMode(m[2])
				keyFound = true
			case bpmTagRe.MatchString(line):
				header.BPM = bpmTagRe.FindStringSubmatch(line)[1]
			case signatureTagRe.MatchString(line):
				header.Signature = signatureTagRe.FindStringSubmatch(line)[1]
			case verseTagRe.MatchString(line):
				header.Verse = verseTagRe.FindStringSubmatch(line)[1]
			case arrangerTagRe.MatchString(line):
				header.Arranger = arrangerTagRe.FindStringSubmatch(line)[1]
			case publisherTagRe.MatchString(line):
				header.Publisher = publisherTagRe.FindStringSubmatch(line)[1]
			case yearTagRe.MatchString(line):
				header.Year = yearTagRe.FindStringSubmatch(line)[1]
			case orderStartRe.MatchString(line):
				mode = modeOrder
			case sectionStartRe.MatchString(line):
				mode = modeSection
				sectionName = sectionStartRe.FindStringSubmatch(line)[1]
				sectionLines = nil
			}

		case modeOrder:
			if line == "" {
				mode = modeNormal
				continue
			}
			m := orderEntryRe.FindStringSubmatch(line)
			if m == nil {
				return header, nil, fmt.Errorf("line %d: malformed order entry %q", lineNo, line)
			}
			frequency := 1
			if m[3] != "" {
				frequency, _ = strconv.Atoi(m[3])
			}
			order = append(order, OrderEntry{Name: m[1], Frequency: frequency})

		case modeSection:
			if line == "" {
				sections[sectionName] = NewSection(sectionName, sectionLines)
				mode = modeNormal
				continue
			}
			parsed, err := ParseLine(line)
			if err != nil {
				return header, nil, fmt.Errorf("line %d in section %q: %w", lineNo, sectionName, err)
			}
			sectionLines = append(sectionLines, parsed)
		}
	}
	if err := scanner.Err(); err != nil {
		return header, nil, fmt.Errorf("reading song file: %w", err)
	}

	// A section may run to end-of-file without a closing blank line.
	if mode == modeSection {
		sections[sectionName] = NewSection(sectionName, sectionLines)
	}

	if header.Song == "" {
		return header, nil, ErrMissingTitle
	}
	if !keyFound {
		return header, nil, ErrMissingKey
	}

	song, err := NewSong(sections, order, key)
	if err != nil {
		return header, nil, err
	}
	return header, song, nil
}

// properMode normalizes the key mode spelling ("major" -> "Major").
func properMode(mode string) string {
	if mode == "" {
		return mode
	}
	return strings.ToUpper(mode[:1]) + strings.ToLower(mode[1:])
}
