package chordgen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// SongSelect endpoints. The login URL carries the SongSelect app context
// so the session cookie is valid for song pages.
const (
	songSelectLoginURL   = "https://profile.ccli.com/account/signin?appContext=SongSelect&returnUrl=https%3a%2f%2fsongselect.ccli.com%2f"
	songSelectSongFormat = "https://songselect.ccli.com/songs/%s"
)

// SongMetadata is the catalog data a lookup can supply for header fields
// missing from the source file.
type SongMetadata struct {
	Composer  string
	Year      string
	Publisher string
}

// MetadataLookup fetches song metadata by CCLI number.
type MetadataLookup interface {
	Lookup(ctx context.Context, ccliNumber string) (*SongMetadata, error)
}

// SongSelectClient looks up song metadata on CCLI SongSelect. It signs in
// once per client and scrapes the song page for authors and copyright
// data.
type SongSelectClient struct {
	client     *http.Client
	loginURL   string
	songFormat string
	email      string
	password   string
	log        *zap.Logger
	loggedIn   bool
}

var _ MetadataLookup = (*SongSelectClient)(nil)

// NewSongSelectClient creates a client authenticating with the given
// CCLI account.
func NewSongSelectClient(email, password string, log *zap.Logger) *SongSelectClient {
	if log == nil {
		log = zap.NewNop()
	}
	jar, _ := cookiejar.New(nil)
	return &SongSelectClient{
		client:     &http.Client{Jar: jar},
		loginURL:   songSelectLoginURL,
		songFormat: songSelectSongFormat,
		email:      email,
		password:   password,
		log:        log,
	}
}

// Lookup signs in if needed, fetches the song page, and extracts
// composer, copyright year, and publishers.
func (c *SongSelectClient) Lookup(ctx context.Context, ccliNumber string) (*SongMetadata, error) {
	if err := c.login(ctx); err != nil {
		return nil, err
	}

	pageURL := fmt.Sprintf(c.songFormat, url.PathEscape(ccliNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: song page returned %s", ErrLookupFailed, resp.Status)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing song page: %v", ErrLookupFailed, err)
	}

	meta := parseSongPage(doc)
	c.log.Debug("songselect lookup complete",
		zap.String("ccli", ccliNumber),
		zap.String("composer", meta.Composer),
		zap.String("year", meta.Year),
		zap.String("publisher", meta.Publisher))
	return meta, nil
}

func (c *SongSelectClient) login(ctx context.Context) error {
	if c.loggedIn {
		return nil
	}
	form := url.Values{
		"EmailAddress": {c.email},
		"Password":     {c.password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: signing in: %v", ErrLookupFailed, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	c.loggedIn = true
	return nil
}

// copyrightItemRe splits a copyright list item into its leading year and
// the publisher name.
var copyrightItemRe = regexp.MustCompile(`^([0-9]+)\s+(.*)$`)

// parseSongPage extracts metadata from a SongSelect song page: authors
// come from the <ul class="authors"> anchors, year and publishers from
// the "Copyrights" entries of <ul class="song-meta-list">.
func parseSongPage(doc *html.Node) *SongMetadata {
	meta := &SongMetadata{}

	if authors := findList(doc, "authors"); authors != nil {
		var names []string
		walkNodes(authors, func(n *html.Node) {
			if n.Type == html.ElementNode && n.Data == "a" {
				if name := strings.TrimSpace(nodeText(n)); name != "" {
					names = append(names, name)
				}
			}
		})
		meta.Composer = strings.Join(names, ", ")
	}

	if list := findCopyrightList(doc); list != nil {
		var publishers []string
		walkNodes(list, func(n *html.Node) {
			if n.Type != html.ElementNode || n.Data != "li" {
				return
			}
			text := strings.TrimSpace(nodeText(n))
			if text == "" || text == "Copyrights" {
				return
			}
			if m := copyrightItemRe.FindStringSubmatch(text); m != nil {
				if meta.Year == "" {
					meta.Year = m[1]
				}
				publishers = append(publishers, strings.TrimSpace(m[2]))
				return
			}
			publishers = append(publishers, text)
		})
		meta.Publisher = strings.Join(publishers, ", ")
	}

	return meta
}

// findList finds the first <ul> with the given class attribute.
func findList(doc *html.Node, class string) *html.Node {
	var found *html.Node
	walkNodes(doc, func(n *html.Node) {
		if found != nil || n.Type != html.ElementNode || n.Data != "ul" {
			return
		}
		for _, attr := range n.Attr {
			if attr.Key == "class" && attr.Val == class {
				found = n
				return
			}
		}
	})
	return found
}

// findCopyrightList finds the song-meta-list whose first item is the
// "Copyrights" heading; the page carries several song-meta-list blocks.
func findCopyrightList(doc *html.Node) *html.Node {
	var found *html.Node
	walkNodes(doc, func(n *html.Node) {
		if found != nil || n.Type != html.ElementNode || n.Data != "ul" {
			return
		}
		isMetaList := false
		for _, attr := range n.Attr {
			if attr.Key == "class" && attr.Val == "song-meta-list" {
				isMetaList = true
			}
		}
		if !isMetaList {
			return
		}
		if strings.Contains(nodeText(n), "Copyrights") {
			found = n
		}
	})
	return found
}

// walkNodes visits every node of the subtree in document order.
func walkNodes(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walkNodes(child, visit)
	}
}

// nodeText concatenates all text content under a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	walkNodes(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}
