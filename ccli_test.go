package chordgen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const sampleSongPage = `<!DOCTYPE html>
<html><body>
<h1>Amazing Grace</h1>
<ul class="authors">
  <li><a href="/search?author=newton">John Newton</a></li>
  <li><a href="/search?author=excell">Edwin Othello Excell</a></li>
</ul>
<ul class="song-meta-list">
  <li>Themes</li>
  <li>Grace</li>
</ul>
<ul class="song-meta-list">
  <li>Copyrights</li>
  <li>1900 Hope Publishing Company</li>
  <li>1982 Another Publisher</li>
</ul>
</body></html>`

func TestParseSongPage(t *testing.T) {
	t.Parallel()

	doc, err := html.Parse(strings.NewReader(sampleSongPage))
	if err != nil {
		t.Fatalf("parsing sample page: %v", err)
	}

	meta := parseSongPage(doc)
	if meta.Composer != "John Newton, Edwin Othello Excell" {
		t.Errorf("Composer = %q, want joined author list", meta.Composer)
	}
	if meta.Year != "1900" {
		t.Errorf("Year = %q, want 1900", meta.Year)
	}
	if meta.Publisher != "Hope Publishing Company, Another Publisher" {
		t.Errorf("Publisher = %q, want joined publisher list", meta.Publisher)
	}
}

func TestParseSongPage_MissingSections(t *testing.T) {
	t.Parallel()

	doc, err := html.Parse(strings.NewReader("<html><body><p>empty</p></body></html>"))
	if err != nil {
		t.Fatalf("parsing page: %v", err)
	}

	meta := parseSongPage(doc)
	if meta.Composer != "" || meta.Year != "" || meta.Publisher != "" {
		t.Errorf("parseSongPage on empty page = %+v, want zero values", meta)
	}
}

func TestSongSelectClient_Lookup(t *testing.T) {
	t.Parallel()

	var loginForm map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/signin", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing login form: %v", err)
		}
		loginForm = map[string]string{
			"EmailAddress": r.PostFormValue("EmailAddress"),
			"Password":     r.PostFormValue("Password"),
		}
	})
	mux.HandleFunc("/songs/22025", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept-Encoding"); got != "identity" {
			t.Errorf("Accept-Encoding = %q, want identity", got)
		}
		_, _ = w.Write([]byte(sampleSongPage))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewSongSelectClient("user@example.com", "hunter2", nil)
	client.loginURL = srv.URL + "/signin"
	client.songFormat = srv.URL + "/songs/%s"

	meta, err := client.Lookup(context.Background(), "22025")
	if err != nil {
		t.Fatalf("Lookup error = %v", err)
	}
	if meta.Composer != "John Newton, Edwin Othello Excell" {
		t.Errorf("Composer = %q, want author list", meta.Composer)
	}
	if meta.Year != "1900" {
		t.Errorf("Year = %q, want 1900", meta.Year)
	}

	if loginForm["EmailAddress"] != "user@example.com" || loginForm["Password"] != "hunter2" {
		t.Errorf("login form = %v, want submitted credentials", loginForm)
	}

	// A second lookup reuses the session without signing in again.
	loginForm = nil
	if _, err := client.Lookup(context.Background(), "22025"); err != nil {
		t.Fatalf("second Lookup error = %v", err)
	}
	if loginForm != nil {
		t.Error("second lookup signed in again, want cached session")
	}
}

func TestSongSelectClient_LookupStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/songs/") {
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewSongSelectClient("user@example.com", "hunter2", nil)
	client.loginURL = srv.URL + "/signin"
	client.songFormat = srv.URL + "/songs/%s"

	_, err := client.Lookup(context.Background(), "404404")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Lookup error = %v, want status error", err)
	}
}
