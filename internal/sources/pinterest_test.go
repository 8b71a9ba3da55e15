package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func pinterestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok123"})
			fmt.Fprint(w, "<html></html>")
		case "/top_trends_filtered/":
			if r.Header.Get("X-CSRFToken") != "tok123" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			switch r.URL.Query().Get("country") {
			case "US":
				fmt.Fprint(w, `{"values":[{"term":"Cat Dad"},{"term":"diy"},{"term":"retro sunset"}]}`)
			case "GB+IE":
				fmt.Fprint(w, `{"values":[{"term":"retro sunset"},{"term":"cottagecore"}]}`)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestPinterestFetch(t *testing.T) {
	srv := pinterestServer(t)
	defer srv.Close()

	p := NewPinterest([]string{"US", "GB"})
	p.BaseURL = srv.URL

	candidates, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	// "diy" is three characters and dropped; "retro sunset" deduplicates
	// across regions; GB maps to the GB+IE upstream bucket.
	want := []string{"cat dad", "retro sunset", "cottagecore"}
	if len(candidates) != len(want) {
		t.Fatalf("got %d candidates, want %d: %+v", len(candidates), len(want), candidates)
	}
	for i, term := range want {
		if candidates[i].Term != term {
			t.Errorf("candidates[%d] = %q, want %q", i, candidates[i].Term, term)
		}
	}
}

func TestPinterestFailedRegionSkipped(t *testing.T) {
	srv := pinterestServer(t)
	defer srv.Close()

	p := NewPinterest([]string{"US", "XX"})
	p.BaseURL = srv.URL

	candidates, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Errorf("got %d candidates, want 2 from the working region", len(candidates))
	}
}
