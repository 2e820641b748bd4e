package fetcher

import (
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fetchResult(t *testing.T, c *Client, url string) (string, bool) {
	t.Helper()

	type result struct {
		body string
		ok   bool
	}
	ch := make(chan result, 2)

	c.Fetch(url,
		func(body string) { ch <- result{body: body, ok: true} },
		func() { ch <- result{} },
	)

	select {
	case r := <-ch:
		// the other callback must never fire
		select {
		case <-ch:
			t.Fatal("both callbacks were invoked")
		case <-time.After(100 * time.Millisecond):
		}
		return r.body, r.ok
	case <-time.After(5 * time.Second):
		t.Fatal("no callback invoked")
		return "", false
	}
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		w.Write([]byte("some lyrics"))
	}))
	defer srv.Close()

	body, ok := fetchResult(t, New(), srv.URL)
	if !ok {
		t.Fatal("expected success callback")
	}
	if body != "some lyrics" {
		t.Errorf("body = %q", body)
	}
}

func TestFetchNon200IsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, ok := fetchResult(t, New(), srv.URL); ok {
		t.Error("expected failure callback on 404")
	}
}

func TestFetchConnectionErrorIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nobody listening anymore

	if _, ok := fetchResult(t, New(), srv.URL); ok {
		t.Error("expected failure callback on connection error")
	}
}

func TestFetchGzipBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("compressed lyrics"))
		gz.Close()
	}))
	defer srv.Close()

	body, ok := fetchResult(t, New(), srv.URL)
	if !ok {
		t.Fatal("expected success callback")
	}
	if body != "compressed lyrics" {
		t.Errorf("body = %q", body)
	}
}
