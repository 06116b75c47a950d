package corpus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchCachesDownload(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("my grandma overeats oats daily"))
	}))
	defer server.Close()

	f := NewFetcher(t.TempDir())
	ctx := context.Background()

	first, err := f.Fetch(ctx, server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	data, err := io.ReadAll(first)
	first.Close()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "my grandma overeats oats daily" {
		t.Errorf("Unexpected corpus content: %q", data)
	}

	second, err := f.Fetch(ctx, server.URL)
	if err != nil {
		t.Fatalf("Fetch (cached): %v", err)
	}
	second.Close()

	if requests != 1 {
		t.Errorf("Expected 1 request, cache should serve the second fetch; got %d", requests)
	}
}

func TestFetchStripsHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><script>var x = 1;</script></head>" +
			"<body><p>grandma overeats</p><style>p{}</style><p>oats daily</p></body></html>"))
	}))
	defer server.Close()

	f := NewFetcher(t.TempDir())
	r, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	if strings.Contains(text, "<") || strings.Contains(text, "var x") || strings.Contains(text, "p{}") {
		t.Errorf("Markup or script leaked into corpus text: %q", text)
	}
	for _, want := range []string{"grandma overeats", "oats daily"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in corpus text %q", want, text)
		}
	}
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher(t.TempDir())
	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected error on HTTP failure")
	}
}

func TestFetchDistinctURLsDistinctCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("corpus for " + r.URL.Path))
	}))
	defer server.Close()

	f := NewFetcher(t.TempDir())
	ctx := context.Background()

	a, err := f.Fetch(ctx, server.URL+"/a")
	if err != nil {
		t.Fatal(err)
	}
	dataA, _ := io.ReadAll(a)
	a.Close()

	b, err := f.Fetch(ctx, server.URL+"/b")
	if err != nil {
		t.Fatal(err)
	}
	dataB, _ := io.ReadAll(b)
	b.Close()

	if string(dataA) == string(dataB) {
		t.Error("Different URLs must not share a cache entry")
	}
}
