// Package corpus acquires training text: streaming HTTP download into
// an on-disk cache, with HTML sources reduced to plain text before
// caching. A cached corpus is reused without touching the network.
package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Fetcher downloads and caches corpus files.
type Fetcher struct {
	CacheDir string
	Client   *http.Client
}

// NewFetcher creates a fetcher caching under dir.
func NewFetcher(dir string) *Fetcher {
	return &Fetcher{
		CacheDir: dir,
		Client:   &http.Client{Timeout: 5 * time.Minute},
	}
}

// Fetch returns a reader over the corpus at url, downloading it into
// the cache on first use. The caller must close the returned reader.
func (f *Fetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	path := f.cachePath(url)
	if _, err := os.Stat(path); err == nil {
		return os.Open(path)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := f.download(ctx, url, path); err != nil {
		return nil, err
	}
	return os.Open(path)
}

// cachePath names the cache entry for a URL by content-addressing the
// URL itself, so distinct corpora never collide.
func (f *Fetcher) cachePath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(f.CacheDir, hex.EncodeToString(sum[:8])+".txt")
}

func (f *Fetcher) download(ctx context.Context, url, path string) error {
	if err := os.MkdirAll(f.CacheDir, 0755); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("download corpus: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download corpus: %s", resp.Status)
	}

	tmp, err := os.CreateTemp(f.CacheDir, ".corpus-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	var werr error
	if isHTML(resp.Header.Get("Content-Type")) {
		werr = writeTextFromHTML(tmp, resp.Body)
	} else {
		_, werr = io.Copy(tmp, resp.Body)
	}
	if werr != nil {
		tmp.Close()
		return fmt.Errorf("cache corpus: %w", werr)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func isHTML(contentType string) bool {
	return strings.Contains(contentType, "text/html")
}

// writeTextFromHTML extracts the text nodes of an HTML document,
// skipping script and style subtrees.
func writeTextFromHTML(w io.Writer, r io.Reader) error {
	doc, err := html.Parse(r)
	if err != nil {
		return err
	}

	var walk func(*html.Node) error
	walk = func(n *html.Node) error {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return nil
		}
		if n.Type == html.TextNode {
			if _, err := io.WriteString(w, n.Data); err != nil {
				return err
			}
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(doc)
}
