// Package jd loads job descriptions from files or URLs as plain text.
package jd

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

const (
	// FetchTimeout bounds a Fetch without a caller deadline.
	FetchTimeout = 30 * time.Second
	// MaxBodyBytes caps how much of a page is read.
	MaxBodyBytes = 5 << 20
	userAgent    = "resume-studio/1.0"
)

// noise is removed before text extraction.
const noise = "script, style, noscript, template, svg, iframe, nav, header, footer, form, button"

// blocks are the elements whose text becomes separate lines.
const blocks = "h1, h2, h3, h4, h5, h6, p, li, dt, dd, td, th, pre, blockquote"

// Fetch retrieves job description from file or URL.
func Fetch(input string) (content string, err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	content, err = FetchWithContext(ctx, input)
	return content, err
}

// FetchWithContext retrieves job description with context.
func FetchWithContext(ctx context.Context, input string) (content string, err error) {
	parsedURL, urlErr := url.Parse(input)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		content, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch JD from URL: %s", input)
			return content, err
		}
		return content, err
	}

	content, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch JD from file: %s", input)
		return content, err
	}

	return content, err
}

// fetchFromFile reads job description from a file. Saved web pages are
// reduced to text.
func fetchFromFile(path string) (content string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return content, err
	}

	content = string(data)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		content, err = ExtractText(strings.NewReader(content))
		if err != nil {
			return content, err
		}
	}

	if strings.TrimSpace(content) == "" {
		err = errors.New("file is empty")
		return content, err
	}

	return content, err
}

// fetchFromURL retrieves job description from a URL.
func fetchFromURL(ctx context.Context, urlStr string) (content string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return content, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")

	client := &http.Client{
		Timeout: FetchTimeout,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	body := io.LimitReader(resp.Body, MaxBodyBytes)

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		var data []byte
		data, err = io.ReadAll(body)
		if err != nil {
			err = errors.Wrap(err, "failed to read response body")
			return content, err
		}
		content = strings.TrimSpace(string(data))
	} else {
		content, err = ExtractText(body)
		if err != nil {
			return content, err
		}
	}

	if content == "" {
		err = errors.New("fetched content is empty after processing")
		return content, err
	}

	return content, err
}

// ExtractText reduces an HTML page to readable text, one block per line.
// Navigation, scripts and styling are dropped. The main or article element
// is preferred over the whole body when present.
func ExtractText(r io.Reader) (text string, err error) {
	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(r)
	if err != nil {
		err = errors.Wrap(err, "failed to parse HTML")
		return text, err
	}

	doc.Find(noise).Remove()

	root := doc.Find("main, article, [role=main]").First()
	if root.Length() == 0 {
		root = doc.Find("body")
	}
	if root.Length() == 0 {
		root = doc.Selection
	}

	lines := []string{}
	root.Find(blocks).Each(func(_ int, s *goquery.Selection) {
		// Only innermost blocks, so nested lists are not repeated.
		if s.Find(blocks).Length() > 0 {
			return
		}
		line := collapse(s.Text())
		if line == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			line = "- " + line
		}
		lines = append(lines, line)
	})

	if len(lines) == 0 {
		text = collapse(root.Text())
		return text, err
	}

	text = strings.Join(lines, "\n")
	return text, err
}

// collapse joins runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
