// Package preview fetches link preview metadata for a URL: Open Graph and
// Twitter card meta tags with the page title as fallback. Results are
// memoized in a TTL cache; fetching is best effort and never touches the
// bookmark store.
package preview

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	gocache "github.com/patrickmn/go-cache"

	"github.com/eterea/eterea/internal/logger"
)

// LinkPreview is the extracted page metadata. Empty fields stay empty;
// extraction never fails once the page body is readable.
type LinkPreview struct {
	URL         string `json:"url"`
	FinalURL    string `json:"final_url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SiteName    string `json:"site_name"`
}

// Fetcher fetches and caches link previews.
type Fetcher struct {
	client *http.Client
	cache  *gocache.Cache
	log    logger.Logger
}

// New builds a fetcher. timeout bounds the whole request, maxRedirects the
// redirect chain; cacheTTL is how long a preview (or a recorded failure)
// is reused.
func New(log logger.Logger, timeout, cacheTTL time.Duration, maxRedirects int) *Fetcher {
	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &Fetcher{
		client: client,
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
		log:    log,
	}
}

// Fetch returns the preview for rawURL, from cache when fresh. Failures are
// cached too so a dead link is not re-fetched on every render.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*LinkPreview, error) {
	if cached, ok := f.cache.Get(rawURL); ok {
		switch v := cached.(type) {
		case *LinkPreview:
			return v, nil
		case error:
			return nil, v
		}
	}

	p, err := f.fetch(ctx, rawURL)
	if err != nil {
		f.log.Debug("preview fetch failed",
			logger.String("url", rawURL),
			logger.Error(err))
		f.cache.SetDefault(rawURL, err)
		return nil, err
	}

	f.cache.SetDefault(rawURL, p)
	return p, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*LinkPreview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build preview request: %w", err)
	}
	req.Header.Set("User-Agent", "eterea/1.0 (+link preview)")
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	p := extract(doc)
	p.URL = rawURL
	p.FinalURL = resp.Request.URL.String()
	return p, nil
}

// extract pulls metadata out of a parsed document. Precedence per field:
// og: over twitter: over plain name= meta over the <title> element.
func extract(doc *goquery.Document) *LinkPreview {
	p := &LinkPreview{}

	p.Title = firstMeta(doc, "og:title", "twitter:title")
	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	p.Description = firstMeta(doc, "og:description", "twitter:description")
	if p.Description == "" {
		p.Description = metaByName(doc, "description")
	}

	p.ImageURL = firstMeta(doc, "og:image", "twitter:image")
	p.SiteName = firstMeta(doc, "og:site_name")

	return p
}

func firstMeta(doc *goquery.Document, props ...string) string {
	for _, prop := range props {
		sel := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, prop, prop)
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if c := strings.TrimSpace(content); c != "" {
				return c
			}
		}
	}
	return ""
}

func metaByName(doc *goquery.Document, name string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).First().Attr("content")
	return strings.TrimSpace(content)
}
