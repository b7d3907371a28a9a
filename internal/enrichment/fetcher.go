package enrichment

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
)

// Fetch defaults.
const (
	DefaultUserAgent      = "mithrilforge/1.0 (+https://github.com/ksnll/mithrilforge)"
	DefaultRequestTimeout = 30 * time.Second

	// The root page plus one level of internal links.
	crawlDepth = 2
)

// FetcherConfig configures a SiteFetcher.
type FetcherConfig struct {
	UserAgent      string
	RequestTimeout time.Duration
	// HTTPClient is copied per crawl. Nil uses colly's default transport.
	HTTPClient *http.Client
}

// SiteFetcher crawls a site's root page and the internal pages it links to.
type SiteFetcher struct {
	cfg FetcherConfig
	log logger.Logger
}

// NewSiteFetcher creates a fetcher.
func NewSiteFetcher(cfg FetcherConfig, log logger.Logger) *SiteFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &SiteFetcher{cfg: cfg, log: log}
}

type crawledPage struct {
	url     string
	content string
}

// crawl holds the state of one Fetch call.
type crawl struct {
	root      string
	rootDone  bool
	pages     []crawledPage
	internals []string
	externals []string
	seen      map[string]struct{}
	err       error
}

// Fetch visits address and every distinct "/path" link on it, and returns
// the condensed pages followed by the external links found on the root.
// Any failed page fails the whole fetch.
func (f *SiteFetcher) Fetch(ctx context.Context, address string) (string, error) {
	root := strings.TrimRight(address, "/")
	st := &crawl{root: root, seen: make(map[string]struct{})}

	c := f.newCollector(ctx)
	c.OnResponse(func(r *colly.Response) {
		content, err := condensePage(r.Body)
		if err != nil && st.err == nil {
			st.err = fmt.Errorf("condense %s: %w", r.Request.URL, err)
			return
		}
		st.pages = append(st.pages, crawledPage{url: r.Request.URL.String(), content: content})
	})
	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if !st.rootDone {
			st.collectLink(e.Attr("href"))
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		f.log.Debug("Page fetch failed",
			logger.String("url", r.Request.URL.String()),
			logger.Int("status", r.StatusCode),
			logger.Error(err),
		)
	})

	if err := c.Visit(address); err != nil {
		return "", fmt.Errorf("visit %s: %w", address, err)
	}
	st.rootDone = true

	for _, link := range st.internals {
		if err := c.Visit(link); err != nil {
			return "", fmt.Errorf("visit %s: %w", link, err)
		}
	}
	if st.err != nil {
		return "", st.err
	}

	f.log.Debug("Crawled site",
		logger.String("source_address", address),
		logger.Int("pages", len(st.pages)),
		logger.Int("external_links", len(st.externals)),
	)
	return st.render(), nil
}

func (f *SiteFetcher) newCollector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.MaxDepth(crawlDepth),
		colly.UserAgent(f.cfg.UserAgent),
		// Links are deduplicated by the crawl itself.
		colly.AllowURLRevisit(),
	)
	if f.cfg.HTTPClient != nil {
		client := *f.cfg.HTTPClient
		client.Timeout = f.cfg.RequestTimeout
		c.SetClient(&client)
	} else {
		c.SetRequestTimeout(f.cfg.RequestTimeout)
	}
	return c
}

func (st *crawl) collectLink(href string) {
	href = strings.TrimSpace(href)
	var target *[]string
	switch {
	case strings.HasPrefix(href, "http"):
		target = &st.externals
	case strings.HasPrefix(href, "/") && href != "/" && !strings.HasPrefix(href, "//"):
		href = st.root + href
		target = &st.internals
	default:
		return
	}
	if _, dup := st.seen[href]; dup {
		return
	}
	st.seen[href] = struct{}{}
	*target = append(*target, href)
}

func (st *crawl) render() string {
	var sb strings.Builder
	for _, p := range st.pages {
		fmt.Fprintf(&sb, "==== %s ====\n%s\n\n", p.url, p.content)
	}
	sb.WriteString("==== Related links ====\n")
	for _, l := range st.externals {
		sb.WriteString(l + "\n")
	}
	return sb.String()
}
