// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/mrd-engine/internal/httputil"
	"github.com/pdiddy/mrd-engine/pkg/types"
)

// newsAPIBase is the Google News RSS search endpoint. Declared as a var so
// tests can substitute an httptest server.
var newsAPIBase = "https://news.google.com/rss/search"

// NewsProvider searches Google News RSS for the query (R1.3). Unlike the
// feed provider the query is sent to the server, so no local keyword
// filtering is applied.
type NewsProvider struct {
	// Client is the HTTP client; nil means a client built from the config.
	Client *http.Client
}

func (p *NewsProvider) Name() string { return "news" }

// Collect fetches one result feed for the query.
func (p *NewsProvider) Collect(ctx context.Context, query string, cfg types.ResearchConfig) ([]types.SourceRef, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	lang := cfg.NewsLang
	if lang == "" {
		lang = "en-US"
	}
	country := cfg.NewsCountry
	if country == "" {
		country = "US"
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", lang)
	params.Set("gl", country)
	// ceid wants the bare language subtag ("US:en", not "US:en-US").
	params.Set("ceid", country+":"+strings.SplitN(lang, "-", 2)[0])

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, newsAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, feedClient(p.Client, cfg), req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news search returned %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing news feed: %w", err)
	}

	var sources []types.SourceRef
	for _, item := range feed.Items {
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		sources = append(sources, types.SourceRef{
			Title:     strings.TrimSpace(item.Title),
			URL:       strings.TrimSpace(item.Link),
			Provider:  p.Name(),
			Published: published,
		})
	}
	return sources, nil
}
