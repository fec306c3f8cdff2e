// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/mrd-engine/internal/httputil"
	"github.com/pdiddy/mrd-engine/pkg/types"
)

// FeedProvider pulls items from the configured RSS/Atom feeds and keeps the
// ones whose titles match the query keywords (R1.2). Feeds are not
// queryable, so filtering happens locally.
type FeedProvider struct {
	// Client is the HTTP client; nil means a client built from the config.
	Client *http.Client
}

func (p *FeedProvider) Name() string { return "feeds" }

// Collect fetches each configured feed in turn, waiting cfg.RequestDelay
// between fetches. A failing feed is skipped; the provider only errors when
// every feed failed.
func (p *FeedProvider) Collect(ctx context.Context, query string, cfg types.ResearchConfig) ([]types.SourceRef, error) {
	keywords := queryKeywords(query)
	if len(keywords) == 0 {
		return nil, nil
	}

	client := feedClient(p.Client, cfg)
	parser := gofeed.NewParser()

	var sources []types.SourceRef
	var problems []string
	for i, feedURL := range cfg.Feeds {
		if i > 0 && cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return sources, ctx.Err()
			case <-time.After(cfg.RequestDelay):
			}
		}

		feedSources, err := p.collectFeed(ctx, client, parser, feedURL, keywords, cfg)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", feedURL, err))
			continue
		}
		sources = append(sources, feedSources...)
	}

	if len(sources) == 0 && len(problems) > 0 {
		return nil, fmt.Errorf("all feeds failed: %s", strings.Join(problems, "; "))
	}
	return sources, nil
}

// collectFeed fetches and parses one feed, returning the items whose titles
// match the keywords.
func (p *FeedProvider) collectFeed(ctx context.Context, client *http.Client, parser *gofeed.Parser, feedURL string, keywords []string, cfg types.ResearchConfig) ([]types.SourceRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %d", resp.StatusCode)
	}

	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	var sources []types.SourceRef
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if !matchesAnyKeyword(strings.ToLower(title), keywords) {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		sources = append(sources, types.SourceRef{
			Title:     title,
			URL:       strings.TrimSpace(item.Link),
			Provider:  p.Name(),
			Published: published,
		})
	}
	return sources, nil
}

// queryKeywords lowercases the query and drops words too short to filter on.
func queryKeywords(query string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) < 3 {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

func matchesAnyKeyword(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
