// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research collects market sources for a product query from RSS
// feeds and news search, deduplicated and capped for the generation prompt.
// Implements: prd008-research (R1-R5);
//
//	docs/ARCHITECTURE § Research.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// Provider collects sources from a single origin. Each provider (feeds,
// news) implements this interface per the Strategy pattern (R1.4).
type Provider interface {
	Name() string
	Collect(ctx context.Context, query string, cfg types.ResearchConfig) ([]types.SourceRef, error)
}

// Output holds the collected sources and dedup statistics.
type Output struct {
	Sources        []types.SourceRef
	DupsRemoved    int
	ProviderErrors []string
}

// Collect fans the query out to all providers concurrently, deduplicates the
// sources, orders them newest first, and returns at most cfg.MaxSources
// (R1-R3). Provider failures become warnings on w; the run continues with
// whatever the other providers returned.
func Collect(ctx context.Context, query string, providers []Provider, cfg types.ResearchConfig, w io.Writer) (Output, error) {
	if strings.TrimSpace(query) == "" {
		return Output{}, fmt.Errorf("query is empty: provide a product or category to research")
	}
	if len(providers) == 0 {
		return Output{}, fmt.Errorf("no research providers configured")
	}

	type providerResult struct {
		sources []types.SourceRef
		err     error
		name    string
	}

	ch := make(chan providerResult, len(providers))
	var wg sync.WaitGroup

	for _, p := range providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			sources, err := p.Collect(ctx, query, cfg)
			ch <- providerResult{sources: sources, err: err, name: p.Name()}
		}(p)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.SourceRef
	var providerErrors []string
	for pr := range ch {
		if pr.err != nil {
			msg := fmt.Sprintf("%s: %v", pr.name, pr.err)
			providerErrors = append(providerErrors, msg)
			fmt.Fprintf(w, "warning: provider %s failed: %v\n", pr.name, pr.err)
			continue
		}
		all = append(all, pr.sources...)
	}

	deduped, removed := deduplicate(all)

	sort.SliceStable(deduped, func(i, j int) bool {
		pi, pj := deduped[i].Published, deduped[j].Published
		if pi.IsZero() != pj.IsZero() {
			return !pi.IsZero()
		}
		return pi.After(pj)
	})

	if cfg.MaxSources > 0 && len(deduped) > cfg.MaxSources {
		deduped = deduped[:cfg.MaxSources]
	}

	return Output{
		Sources:        deduped,
		DupsRemoved:    removed,
		ProviderErrors: providerErrors,
	}, nil
}

// deduplicate merges sources that share a normalized title or URL (R2.4).
func deduplicate(sources []types.SourceRef) ([]types.SourceRef, int) {
	seen := make(map[string]int) // dedup key → index in deduped
	var deduped []types.SourceRef
	removed := 0

	for _, s := range sources {
		titleKey := "title:" + normalizeTitle(s.Title)
		urlKey := "url:" + normalizeURL(s.URL)

		var idx int
		var ok bool
		if titleKey != "title:" {
			idx, ok = seen[titleKey]
		}
		if !ok && urlKey != "url:" {
			idx, ok = seen[urlKey]
		}
		if ok {
			mergeInto(&deduped[idx], s)
			removed++
			continue
		}

		idx = len(deduped)
		deduped = append(deduped, s)
		if titleKey != "title:" {
			seen[titleKey] = idx
		}
		if urlKey != "url:" {
			seen[urlKey] = idx
		}
	}
	return deduped, removed
}

// mergeInto fills empty fields of dst from src and records both providers.
func mergeInto(dst *types.SourceRef, src types.SourceRef) {
	if dst.Title == "" && src.Title != "" {
		dst.Title = src.Title
	}
	if dst.URL == "" && src.URL != "" {
		dst.URL = src.URL
	}
	if dst.Published.IsZero() && !src.Published.IsZero() {
		dst.Published = src.Published
	}
	if dst.Provider != src.Provider && src.Provider != "" && !strings.Contains(dst.Provider, src.Provider) {
		dst.Provider = dst.Provider + "," + src.Provider
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the
// title (R2.4).
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// normalizeURL trims whitespace and a trailing slash so feed variants of the
// same link compare equal.
func normalizeURL(rawURL string) string {
	return strings.TrimRight(strings.TrimSpace(rawURL), "/")
}

// feedClient returns the override client when set, otherwise a client with
// the configured timeout.
func feedClient(override *http.Client, cfg types.ResearchConfig) *http.Client {
	if override != nil {
		return override
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// FormatTable writes sources as a human-readable table to w (R4.1).
func FormatTable(out Output, w io.Writer) {
	if len(out.Sources) == 0 {
		fmt.Fprintln(w, "No sources found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-12s  %-12s  %s\n",
		"Rank", "Title", "Provider", "Published", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, s := range out.Sources {
		title := s.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		published := ""
		if !s.Published.IsZero() {
			published = s.Published.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-12s  %-12s  %s\n",
			i+1, title, s.Provider, published, s.URL)
	}

	fmt.Fprintf(w, "\n%d sources", len(out.Sources))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes sources as indented JSON to w (R4.2).
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Sources)
}
