// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate produces MRD draft candidates from a product brief.
// Backends draft all twelve sections at once; the ensemble runs several
// backends concurrently and falls back to a deterministic template so a run
// always yields a full candidate set.
// Implements: prd009-generation (R1-R5);
//
//	docs/ARCHITECTURE § Candidate Generation.
package generate

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// Backend produces one draft candidate for a brief.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Request carries everything a backend needs to draft an MRD.
type Request struct {
	Brief   types.Brief
	Sources []types.SourceRef
}

// Response is the structured draft returned by a backend.
type Response struct {
	Sections []ResponseSection `json:"sections" yaml:"sections"`
}

// ResponseSection is a single drafted section as returned by a backend.
type ResponseSection struct {
	Number     int     `json:"number" yaml:"number"`
	Title      string  `json:"title" yaml:"title"`
	Content    string  `json:"content" yaml:"content"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Options tunes an ensemble generation run.
type Options struct {
	// Backends are assigned to candidate slots round-robin. Empty means
	// every slot uses the template backend.
	Backends []Backend

	// Candidates is the number of drafts to produce (default 3).
	Candidates int

	// MaxRetries caps retry attempts per backend call (default 3).
	MaxRetries int
}

const defaultCandidates = 3

// Ensemble produces the requested number of candidates concurrently, one
// goroutine per slot. A slot whose backend keeps failing, or returns a draft
// that does not validate, falls back to the template backend, so the result
// always has exactly as many candidates as requested (R2.4). Candidate IDs
// are assigned before launch and are stable across runs. Warnings for failed
// slots are written to w.
func Ensemble(ctx context.Context, opts Options, req Request, w io.Writer) []types.Candidate {
	count := opts.Candidates
	if count <= 0 {
		count = defaultCandidates
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	fallback := NewTemplateBackend()
	backends := opts.Backends
	if len(backends) == 0 {
		backends = []Backend{fallback}
	}

	candidates := make([]types.Candidate, count)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for slot := 0; slot < count; slot++ {
		backend := backends[slot%len(backends)]
		id := fmt.Sprintf("c%02d-%s", slot+1, backend.Name())
		g.Go(func() error {
			cand, warnings := produceCandidate(gctx, backend, fallback, req, id, maxRetries)
			mu.Lock()
			for _, warn := range warnings {
				fmt.Fprintf(w, "warning: %s\n", warn)
			}
			mu.Unlock()
			candidates[slot] = cand
			return nil
		})
	}
	// Slots never return errors; the fallback always yields a candidate.
	_ = g.Wait()

	return candidates
}

// produceCandidate runs one ensemble slot: the assigned backend with retry,
// then the template fallback (R2.2).
func produceCandidate(ctx context.Context, backend, fallback Backend, req Request, id string, maxRetries int) (types.Candidate, []string) {
	var warnings []string

	resp, err := callWithRetry(ctx, backend, req, maxRetries)
	if err == nil {
		sections, confidence, validationErrors := convertSections(resp)
		if len(validationErrors) == 0 {
			return types.Candidate{
				ID:         id,
				Source:     backend.Name(),
				Sections:   sections,
				Confidence: confidence,
			}, warnings
		}
		err = fmt.Errorf("invalid draft: %s", strings.Join(validationErrors, "; "))
	}
	warnings = append(warnings, fmt.Sprintf("%s: %v: falling back to template draft", id, err))

	resp, fbErr := fallback.Generate(ctx, req)
	if fbErr != nil {
		warnings = append(warnings, fmt.Sprintf("%s: template fallback: %v", id, fbErr))
		return types.Candidate{ID: id, Source: fallback.Name()}, warnings
	}
	sections, confidence, _ := convertSections(resp)
	return types.Candidate{
		ID:         id,
		Source:     fallback.Name(),
		Sections:   sections,
		Confidence: confidence,
	}, warnings
}

var backoffBase = time.Second

// callWithRetry calls a backend with exponential backoff (R2.3).
func callWithRetry(ctx context.Context, backend Backend, req Request, maxRetries int) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := backend.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// convertSections validates a backend draft and splits it into section and
// confidence maps. Every defect is collected so the caller sees the whole
// problem at once (R3.2).
func convertSections(resp *Response) (map[int]string, map[int]float64, []string) {
	sections := make(map[int]string, len(resp.Sections))
	confidence := make(map[int]float64, len(resp.Sections))
	var errors []string

	for i, sec := range resp.Sections {
		if sec.Number < 1 || sec.Number > types.SectionCount {
			errors = append(errors, fmt.Sprintf("section %d: number %d outside 1-%d", i, sec.Number, types.SectionCount))
			continue
		}
		if _, dup := sections[sec.Number]; dup {
			errors = append(errors, fmt.Sprintf("section %d: duplicate number %d", i, sec.Number))
			continue
		}
		if strings.TrimSpace(sec.Content) == "" {
			errors = append(errors, fmt.Sprintf("section %d: blank content", i))
			continue
		}
		if sec.Confidence < 0 || sec.Confidence > 1 {
			errors = append(errors, fmt.Sprintf("section %d: confidence %.2f outside [0,1]", i, sec.Confidence))
			continue
		}
		sections[sec.Number] = sec.Content
		confidence[sec.Number] = sec.Confidence
	}

	return sections, confidence, errors
}
