package bigfuture

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp/kb"

	"bigfuture-scraper/browser"
	"bigfuture-scraper/services"
	"bigfuture-scraper/storage"
	"bigfuture-scraper/utils"
)

// Resolution is a successful name-to-page mapping. Name carries the
// display name found on the page, which may differ from the input.
type Resolution struct {
	URL  string
	Name string
}

// resolveStage tries one strategy for locating a college's profile
// page. A nil Resolution with a nil error means the stage cleanly
// found nothing and the next stage should run.
type resolveStage func(ctx context.Context, name string) (*Resolution, error)

// Resolver maps college names to profile URLs through a staged
// fallback chain: cache, direct slug, site search, then the slug and
// search again with the college/university wording swapped.
type Resolver struct {
	engine browser.Engine
	cache  *storage.SlugCache
	logger *utils.Logger
	scorer func(a, b string) int
	stages []resolveStage
}

// NewResolver wires the stage chain in its fixed order.
func NewResolver(engine browser.Engine, cache *storage.SlugCache, logger *utils.Logger) *Resolver {
	r := &Resolver{
		engine: engine,
		cache:  cache,
		logger: logger,
		scorer: services.TokenSortRatio,
	}
	r.stages = []resolveStage{
		r.cachedStage,
		r.directStage,
		r.searchStage,
		r.swappedDirectStage,
		r.swappedSearchStage,
	}
	return r
}

// Resolve runs the stages in order and returns the first hit. A nil
// result with a nil error is a miss: every stage ran and none matched.
// A non-nil error means at least one stage hit page trouble and none
// succeeded, so the caller should count a failure rather than a miss.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Resolution, error) {
	var lastErr error
	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := stage(ctx, name)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			r.logger.Warn("[resolver] Stage failed for %q: %v", name, err)
			lastErr = err
			continue
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, lastErr
}

// cachedStage serves prior resolutions without touching the browser.
func (r *Resolver) cachedStage(ctx context.Context, name string) (*Resolution, error) {
	url, ok := r.cache.Get(name)
	if !ok {
		return nil, nil
	}
	return &Resolution{URL: strings.ToLower(url), Name: name}, nil
}

// directStage guesses the profile URL straight from the name's slug.
func (r *Resolver) directStage(ctx context.Context, name string) (*Resolution, error) {
	return r.probeSlug(ctx, name, name)
}

// searchStage runs the site search and fuzzy-matches result labels
// against the input name.
func (r *Resolver) searchStage(ctx context.Context, name string) (*Resolution, error) {
	return r.searchFor(ctx, name, name)
}

// swappedDirectStage retries the slug probe with "college" and
// "university" exchanged, for institutions listed under the other term.
func (r *Resolver) swappedDirectStage(ctx context.Context, name string) (*Resolution, error) {
	swapped := services.SwapCollegeUniversity(name)
	if swapped == name {
		return nil, nil
	}
	return r.probeSlug(ctx, swapped, name)
}

// swappedSearchStage retries the search with the swapped wording,
// still scoring candidates against the original name.
func (r *Resolver) swappedSearchStage(ctx context.Context, name string) (*Resolution, error) {
	swapped := services.SwapCollegeUniversity(name)
	if swapped == name {
		return nil, nil
	}
	return r.searchFor(ctx, swapped, name)
}

// probeSlug loads /colleges/<slug> for probeName and accepts the page
// when the final URL stays under the colleges path and the main region
// rendered. The cache entry is stored under cacheName, the original
// input, so future lookups hit.
func (r *Resolver) probeSlug(ctx context.Context, probeName, cacheName string) (*Resolution, error) {
	slug := services.Slugify(probeName)
	direct := strings.ToLower(baseURL + "/colleges/" + slug)

	if err := r.engine.Navigate(ctx, direct, navTimeout); err != nil {
		return nil, err
	}
	loc, err := r.engine.Location(ctx)
	if err != nil {
		return nil, err
	}
	visible, err := r.engine.Visible(ctx, "main", visibleTimeout)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(strings.ToLower(loc), collegesPrefix) || !visible {
		return nil, nil
	}

	canonical := probeName
	if heading, err := r.engine.Text(ctx, "h1", headingTimeout); err == nil {
		if heading = strings.TrimSpace(heading); heading != "" {
			canonical = heading
		}
	}

	urlLower := strings.ToLower(loc)
	r.storeResolution(cacheName, urlLower)
	return &Resolution{URL: urlLower, Name: canonical}, nil
}

// searchFor submits query on the search page and returns the best
// label match for target among the leading results.
func (r *Resolver) searchFor(ctx context.Context, query, target string) (*Resolution, error) {
	if err := r.engine.Navigate(ctx, searchURL, navTimeout); err != nil {
		return nil, err
	}
	if err := r.engine.SendKeys(ctx, searchInputSel, query+kb.Enter, fillTimeout); err != nil {
		return nil, err
	}
	if err := r.engine.Sleep(ctx, searchSettle); err != nil {
		return nil, err
	}
	html, err := r.engine.HTML(ctx)
	if err != nil {
		return nil, err
	}

	results, err := parseSearchResults(html)
	if err != nil {
		return nil, err
	}

	href, label := r.bestResult(results, target)
	if href == "" {
		return nil, nil
	}

	canonical := query
	if label != "" {
		canonical = label
	}
	r.storeResolution(target, href)
	return &Resolution{URL: href, Name: canonical}, nil
}

// searchResult is one candidate anchor from the results page.
type searchResult struct {
	href  string
	label string
}

// parseSearchResults collects the leading college links out of the
// rendered search page.
func parseSearchResults(html string) ([]searchResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	var results []searchResult
	count := 0
	doc.Find("a[href*='/colleges/']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if count >= maxSearchResults {
			return false
		}
		count++

		href, _ := sel.Attr("href")
		if !strings.Contains(href, "/colleges/") {
			return true
		}
		if !strings.HasPrefix(href, "http") {
			href = baseURL + href
		}
		results = append(results, searchResult{
			href:  strings.ToLower(href),
			label: strings.TrimSpace(sel.Text()),
		})
		return true
	})
	return results, nil
}

// bestResult scores every candidate label against the normalized
// target name and keeps the single best one at or above the
// acceptance threshold.
func (r *Resolver) bestResult(results []searchResult, target string) (href, label string) {
	targetNorm := services.NormalizeName(target)
	bestScore := 0
	for _, res := range results {
		score := r.scorer(targetNorm, services.NormalizeName(res.label))
		if score > bestScore {
			bestScore = score
			href = res.href
			label = res.label
		}
	}
	if bestScore < matchThreshold {
		return "", ""
	}
	return href, label
}

// storeResolution caches a hit under the original input name and
// persists immediately so a crash cannot lose it.
func (r *Resolver) storeResolution(name, url string) {
	r.cache.Add(name, url)
	if err := r.cache.Save(); err != nil {
		r.logger.Warn("[resolver] Could not save slug cache: %v", err)
	}
}
