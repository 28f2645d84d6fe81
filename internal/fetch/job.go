// Package fetch - job.go fetches a job posting URL and extracts its text.
package fetch

import (
	"context"
	"log"
)

// JobFetcher retrieves job-description text from posting URLs. Safe for
// concurrent use; results are cached per URL so repeated attempts on the
// same input are idempotent.
type JobFetcher struct {
	options    *Options
	cache      *TextCache
	useBrowser bool
}

// NewJobFetcher creates a fetcher. useBrowser enables headless-browser
// fallback for JavaScript-rendered job boards.
func NewJobFetcher(opts *Options, useBrowser bool) *JobFetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JobFetcher{
		options:    opts,
		cache:      NewTextCache(0),
		useBrowser: useBrowser,
	}
}

// FetchJobText fetches a posting URL and returns its extracted text.
// Platform-specific selectors improve extraction on known job boards.
func (f *JobFetcher) FetchJobText(ctx context.Context, urlStr string) (string, error) {
	if text, ok := f.cache.Get(urlStr); ok {
		return text, nil
	}

	platform := DetectPlatform(urlStr)
	contentSelectors := PlatformContentSelectors(platform)
	noiseSelectors := PlatformNoiseSelectors(platform)

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return "", err
	}

	text, err := ExtractJobText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	// JS-heavy boards often serve an empty shell over plain HTTP.
	if f.useBrowser && ShouldUseBrowser(text) {
		html, browserErr := BrowserSimple(ctx, urlStr, false)
		if browserErr != nil {
			log.Printf("fetch: browser fallback failed for %s, keeping HTTP content: %v", urlStr, browserErr)
		} else {
			if rendered, extractErr := ExtractJobText(html, contentSelectors, noiseSelectors...); extractErr == nil && len(rendered) > len(text) {
				text = rendered
			}
		}
	}

	if text == "" {
		return "", &Error{URL: urlStr, Message: "no job text found in page"}
	}

	f.cache.Put(urlStr, text)
	return text, nil
}
