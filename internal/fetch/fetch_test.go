package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobPageHTML = `<html>
<head><title>Job</title></head>
<body>
  <nav>Site navigation</nav>
  <div class="job-description">
    <h1>Senior Java Developer</h1>
    <p>We need strong Java and SQL skills plus a collaborative mindset.</p>
  </div>
  <footer>Legal boilerplate</footer>
</body>
</html>`

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(jobPageHTML))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "Senior Java Developer")
}

func TestURL_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not a url", nil)
	assert.Error(t, err)
}

func TestExtractJobText_UsesContentSelectorAndStripsNoise(t *testing.T) {
	text, err := ExtractJobText(jobPageHTML, JobPostingSelectors())
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Java Developer")
	assert.Contains(t, text, "collaborative mindset")
	assert.NotContains(t, text, "Site navigation")
	assert.NotContains(t, text, "Legal boilerplate")
}

func TestExtractJobText_FallsBackToBody(t *testing.T) {
	html := `<html><body><p>Plain posting text</p></body></html>`

	text, err := ExtractJobText(html, []string{".does-not-exist"})
	require.NoError(t, err)
	assert.Contains(t, text, "Plain posting text")
}

func TestDetectPlatform(t *testing.T) {
	cases := map[string]Platform{
		"https://boards.greenhouse.io/acme/jobs/123":        PlatformGreenhouse,
		"https://jobs.lever.co/acme/abc":                    PlatformLever,
		"https://acme.wd5.myworkdayjobs.com/job/123":        PlatformWorkday,
		"https://www.linkedin.com/jobs/view/123":            PlatformLinkedIn,
		"https://careers.example.com/openings/backend-dev1": PlatformUnknown,
	}

	for url, want := range cases {
		assert.Equal(t, want, DetectPlatform(url), "url: %s", url)
	}
}

func TestJobFetcher_CachesExtractedText(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(jobPageHTML))
	}))
	defer server.Close()

	fetcher := NewJobFetcher(nil, false)

	first, err := fetcher.FetchJobText(context.Background(), server.URL)
	require.NoError(t, err)

	second, err := fetcher.FetchJobText(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits)
}

func TestJobFetcher_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewJobFetcher(nil, false)

	_, err := fetcher.FetchJobText(context.Background(), server.URL)
	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestTextCache_Expiry(t *testing.T) {
	cache := NewTextCache(10 * time.Millisecond)
	cache.Put("u", "text")

	_, ok := cache.Get("u")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = cache.Get("u")
	assert.False(t, ok)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("tiny"))
	long := make([]byte, MinContentLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ShouldUseBrowser(string(long)))
}
