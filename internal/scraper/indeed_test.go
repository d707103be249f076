package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewPage = `<html><body>
<div class="cmp-ReviewsList">
  <div data-tn-component="reviewsList">
    <div class="css-rating-x"><span>4.0</span><span>stars</span></div>
    <h2 class="review-title-main"> Great place to grow </h2>
    <div data-testid="pros">Smart people</div>
    <div data-testid="cons">Long hours</div>
    <span class="review-date">March 3, 2024</span>
    <span class="job-title-text">Software Engineer</span>
    <span class="review-location">Seattle, WA</span>
    <span class="employment-status">Current Employee</span>
  </div>
  <div data-tn-component="reviewsList">
    <div class="rating"><span>2.0</span></div>
    <div data-testid="pros">No title here</div>
  </div>
</div>
</body></html>`

func TestParseReviews(t *testing.T) {
	reviews, err := ParseReviews([]byte(reviewPage))
	require.NoError(t, err)

	want := []Review{{
		Rating:           "4.0",
		Title:            "Great place to grow",
		Pros:             "Smart people",
		Cons:             "Long hours",
		Date:             "March 3, 2024",
		JobTitle:         "Software Engineer",
		Location:         "Seattle, WA",
		EmploymentStatus: "Current Employee",
	}}
	if diff := cmp.Diff(want, reviews); diff != "" {
		t.Errorf("reviews mismatch (-want +got):\n%s", diff)
	}
}

func TestReviewURL(t *testing.T) {
	s := NewIndeedScraper("https://example.com/", 0)
	assert.Equal(t, "https://example.com/cmp/Acme%20Corp/reviews?fcountry=ALL&start=40", s.ReviewURL("Acme Corp", 2))
}

func TestScrapeStopsOnEmptyPage(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cmp/acme/reviews", r.URL.Path)
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		if hits.Add(1) == 1 {
			assert.Equal(t, "0", r.URL.Query().Get("start"))
			_, _ = w.Write([]byte(reviewPage))
			return
		}
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	defer srv.Close()

	s := NewIndeedScraper(srv.URL, time.Millisecond)
	reviews, err := s.Scrape(context.Background(), "acme", 5)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.Equal(t, int32(2), hits.Load())
}

func TestScrapeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewIndeedScraper(srv.URL, 0).Scrape(context.Background(), "acme", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestScrapeHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(reviewPage))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewIndeedScraper(srv.URL, time.Hour)
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	reviews, err := s.Scrape(ctx, "acme", 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, reviews, 1)
}
