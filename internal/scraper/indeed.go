package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://www.indeed.com"
	DefaultDelay   = 2 * time.Second
	reviewsPerPage = 20
	browserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Review is one review as rendered on an Indeed company page. Fields hold
// the trimmed page text.
type Review struct {
	Rating           string `json:"rating"`
	Title            string `json:"title"`
	Pros             string `json:"pros"`
	Cons             string `json:"cons"`
	Date             string `json:"date"`
	JobTitle         string `json:"job_title,omitempty"`
	Location         string `json:"location,omitempty"`
	EmploymentStatus string `json:"employment_status,omitempty"`
}

// IndeedScraper fetches review pages one at a time with a fixed pause
// between requests.
type IndeedScraper struct {
	http    *resty.Client
	baseURL string
	delay   time.Duration
}

func NewIndeedScraper(baseURL string, delay time.Duration) *IndeedScraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &IndeedScraper{
		http: resty.New().
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", browserAgent),
		baseURL: strings.TrimRight(baseURL, "/"),
		delay:   delay,
	}
}

// ReviewURL builds the listing URL for a zero-based page.
func (s *IndeedScraper) ReviewURL(company string, page int) string {
	return fmt.Sprintf("%s/cmp/%s/reviews?fcountry=ALL&start=%d",
		s.baseURL, url.PathEscape(company), page*reviewsPerPage)
}

// Scrape fetches up to pages pages of reviews for company. It stops early
// when a page has no reviews and returns what it has collected so far
// together with the error when a fetch fails.
func (s *IndeedScraper) Scrape(ctx context.Context, company string, pages int) ([]Review, error) {
	if pages < 1 {
		pages = 1
	}

	var reviews []Review
	for page := 0; page < pages; page++ {
		if page > 0 {
			if err := sleep(ctx, s.delay); err != nil {
				return reviews, err
			}
		}

		target := s.ReviewURL(company, page)
		res, err := s.http.R().SetContext(ctx).Get(target)
		if err != nil {
			return reviews, fmt.Errorf("fetch %s: %w", target, err)
		}
		if res.IsError() {
			return reviews, fmt.Errorf("fetch %s: status %d", target, res.StatusCode())
		}

		pageReviews, err := ParseReviews(res.Body())
		if err != nil {
			return reviews, fmt.Errorf("parse %s: %w", target, err)
		}
		slog.Info("scraped review page", "company", company, "page", page, "reviews", len(pageReviews))
		if len(pageReviews) == 0 {
			break
		}
		reviews = append(reviews, pageReviews...)
	}
	return reviews, nil
}

// ParseReviews extracts reviews from one listing page. Entries without a
// title are skipped.
func ParseReviews(html []byte) ([]Review, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(html))
	if err != nil {
		return nil, err
	}

	reviews := []Review{}
	doc.Find(`.cmp-ReviewsList div[data-tn-component="reviewsList"]`).Each(func(_ int, sel *goquery.Selection) {
		review := Review{
			Rating:           text(sel.Find(`[class*="rating"] span`).First()),
			Title:            text(sel.Find(`[class*="review-title"]`)),
			Pros:             text(sel.Find(`[data-testid="pros"]`)),
			Cons:             text(sel.Find(`[data-testid="cons"]`)),
			Date:             text(sel.Find(`[class*="review-date"]`)),
			JobTitle:         text(sel.Find(`[class*="job-title"]`)),
			Location:         text(sel.Find(`[class*="review-location"]`)),
			EmploymentStatus: text(sel.Find(`[class*="employment-status"]`)),
		}
		if review.Title != "" {
			reviews = append(reviews, review)
		}
	})
	return reviews, nil
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
