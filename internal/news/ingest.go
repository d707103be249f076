package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDisabled is returned by Run while the ingester's gate is closed.
var ErrDisabled = errors.New("news ingestion is disabled")

// Ingester pulls feed items, matches them to companies and upserts the
// matches into company_news keyed by URL.
type Ingester struct {
	db       *gorm.DB
	registry *Registry
	http     *resty.Client
	now      func() time.Time
	enabled  func() bool
}

func NewIngester(db *gorm.DB, registry *Registry) *Ingester {
	return &Ingester{
		db:       db,
		registry: registry,
		http:     resty.New(),
		now:      time.Now,
	}
}

// SetGate makes Run return ErrDisabled whenever enabled reports false.
func (in *Ingester) SetGate(enabled func() bool) {
	in.enabled = enabled
}

type companyMatcher struct {
	id    uuid.UUID
	name  string
	words []string
}

func (in *Ingester) loadCompanies() ([]companyMatcher, error) {
	var companies []models.Company
	if err := in.db.Select("id", "name").Order("name").Find(&companies).Error; err != nil {
		return nil, err
	}

	out := make([]companyMatcher, 0, len(companies))
	for _, c := range companies {
		m := companyMatcher{id: c.ID, name: c.Name}
		for _, w := range tokenize(c.Name) {
			if len([]rune(w)) > 2 {
				m.words = append(m.words, w)
			}
		}
		if len(m.words) > 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

// Run ingests every enabled feed once. A failing feed is logged and skipped.
func (in *Ingester) Run(ctx context.Context) (*dto.IngestResponse, error) {
	if in.enabled != nil && !in.enabled() {
		return nil, ErrDisabled
	}
	start := in.now()
	companies, err := in.loadCompanies()
	if err != nil {
		return nil, fmt.Errorf("failed to load companies: %w", err)
	}

	resp := &dto.IngestResponse{}
	for _, feed := range in.registry.Enabled() {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		resp.Feeds++

		items, err := in.fetch(ctx, feed)
		if err != nil {
			slog.Error("news feed fetch failed", "feed", feed.Name, "url", feed.URL, "error", err)
			resp.Errors = append(resp.Errors, feed.Name+": "+err.Error())
			continue
		}
		resp.Items += len(items)

		stored, err := in.store(feed, items, companies)
		if err != nil {
			slog.Error("news feed store failed", "feed", feed.Name, "error", err)
			resp.Errors = append(resp.Errors, feed.Name+": "+err.Error())
		}
		resp.Stored += stored
	}

	resp.Duration = in.now().Sub(start).Round(time.Millisecond).String()
	slog.Info("news ingest completed", "feeds", resp.Feeds, "items", resp.Items, "stored", resp.Stored, "errors", len(resp.Errors))
	return resp, nil
}

func (in *Ingester) fetch(ctx context.Context, feed Feed) ([]*gofeed.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(feed.Timeout)*time.Second)
	defer cancel()

	res, err := in.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", feed.UserAgent).
		SetHeader("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml").
		Get(feed.URL)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("status %d", res.StatusCode())
	}

	parsed, err := gofeed.NewParser().ParseString(string(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := parsed.Items
	if len(items) > feed.MaxItems {
		items = items[:feed.MaxItems]
	}
	return items, nil
}

func (in *Ingester) store(feed Feed, items []*gofeed.Item, companies []companyMatcher) (int, error) {
	stored := 0
	for _, item := range items {
		if item.Link == "" || item.Title == "" {
			continue
		}
		title := StripHTML(item.Title)
		description := StripHTML(item.Description)

		match := matchCompany(title+" "+description, companies)
		if match == nil {
			continue
		}

		published := in.now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		article := models.NewsArticle{
			CompanyID:   &match.id,
			CompanyName: match.name,
			Title:       truncate(title, 500),
			Description: description,
			URL:         item.Link,
			PublishedAt: published,
			SourceName:  feed.Name,
			Category:    feed.Category,
		}
		err := in.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoUpdates: clause.AssignmentColumns([]string{"company_id", "company_name", "title", "description", "published_at", "source_name", "category", "updated_at"}),
		}).Create(&article).Error
		if err != nil {
			return stored, fmt.Errorf("upsert %s: %w", item.Link, err)
		}
		stored++
	}
	return stored, nil
}

// matchCompany returns the first company with a name word longer than two
// characters appearing as a word in text.
func matchCompany(text string, companies []companyMatcher) *companyMatcher {
	tokens := map[string]bool{}
	for _, t := range tokenize(text) {
		tokens[t] = true
	}
	for i := range companies {
		for _, w := range companies[i].words {
			if tokens[w] {
				return &companies[i]
			}
		}
	}
	return nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// StripHTML drops markup and decodes entities, collapsing whitespace.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// StartIngest runs the ingester every interval until done is closed.
func StartIngest(in *Ingester, interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				_, err := in.Run(ctx)
				switch {
				case errors.Is(err, ErrDisabled):
					slog.Debug("scheduled news ingest skipped", "reason", err)
				case err != nil:
					slog.Error("scheduled news ingest failed", "error", err)
				}
				cancel()
			case <-done:
				return
			}
		}
	}()
}

// ForCompany lists stored news for a company, newest first.
func ForCompany(db *gorm.DB, companyID uuid.UUID, limit int) ([]models.NewsArticle, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	var articles []models.NewsArticle
	err := db.Where("company_id = ?", companyID).
		Order("published_at DESC").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}
