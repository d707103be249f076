package news

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

const (
	DefaultUserAgent = "RateMyEmployer-NewsBot/1.0"
	DefaultMaxItems  = 10
	DefaultTimeout   = 15
)

// Feed is one RSS/Atom source.
type Feed struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Category  string `json:"category"`
	UserAgent string `json:"user_agent"`
	MaxItems  int    `json:"max_items"`
	Timeout   int    `json:"timeout"` // seconds
	Disabled  bool   `json:"disabled"`
}

// FeedsFile is the on-disk layout of the feeds file. Defaults fill in any
// field a feed leaves empty.
type FeedsFile struct {
	Defaults Feed   `json:"defaults"`
	Feeds    []Feed `json:"feeds"`
}

var builtinFeeds = []Feed{
	{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Category: "technology"},
	{Name: "VentureBeat", URL: "https://venturebeat.com/feed/", Category: "technology"},
	{Name: "Business Insider", URL: "https://feeds.businessinsider.com/custom/all", Category: "business"},
	{Name: "Reuters Business", URL: "https://feeds.reuters.com/reuters/businessNews", Category: "business"},
	{Name: "PR Newswire", URL: "https://www.prnewswire.com/rss/news-releases-list.rss", Category: "press-releases"},
}

var builtinDefaults = Feed{
	UserAgent: DefaultUserAgent,
	MaxItems:  DefaultMaxItems,
	Timeout:   DefaultTimeout,
}

type Registry struct {
	mu    sync.RWMutex
	feeds []Feed
}

func NewRegistry(feeds []Feed, defaults Feed) (*Registry, error) {
	if err := mergo.Merge(&defaults, builtinDefaults); err != nil {
		return nil, err
	}

	r := &Registry{}
	for _, f := range feeds {
		if err := mergo.Merge(&f, defaults); err != nil {
			return nil, fmt.Errorf("feed %s: %w", f.Name, err)
		}
		if f.URL == "" {
			return nil, fmt.Errorf("feed %q has no url", f.Name)
		}
		r.feeds = append(r.feeds, f)
	}
	return r, nil
}

// DefaultRegistry holds the built-in feeds.
func DefaultRegistry() *Registry {
	r, _ := NewRegistry(builtinFeeds, Feed{})
	return r
}

// LoadFromFile reads a JSON5 feeds file. A missing file yields the
// built-in feeds.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Info("feeds file not found, using built-in feeds", "path", path)
		return DefaultRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %w", err)
	}

	var file FeedsFile
	if err := json5.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file: %w", err)
	}
	if len(file.Feeds) == 0 {
		file.Feeds = builtinFeeds
	}
	return NewRegistry(file.Feeds, file.Defaults)
}

// Enabled returns the feeds to ingest.
func (r *Registry) Enabled() []Feed {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Feed, 0, len(r.feeds))
	for _, f := range r.feeds {
		if !f.Disabled {
			out = append(out, f)
		}
	}
	return out
}

func (r *Registry) All() []Feed {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Feed(nil), r.feeds...)
}
