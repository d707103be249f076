package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Test feed</title>
<item>
  <title>Globex opens new office</title>
  <link>https://news.example.com/globex-office</link>
  <description>&lt;p&gt;The &lt;b&gt;Globex&lt;/b&gt; team &amp;amp; partners celebrate.&lt;/p&gt;</description>
  <pubDate>Mon, 02 Sep 2024 10:00:00 GMT</pubDate>
</item>
<item>
  <title>Unrelated weather story</title>
  <link>https://news.example.com/weather</link>
  <description>Rain expected.</description>
</item>
<item>
  <title>Initech quarterly results</title>
  <link>https://news.example.com/initech</link>
  <description>Numbers are up.</description>
</item>
</channel></rss>`

func TestIngesterRun(t *testing.T) {
	db := testutil.OpenDB(t)
	globex := testutil.CreateCompany(t, db, "Globex Corporation")
	initech := testutil.CreateCompany(t, db, "Initech")

	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssBody))
	}))
	defer srv.Close()

	registry, err := NewRegistry([]Feed{{Name: "Test", URL: srv.URL, Category: "business"}}, Feed{})
	require.NoError(t, err)

	in := NewIngester(db, registry)
	resp, err := in.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotAgent)
	assert.Equal(t, 1, resp.Feeds)
	assert.Equal(t, 3, resp.Items)
	assert.Equal(t, 2, resp.Stored)
	assert.Empty(t, resp.Errors)

	articles, err := ForCompany(db, globex.ID, 10)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Globex opens new office", articles[0].Title)
	assert.Equal(t, "The Globex team & partners celebrate.", articles[0].Description)
	assert.Equal(t, "Test", articles[0].SourceName)
	assert.Equal(t, 2024, articles[0].PublishedAt.Year())

	articles, err = ForCompany(db, initech.ID, 10)
	require.NoError(t, err)
	assert.Len(t, articles, 1)

	// A second run upserts by URL instead of duplicating.
	_, err = in.Run(context.Background())
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.NewsArticle{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestIngesterRunSkipsFailingFeed(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.CreateCompany(t, db, "Globex")

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssBody))
	}))
	defer good.Close()

	registry, err := NewRegistry([]Feed{
		{Name: "Bad", URL: bad.URL},
		{Name: "Good", URL: good.URL},
	}, Feed{})
	require.NoError(t, err)

	resp, err := NewIngester(db, registry).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Feeds)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "Bad")
	assert.Equal(t, 1, resp.Stored)
}

func TestMatchCompanyIgnoresShortWords(t *testing.T) {
	companies := []companyMatcher{{name: "HP Co", words: nil}, {name: "Acme", words: []string{"acme"}}}
	assert.Nil(t, matchCompany("HP co announces", companies))
	m := matchCompany("Big news from ACME today", companies)
	require.NotNil(t, m)
	assert.Equal(t, "Acme", m.name)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Hello & welcome", StripHTML("<p>Hello &amp; <i>welcome</i></p>"))
	assert.Equal(t, "", StripHTML(""))
}

func TestIngesterGate(t *testing.T) {
	db := testutil.OpenDB(t)

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(rssBody))
	}))
	defer srv.Close()

	registry, err := NewRegistry([]Feed{{Name: "Test", URL: srv.URL}}, Feed{})
	require.NoError(t, err)

	open := false
	in := NewIngester(db, registry)
	in.SetGate(func() bool { return open })

	_, err = in.Run(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Zero(t, hits)

	open = true
	resp, err := in.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Feeds)
	assert.Equal(t, 1, hits)
}
