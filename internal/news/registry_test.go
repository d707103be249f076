package news

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileMissingUsesBuiltins(t *testing.T) {
	r, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.json5"))
	require.NoError(t, err)

	feeds := r.Enabled()
	require.Len(t, feeds, 5)
	assert.Equal(t, "TechCrunch", feeds[0].Name)
	for _, f := range feeds {
		assert.Equal(t, DefaultUserAgent, f.UserAgent)
		assert.Equal(t, DefaultMaxItems, f.MaxItems)
	}
}

func TestLoadFromFileMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.json5")
	content := `{
  // shared settings
  defaults: { max_items: 3, category: "business" },
  feeds: [
    { name: "Local", url: "http://localhost/feed" },
    { name: "Tech", url: "http://localhost/tech", category: "technology", max_items: 7 },
    { name: "Off", url: "http://localhost/off", disabled: true },
  ],
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, r.All(), 3)

	feeds := r.Enabled()
	require.Len(t, feeds, 2)

	assert.Equal(t, Feed{
		Name: "Local", URL: "http://localhost/feed", Category: "business",
		UserAgent: DefaultUserAgent, MaxItems: 3, Timeout: DefaultTimeout,
	}, feeds[0])
	assert.Equal(t, "technology", feeds[1].Category)
	assert.Equal(t, 7, feeds[1].MaxItems)
}

func TestNewRegistryRejectsFeedWithoutURL(t *testing.T) {
	_, err := NewRegistry([]Feed{{Name: "broken"}}, Feed{})
	assert.Error(t, err)
}
