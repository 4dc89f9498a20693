package scrapers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

const sampleFeed = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Campus Job Feed</title>
    <item>
      <title>Software Intern at Acme</title>
      <link>https://jobs.example/acme/1</link>
      <guid>acme-1</guid>
      <description>&lt;p&gt;Build tools with Go.&lt;/p&gt;</description>
      <pubDate>Mon, 02 Mar 2026 09:00:00 -0500</pubDate>
    </item>
    <item>
      <title>Data Intern</title>
      <link>https://jobs.example/globex/2</link>
      <creator>Globex</creator>
    </item>
    <item>
      <title></title>
      <link>https://jobs.example/broken</link>
    </item>
  </channel>
</rss>`

func TestRSS_Scrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	rss := NewRSS(testClient(0), []string{server.URL})
	postings, err := rss.Scrape(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	first := postings[0]
	assert.Equal(t, "rss", first.SourceID)
	assert.Equal(t, "acme-1", first.SourceKey)
	assert.Equal(t, "Software Intern", first.Title)
	assert.Equal(t, "Acme", first.CompanyName)
	assert.Equal(t, "Build tools with Go.", first.Description)
	assert.Equal(t, "https://jobs.example/acme/1", first.ApplyURL)
	require.NotNil(t, first.PostedAt)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), *first.PostedAt)

	second := postings[1]
	assert.Equal(t, "Data Intern", second.Title)
	// No " at Company" in the title, so dc:creator supplies the company.
	assert.Equal(t, "Globex", second.CompanyName)
	// GUID missing, link is the fallback key.
	assert.Equal(t, "https://jobs.example/globex/2", second.SourceKey)
	assert.Nil(t, second.PostedAt)
}

func TestRSS_Scrape_MalformedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<rss><channel><item></rss>"))
	}))
	defer server.Close()

	rss := NewRSS(testClient(0), []string{server.URL})
	_, err := rss.Scrape(context.Background(), Query{})
	require.Error(t, err)

	var formatChanged *models.SourceFormatChangedError
	assert.ErrorAs(t, err, &formatChanged)
}

func TestRSS_Scrape_BudgetTruncates(t *testing.T) {
	served := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	// Three feeds, budget for one request: a truncated result is success.
	rss := NewRSS(testClient(1), []string{server.URL, server.URL, server.URL})
	postings, err := rss.Scrape(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, postings, 2)
	assert.Equal(t, 1, served)
}

func TestSplitTitleCompany(t *testing.T) {
	tests := []struct {
		input   string
		title   string
		company string
	}{
		{"Software Intern at Acme", "Software Intern", "Acme"},
		{"Intern at Acme at Scale", "Intern at Acme", "Scale"},
		{"Software Intern", "Software Intern", ""},
		{" at Acme", "at Acme", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			title, company := splitTitleCompany(tt.input)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.company, company)
		})
	}
}

func TestParsePubDate(t *testing.T) {
	t.Run("rfc1123z", func(t *testing.T) {
		parsed, err := parsePubDate("Mon, 02 Mar 2026 09:00:00 -0500")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("rfc1123", func(t *testing.T) {
		parsed, err := parsePubDate("Mon, 02 Mar 2026 09:00:00 GMT")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), parsed.UTC())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := parsePubDate("yesterday")
		assert.Error(t, err)
	})
}
