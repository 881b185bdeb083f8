package ingest

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eterea/eterea/internal/domain"
)

func TestTwitterJSONParserValidEntries(t *testing.T) {
	input := `[
		{
			"tweet_url": "https://x.com/jane/status/1",
			"full_text": "hello from the archive",
			"screen_name": "janedoe",
			"name": "Jane Doe",
			"tweeted_at": "2024-05-01T14:51:00Z",
			"tags": ["Rust", "rust", "wasm"],
			"media": [
				{"url": "https://pbs.twimg.com/a.jpg", "type": "image"},
				{"media_url": "https://video.twimg.com/b.mp4"}
			]
		},
		{
			"url": "https://x.com/bob/status/2",
			"text": "alias keys everywhere",
			"username": "bob",
			"created_at": "Wed Oct 10 20:19:24 +0000 2018"
		}
	]`

	p, err := NewTwitterJSONParser(strings.NewReader(input))
	require.NoError(t, err)

	b, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "https://x.com/jane/status/1", b.TweetURL)
	assert.Equal(t, "janedoe", b.AuthorHandle)
	assert.Equal(t, []string{"rust", "wasm"}, b.Tags)
	require.Len(t, b.Media, 2)
	assert.Equal(t, domain.MediaImage, b.Media[0].Type)
	// no explicit type, inferred from the URL
	assert.Equal(t, domain.MediaVideo, b.Media[1].Type)

	// alias keys and the native twitter date layout
	b, err = p.Next()
	require.NoError(t, err)
	assert.Equal(t, "https://x.com/bob/status/2", b.TweetURL)
	assert.Equal(t, "bob", b.AuthorHandle)
	assert.Equal(t, "bob", b.AuthorName)
	assert.Equal(t, "alias keys everywhere", b.Content)
	assert.Equal(t, time.Date(2018, 10, 10, 20, 19, 24, 0, time.UTC), b.TweetedAt)

	_, err = p.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestTwitterJSONParserRowErrors(t *testing.T) {
	input := `[
		{"screen_name": "jane", "tweeted_at": "2024-05-01T14:51:00Z"},
		{"tweet_url": "https://x.com/a/status/1", "screen_name": "jane", "tweeted_at": "not a date"},
		{"tweet_url": "https://x.com/a/status/2", "screen_name": "jane", "tweeted_at": "2024-05-01T14:51:00Z", "media": [{"type": "image"}]},
		{"tweet_url": "https://x.com/a/status/3", "screen_name": "jane", "tweeted_at": "2024-05-01T14:51:00Z"}
	]`

	p, err := NewTwitterJSONParser(strings.NewReader(input))
	require.NoError(t, err)

	// element indices are 0-based
	wantReasons := []domain.RowReason{
		domain.ReasonMissingField,
		domain.ReasonUnparsableDate,
		domain.ReasonMalformedMedia,
	}
	for i, want := range wantReasons {
		_, err := p.Next()
		var rowErr *domain.RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, i, rowErr.Row)
		assert.Equal(t, want, rowErr.Reason)
	}

	// the stream recovers after each bad element
	b, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "https://x.com/a/status/3", b.TweetURL)

	_, err = p.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestTwitterJSONParserNotAnArray(t *testing.T) {
	p, err := NewTwitterJSONParser(strings.NewReader(`{"tweet_url": "x"}`))
	require.NoError(t, err)

	_, err = p.Next()
	assert.ErrorIs(t, err, domain.ErrUnrecognizedFormat)
}

func TestTwitterJSONParserEmptyArray(t *testing.T) {
	p, err := NewTwitterJSONParser(strings.NewReader(`[]`))
	require.NoError(t, err)

	_, err = p.Next()
	assert.ErrorIs(t, err, io.EOF)
}
