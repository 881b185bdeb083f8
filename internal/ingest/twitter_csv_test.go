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

const twitterHeader = "profile_image_url_https,screen_name,name,full_text,note_tweet_text,tweeted_at,tweet_url\n"

func TestTwitterCSVParserValidRow(t *testing.T) {
	input := twitterHeader +
		"https://pbs.twimg.com/jane.jpg,janedoe,Jane Doe,short text,the long note version,2024-05-01T14:51:00Z,https://x.com/jane/status/1\n" +
		",nobody,,bare minimum,,2024-05-01T14:51:00,https://x.com/nobody/status/2\n"

	p, err := NewTwitterCSVParser(strings.NewReader(input))
	require.NoError(t, err)

	b, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "janedoe", b.AuthorHandle)
	assert.Equal(t, "Jane Doe", b.AuthorName)
	assert.Equal(t, "short text", b.Content)
	require.NotNil(t, b.NoteText)
	assert.Equal(t, "the long note version", *b.NoteText)
	assert.Equal(t, time.Date(2024, 5, 1, 14, 51, 0, 0, time.UTC), b.TweetedAt)
	require.NotNil(t, b.AuthorProfileImage)

	// zone-less ISO is read as UTC; missing name falls back to the handle
	b, err = p.Next()
	require.NoError(t, err)
	assert.Equal(t, "nobody", b.AuthorName)
	assert.Nil(t, b.NoteText)
	assert.Equal(t, time.Date(2024, 5, 1, 14, 51, 0, 0, time.UTC), b.TweetedAt)

	_, err = p.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestTwitterCSVParserRowErrors(t *testing.T) {
	input := twitterHeader +
		",janedoe,Jane,x,,garbage-date,https://x.com/jane/status/1\n" +
		",,Jane,x,,2024-05-01T14:51:00Z,https://x.com/jane/status/2\n" +
		",janedoe,Jane,x,,2024-05-01T14:51:00Z,\n"

	p, err := NewTwitterCSVParser(strings.NewReader(input))
	require.NoError(t, err)

	wantReasons := []domain.RowReason{
		domain.ReasonUnparsableDate,
		domain.ReasonMissingField,
		domain.ReasonMissingField,
	}
	for i, want := range wantReasons {
		_, err := p.Next()
		var rowErr *domain.RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, i+1, rowErr.Row)
		assert.Equal(t, want, rowErr.Reason)
	}
}

func TestTwitterCSVParserHeaderRequired(t *testing.T) {
	_, err := NewTwitterCSVParser(strings.NewReader("foo,bar\n"))
	assert.ErrorIs(t, err, domain.ErrUnrecognizedFormat)
}
