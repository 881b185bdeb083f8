package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/eterea/eterea/internal/domain"
)

// TwitterCSVParser reads the Twitter/X export format:
//
//	profile_image_url_https, screen_name, name, full_text,
//	note_tweet_text, tweeted_at, tweet_url
type TwitterCSVParser struct {
	r    *csv.Reader
	cols map[string]int
	row  int
}

func NewTwitterCSVParser(r io.Reader) (*TwitterCSVParser, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing twitter csv header: %v", domain.ErrUnrecognizedFormat, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["tweet_url"]; !ok {
		return nil, fmt.Errorf("%w: twitter csv header lacks \"tweet_url\"", domain.ErrUnrecognizedFormat)
	}

	return &TwitterCSVParser{r: cr, cols: cols}, nil
}

func (p *TwitterCSVParser) Next() (*domain.Bookmark, error) {
	record, err := p.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.row++
	if err != nil {
		return nil, domain.NewRowError(p.row, domain.ReasonEncodingError, err.Error())
	}

	get := func(name string) string {
		idx, ok := p.cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	if !recordValidUTF8(record) {
		return nil, domain.NewRowError(p.row, domain.ReasonEncodingError, strings.Join(record, ","))
	}

	tweetURL := get("tweet_url")
	handle := get("screen_name")
	dateRaw := get("tweeted_at")

	if tweetURL == "" {
		return nil, domain.NewRowError(p.row, domain.ReasonMissingField, "tweet_url")
	}
	if handle == "" {
		return nil, domain.NewRowError(p.row, domain.ReasonMissingField, "screen_name")
	}
	if dateRaw == "" {
		return nil, domain.NewRowError(p.row, domain.ReasonMissingField, "tweeted_at")
	}

	tweetedAt, err := parseISODate(dateRaw)
	if err != nil {
		return nil, domain.NewRowError(p.row, domain.ReasonUnparsableDate, dateRaw)
	}

	b := domain.NewBookmark(tweetURL, get("full_text"), tweetedAt, handle, get("name"))
	b.NoteText = domain.OptionalString(get("note_tweet_text"))
	b.AuthorProfileImage = domain.OptionalString(get("profile_image_url_https"))

	return b, nil
}
