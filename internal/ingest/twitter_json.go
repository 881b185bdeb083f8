package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/eterea/eterea/internal/domain"
)

// TwitterJSONParser reads a JSON archive: a top-level array of objects in
// the standard Twitter API export shape. Key names vary across export
// tools, so most fields accept aliases. Elements are decoded one at a time;
// a malformed element produces a row error, not a failed parse.
type TwitterJSONParser struct {
	dec     *json.Decoder
	started bool
	idx     int // 0-based element index
}

func NewTwitterJSONParser(r io.Reader) (*TwitterJSONParser, error) {
	return &TwitterJSONParser{dec: json.NewDecoder(r), idx: -1}, nil
}

// rawEntry is the union of key spellings seen across archive producers.
type rawEntry struct {
	TweetURL *string `json:"tweet_url"`
	URL      *string `json:"url"`

	FullText *string `json:"full_text"`
	Text     *string `json:"text"`
	Content  *string `json:"content"`

	NoteTweetText *string `json:"note_tweet_text"`

	TweetedAt *string `json:"tweeted_at"`
	CreatedAt *string `json:"created_at"`

	ScreenName   *string `json:"screen_name"`
	AuthorHandle *string `json:"author_handle"`
	Username     *string `json:"username"`

	Name        *string `json:"name"`
	AuthorName  *string `json:"author_name"`
	DisplayName *string `json:"display_name"`

	ProfileImageURLHTTPS *string `json:"profile_image_url_https"`
	ProfileImage         *string `json:"profile_image"`

	Tags []string `json:"tags"`

	Media []rawMedia `json:"media"`
}

type rawMedia struct {
	URL      *string `json:"url"`
	MediaURL *string `json:"media_url"`
	Type     *string `json:"type"`
}

func (p *TwitterJSONParser) Next() (*domain.Bookmark, error) {
	if !p.started {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: not a json array: %v", domain.ErrUnrecognizedFormat, err)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return nil, fmt.Errorf("%w: expected a top-level json array", domain.ErrUnrecognizedFormat)
		}
		p.started = true
	}

	if !p.dec.More() {
		// consume the closing bracket
		if _, err := p.dec.Token(); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: truncated json array: %v", domain.ErrUnrecognizedFormat, err)
		}
		return nil, io.EOF
	}

	p.idx++

	var msg json.RawMessage
	if err := p.dec.Decode(&msg); err != nil {
		// The decoder cannot recover its position after a syntax error
		// mid-array, so this is fatal rather than a row error.
		return nil, fmt.Errorf("%w: malformed json at element %d: %v", domain.ErrUnrecognizedFormat, p.idx, err)
	}

	var raw rawEntry
	if err := json.Unmarshal(msg, &raw); err != nil {
		return nil, domain.NewRowError(p.idx, domain.ReasonEncodingError, string(msg))
	}

	return p.convert(raw, msg)
}

func (p *TwitterJSONParser) convert(raw rawEntry, msg json.RawMessage) (*domain.Bookmark, error) {
	tweetURL := firstOf(raw.TweetURL, raw.URL)
	if tweetURL == "" {
		return nil, domain.NewRowError(p.idx, domain.ReasonMissingField, string(msg))
	}

	handle := firstOf(raw.ScreenName, raw.AuthorHandle, raw.Username)
	if handle == "" {
		return nil, domain.NewRowError(p.idx, domain.ReasonMissingField, string(msg))
	}

	dateRaw := firstOf(raw.TweetedAt, raw.CreatedAt)
	if dateRaw == "" {
		return nil, domain.NewRowError(p.idx, domain.ReasonMissingField, string(msg))
	}
	tweetedAt, err := parseJSONDate(dateRaw)
	if err != nil {
		return nil, domain.NewRowError(p.idx, domain.ReasonUnparsableDate, dateRaw)
	}

	content := firstOf(raw.FullText, raw.Text, raw.Content)
	name := firstOf(raw.Name, raw.AuthorName, raw.DisplayName)

	b := domain.NewBookmark(tweetURL, content, tweetedAt, handle, name)
	b.NoteText = domain.OptionalString(firstOf(raw.NoteTweetText))
	b.AuthorProfileImage = domain.OptionalString(firstOf(raw.ProfileImageURLHTTPS, raw.ProfileImage))
	b.Tags = domain.NormalizeTags(raw.Tags)

	for _, m := range raw.Media {
		u := firstOf(m.URL, m.MediaURL)
		if u == "" {
			return nil, domain.NewRowError(p.idx, domain.ReasonMalformedMedia, string(msg))
		}
		mt := domain.DetectMediaType(u)
		if m.Type != nil {
			if parsed := domain.ParseMediaType(*m.Type); parsed != domain.MediaUnknown {
				mt = parsed
			}
		}
		b.Media = append(b.Media, domain.Media{URL: u, Type: mt})
	}

	return b, nil
}

func firstOf(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}
