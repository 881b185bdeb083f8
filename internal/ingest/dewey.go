package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/eterea/eterea/internal/domain"
)

// DeweyParser reads the legacy Dewey export format:
//
//	Tweet Date, Posted By, Profile Pic, Profile URL, Twitter Handle,
//	Tweet URL, Content, Tags, Comments, Media
//
// Tags are comma-separated within their cell, media URLs semicolon-separated.
type DeweyParser struct {
	r    *csv.Reader
	cols map[string]int
	row  int // 1-based data row counter
}

func NewDeweyParser(r io.Reader) (*DeweyParser, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing dewey header: %v", domain.ErrUnrecognizedFormat, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["tweet url"]; !ok {
		return nil, fmt.Errorf("%w: dewey header lacks \"Tweet URL\"", domain.ErrUnrecognizedFormat)
	}

	return &DeweyParser{r: cr, cols: cols}, nil
}

func (p *DeweyParser) Next() (*domain.Bookmark, error) {
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

	tweetURL := get("tweet url")
	handle := get("twitter handle")
	if handle == "" {
		handle = get("handle")
	}
	dateRaw := get("tweet date")

	if tweetURL == "" {
		return nil, domain.NewRowError(p.row, domain.ReasonMissingField, "Tweet URL")
	}
	if handle == "" {
		return nil, domain.NewRowError(p.row, domain.ReasonMissingField, "Twitter Handle")
	}
	if dateRaw == "" {
		return nil, domain.NewRowError(p.row, domain.ReasonMissingField, "Tweet Date")
	}

	tweetedAt, err := parseDeweyDate(dateRaw)
	if err != nil {
		return nil, domain.NewRowError(p.row, domain.ReasonUnparsableDate, dateRaw)
	}

	media, err := parseMediaList(get("media"), ";")
	if err != nil {
		return nil, domain.NewRowError(p.row, domain.ReasonMalformedMedia, get("media"))
	}

	b := domain.NewBookmark(tweetURL, get("content"), tweetedAt, handle, get("posted by"))
	b.AuthorProfileURL = domain.OptionalString(get("profile url"))
	b.AuthorProfileImage = domain.OptionalString(get("profile pic"))
	b.Comments = domain.OptionalString(get("comments"))
	b.Tags = domain.NormalizeTags(strings.Split(get("tags"), ","))
	b.Media = media

	return b, nil
}

// parseMediaList splits a delimited cell of media URLs and infers each
// attachment's type from its URL shape. An entry that is not a URL at all
// is malformed; an unclassifiable type is not.
func parseMediaList(cell, sep string) ([]domain.Media, error) {
	if cell == "" {
		return nil, nil
	}
	var media []domain.Media
	for _, part := range strings.Split(cell, sep) {
		u := strings.TrimSpace(part)
		if u == "" {
			continue
		}
		if !strings.Contains(u, "://") {
			return nil, fmt.Errorf("not a url: %q", u)
		}
		media = append(media, domain.Media{URL: u, Type: domain.DetectMediaType(u)})
	}
	return media, nil
}

func recordValidUTF8(record []string) bool {
	for _, field := range record {
		if !utf8.ValidString(field) {
			return false
		}
	}
	return true
}
