package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaType classifies a media attachment. Sources that cannot classify
// an attachment fall back to MediaUnknown; this is never an ingestion error.
type MediaType string

const (
	MediaImage   MediaType = "image"
	MediaVideo   MediaType = "video"
	MediaGif     MediaType = "gif"
	MediaUnknown MediaType = "unknown"
)

// Media is a single attachment of a bookmark.
type Media struct {
	URL  string    `json:"url" db:"url"`
	Type MediaType `json:"media_type" db:"media_type"`
}

// Bookmark is the canonical stored unit representing one saved post.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier (UUID v4), assigned at first
	// persistence and never reused after deletion.
	ID string `json:"id" db:"id"`

	// TweetURL is the source URL as imported. Its normalized form
	// (see URLKey) is the natural dedup key.
	TweetURL string `json:"tweet_url" db:"tweet_url"`

	// ─────────────────────────────
	// Content (immutable post-creation)
	// ─────────────────────────────

	Content  string  `json:"content" db:"content"`
	NoteText *string `json:"note_text" db:"note_text"`

	// TweetedAt is the original timestamp of the source post, in UTC.
	TweetedAt time.Time `json:"tweeted_at" db:"tweeted_at"`

	// ImportedAt is set once at ingestion.
	ImportedAt time.Time `json:"imported_at" db:"imported_at"`

	// ─────────────────────────────
	// Author metadata
	// ─────────────────────────────

	AuthorHandle       string  `json:"author_handle" db:"author_handle"`
	AuthorName         string  `json:"author_name" db:"author_name"`
	AuthorProfileURL   *string `json:"author_profile_url" db:"author_profile_url"`
	AuthorProfileImage *string `json:"author_profile_image" db:"author_profile_image"`

	// ─────────────────────────────
	// User data
	// ─────────────────────────────

	// Tags are case-normalized and trimmed before storage.
	Tags     []string `json:"tags"`
	Comments *string  `json:"comments" db:"comments"`

	Media []Media `json:"media"`

	// IsFavorite is the only mutable field post-creation.
	IsFavorite bool `json:"is_favorite" db:"is_favorite"`
}

// NewBookmark builds a bookmark with a fresh ID and import timestamp.
// Tags are normalized; media keep their given order.
func NewBookmark(tweetURL, content string, tweetedAt time.Time, authorHandle, authorName string) *Bookmark {
	if authorName == "" {
		authorName = authorHandle
	}
	return &Bookmark{
		ID:           uuid.NewString(),
		TweetURL:     tweetURL,
		Content:      content,
		TweetedAt:    tweetedAt.UTC(),
		ImportedAt:   time.Now().UTC(),
		AuthorHandle: authorHandle,
		AuthorName:   authorName,
	}
}

// SearchText is the document fed to the full-text index: content, author
// handle and name, note, comments and tags joined with spaces.
func (b *Bookmark) SearchText() string {
	parts := []string{b.Content, b.AuthorHandle, b.AuthorName}
	if b.NoteText != nil {
		parts = append(parts, *b.NoteText)
	}
	if b.Comments != nil {
		parts = append(parts, *b.Comments)
	}
	parts = append(parts, b.Tags...)
	return strings.Join(parts, " ")
}

// TagsText returns the tags joined for the FTS tags column.
func (b *Bookmark) TagsText() string {
	return strings.Join(b.Tags, " ")
}

var (
	hashtagRe = regexp.MustCompile(`#(\w+)`)
	mentionRe = regexp.MustCompile(`@(\w+)`)
)

// Hashtags extracts lowercased hashtags from the content.
func (b *Bookmark) Hashtags() []string {
	return extractGroups(hashtagRe, b.Content)
}

// Mentions extracts lowercased @mentions from the content.
func (b *Bookmark) Mentions() []string {
	return extractGroups(mentionRe, b.Content)
}

func extractGroups(re *regexp.Regexp, s string) []string {
	matches := re.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ToLower(m[1]))
	}
	return out
}

// DetectMediaType infers the attachment type from the URL shape.
// It never fails; unclassifiable URLs are MediaUnknown.
func DetectMediaType(url string) MediaType {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, ".gif") || strings.Contains(lower, "gif"):
		return MediaGif
	case strings.Contains(lower, ".mp4") || strings.Contains(lower, "video"):
		return MediaVideo
	case strings.Contains(lower, ".jpg") || strings.Contains(lower, ".jpeg") ||
		strings.Contains(lower, ".png") || strings.Contains(lower, ".webp") ||
		strings.Contains(lower, "pbs.twimg.com"):
		return MediaImage
	default:
		return MediaUnknown
	}
}

// ParseMediaType converts a stored string back to a MediaType.
func ParseMediaType(s string) MediaType {
	switch MediaType(s) {
	case MediaImage, MediaVideo, MediaGif:
		return MediaType(s)
	default:
		return MediaUnknown
	}
}

// OptionalString maps empty strings to nil for nullable columns.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
