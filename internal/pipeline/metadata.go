package pipeline

import (
	"fmt"
	"slices"

	"github.com/alnah/go-zakki/internal/search"
)

// Flag is a document switch declared in front matter.
type Flag string

const (
	FlagDraft  Flag = "draft"
	FlagCrypto Flag = "crypto"
)

// ParseFlag maps a front matter name to a Flag.
func ParseFlag(s string) (Flag, error) {
	switch f := Flag(s); f {
	case FlagDraft, FlagCrypto:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown flag %q (want draft or crypto)", ErrHeaderParse, s)
	}
}

// PageMetadata is the finished record of one rendered document. It is what
// the site manifest lists; the Bloom filter travels in a parallel manifest.
type PageMetadata struct {
	Create string         `json:"create"`
	Update string         `json:"update"`
	Tags   []string       `json:"tags"`
	Flags  []Flag         `json:"flags"`
	Title  string         `json:"title"`
	Path   string         `json:"path"`
	Bloom  *search.Filter `json:"-"`
}

// HasFlag reports whether the page declared flag.
func (m PageMetadata) HasFlag(flag Flag) bool {
	return slices.Contains(m.Flags, flag)
}
