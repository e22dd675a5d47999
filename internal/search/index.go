package search

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultContentID is the id of the element whose text gets indexed.
const DefaultContentID = "main-content"

// ErrNoContent indicates a page without the indexed content element.
var ErrNoContent = errors.New("content element not found")

// Indexer builds a page's Bloom filter from its rendered HTML.
type Indexer struct {
	Tokenizer         Tokenizer
	FalsePositiveRate float64
	ContentID         string
}

// NewIndexer returns an Indexer using the script segmenter, the default
// content id and rate p (DefaultFalsePositiveRate when p is zero).
func NewIndexer(p float64) *Indexer {
	if p == 0 {
		p = DefaultFalsePositiveRate
	}
	return &Indexer{
		Tokenizer:         ScriptSegmenter{},
		FalsePositiveRate: p,
		ContentID:         DefaultContentID,
	}
}

// Index extracts the text of the content element from page, tokenizes it
// and returns a filter holding every distinct lower-cased token.
func (ix *Indexer) Index(page string) (*Filter, error) {
	text, err := ExtractText(page, ix.ContentID)
	if err != nil {
		return nil, err
	}
	words := ix.Words(text)

	f, err := NewFilter(len(words), ix.FalsePositiveRate)
	if err != nil {
		return nil, err
	}
	for _, w := range words {
		f.Insert(w)
	}
	return f, nil
}

// Words tokenizes text, drops whitespace-only tokens, lower-cases and
// deduplicates, keeping first-seen order.
func (ix *Indexer) Words(text string) []string {
	// A Caser carries state and is not safe for concurrent use.
	lower := cases.Lower(language.Und)

	seen := make(map[string]struct{})
	var words []string
	for _, tok := range ix.Tokenizer.Tokenize(text) {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		w := lower.String(tok)
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

// ExtractText returns the text nodes below the element with the given id,
// joined by single spaces. Script and style contents are skipped.
func ExtractText(page, id string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}
	root := findByID(doc, id)
	if root == nil {
		return "", fmt.Errorf("%w: #%s", ErrNoContent, id)
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, " "), nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
