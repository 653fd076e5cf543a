package lists

import (
	"iter"
	"strings"

	"golang.org/x/net/html"
)

// Kind classifies a Token by its role in list structure.
type Kind int

const (
	// Other is any text, comment, entity or tag that is not a list tag.
	Other Kind = iota
	// ListOpen is a <ul> or <ol> start tag.
	ListOpen
	// ListClose is a </ul> or </ol> end tag.
	ListClose
	// ItemOpen is a <li> start tag.
	ItemOpen
	// ItemClose is a </li> end tag.
	ItemClose
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other"
	case ListOpen:
		return "list-open"
	case ListClose:
		return "list-close"
	case ItemOpen:
		return "item-open"
	case ItemClose:
		return "item-close"
	}
	return "unknown"
}

// Token is a span of the source fragment. Concatenating the Raw text of all tokens yields the
// original source.
type Token struct {
	Kind Kind

	// Raw is the exact source text of the token.
	Raw string

	// Name is the tag name as spelled in the source, e.g. "UL" or "li". It is empty for Other.
	Name string

	// Offset is the byte offset of the token in the source.
	Offset int
}

// IsTag reports whether the token is one of the list tags.
func (t Token) IsTag() bool {
	return t.Kind != Other
}

// Tokens returns the token sequence of src. The sequence is lazy and can be ranged over any
// number of times; each iteration scans src from the start.
//
// The scanning is done by the golang.org/x/net/html tokenizer, so comments, raw text elements
// (script, style, textarea, title...) and malformed markup are recognized the same way a browser
// tokenizer recognizes them. Only ul, ol and li tags are classified; everything else is Other.
func Tokens(src string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		z := html.NewTokenizer(strings.NewReader(src))
		offset := 0

		for {
			tt := z.Next()
			if tt == html.ErrorToken {
				break
			}

			// Raw must be copied before TagName: TagName lowercases the buffer in place.
			raw := string(z.Raw())
			tok := Token{Kind: Other, Raw: raw, Offset: offset}

			switch tt {
			case html.StartTagToken, html.SelfClosingTagToken:
				name, _ := z.TagName()
				tok.Kind, tok.Name = classify(raw, 1, name, ListOpen, ItemOpen)
			case html.EndTagToken:
				name, _ := z.TagName()
				tok.Kind, tok.Name = classify(raw, 2, name, ListClose, ItemClose)
			}

			offset += len(raw)
			if !yield(tok) {
				return
			}
		}

		// A tag truncated by the end of input is reported by the tokenizer as an error rather
		// than a token. Keep it as opaque text.
		if offset < len(src) {
			yield(Token{Kind: Other, Raw: src[offset:], Offset: offset})
		}
	}
}

// classify maps a lowercased tag name to a token kind. The literal name is sliced from raw at
// prefix ("<" or "</") so the source casing is kept.
func classify(raw string, prefix int, name []byte, list, item Kind) (Kind, string) {
	var k Kind
	switch string(name) {
	case "ul", "ol":
		k = list
	case "li":
		k = item
	default:
		return Other, ""
	}
	if len(raw) < prefix+len(name) {
		return Other, ""
	}
	return k, raw[prefix : prefix+len(name)]
}

// isSpace reports whether b is HTML whitespace.
func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// isBlank reports whether s is empty or consists of HTML whitespace only.
func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			return false
		}
	}
	return true
}
