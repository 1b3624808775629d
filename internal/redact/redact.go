// Package redact implements blind screening: masking candidate names
// and educational institutions inside rendered HTML fragments. Masking
// operates on text nodes only, so existing markup such as skill
// highlights survives, and already-masked spans are skipped, making
// the operation idempotent.
package redact

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"smarthire/internal/errors"
	"smarthire/internal/extract"
)

// MaskClass marks spans holding redacted content
const MaskClass = "blur-sensitive"

var institutionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:University|College|Institute|School|Academy)\s+of\s+[A-Z][a-zA-Z\s]{2,}`),
	regexp.MustCompile(`(?i)\b[A-Z][a-zA-Z\s]{2,}(?:University|College|Institute|School|Academy)\b`),
	regexp.MustCompile(`(?i)\b(?:MIT|Harvard|Stanford|Yale|Princeton|Columbia|Berkeley|Oxford|Cambridge|Caltech|Cornell|Dartmouth|Duke|Johns\s+Hopkins|Northwestern|UCLA|UC\s+Berkeley|NYU|Carnegie\s+Mellon|Georgia\s+Tech)\b`),
}

// Engine masks identifying details in HTML fragments
type Engine struct {
	extractor extract.ContactExtractor
}

// NewEngine creates a redaction engine using the given extractor to
// discover candidate names
func NewEngine(extractor extract.ContactExtractor) *Engine {
	return &Engine{extractor: extractor}
}

// Redact masks the candidate's name tokens and institution mentions in
// the given HTML fragment. When blind is false the fragment is returned
// unchanged. resumeText is the raw resume used for name discovery.
func (e *Engine) Redact(fragment, resumeText string, blind bool) (string, error) {
	if !blind {
		return fragment, nil
	}

	patterns := make([]*regexp.Regexp, 0, len(institutionPatterns)+1)
	if re := e.namePattern(resumeText); re != nil {
		patterns = append(patterns, re)
	}
	patterns = append(patterns, institutionPatterns...)

	return maskFragment(fragment, patterns)
}

// namePattern builds a pattern matching the candidate's name tokens.
// Tokens shorter than three characters are ignored. Returns nil when
// no usable name was extracted.
func (e *Engine) namePattern(resumeText string) *regexp.Regexp {
	name := e.extractor.Name(resumeText)
	if name == extract.DefaultName {
		return nil
	}

	var tokens []string
	for _, tok := range strings.Fields(name) {
		if len(tok) > 2 {
			tokens = append(tokens, regexp.QuoteMeta(tok))
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(tokens, "|") + `)\b`)
}

func maskFragment(fragment string, patterns []*regexp.Regexp) (string, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return "", errors.NewInternalError(errors.ErrCodeInternal, "failed to parse fragment for redaction", err)
	}

	var buf strings.Builder
	for _, n := range nodes {
		maskNode(n, patterns)
		if err := html.Render(&buf, n); err != nil {
			return "", errors.NewInternalError(errors.ErrCodeInternal, "failed to render redacted fragment", err)
		}
	}
	return buf.String(), nil
}

func maskNode(n *html.Node, patterns []*regexp.Regexp) {
	if n.Type == html.ElementNode && isMaskSpan(n) {
		return
	}
	if n.Type == html.TextNode {
		maskTextNode(n, patterns)
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		maskNode(c, patterns)
		c = next
	}
}

func isMaskSpan(n *html.Node) bool {
	if n.DataAtom != atom.Span {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, cls := range strings.Fields(attr.Val) {
				if cls == MaskClass {
					return true
				}
			}
		}
	}
	return false
}

// maskTextNode replaces n with a sequence of text nodes and mask spans
// covering every pattern match
func maskTextNode(n *html.Node, patterns []*regexp.Regexp) {
	text := n.Data
	spans := collectMatches(text, patterns)
	if len(spans) == 0 {
		return
	}

	parent := n.Parent
	pos := 0
	for _, sp := range spans {
		if sp[0] > pos {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text[pos:sp[0]]}, n)
		}
		mask := &html.Node{
			Type:     html.ElementNode,
			Data:     "span",
			DataAtom: atom.Span,
			Attr:     []html.Attribute{{Key: "class", Val: MaskClass}},
		}
		mask.AppendChild(&html.Node{Type: html.TextNode, Data: text[sp[0]:sp[1]]})
		parent.InsertBefore(mask, n)
		pos = sp[1]
	}
	if pos < len(text) {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text[pos:]}, n)
	}
	parent.RemoveChild(n)
}

// collectMatches returns non-overlapping match ranges across all
// patterns, sorted by start offset. Earlier patterns win overlaps.
func collectMatches(text string, patterns []*regexp.Regexp) [][2]int {
	var spans [][2]int
	for _, re := range patterns {
		for _, m := range re.FindAllStringIndex(text, -1) {
			if !overlaps(spans, m[0], m[1]) {
				spans = append(spans, [2]int{m[0], m[1]})
			}
		}
	}
	// insertion sort, match counts are tiny
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j][0] < spans[j-1][0]; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	return spans
}

func overlaps(spans [][2]int, start, end int) bool {
	for _, sp := range spans {
		if start < sp[1] && end > sp[0] {
			return true
		}
	}
	return false
}
