// Package extract pulls fenced code blocks out of semi-structured text
// such as README documentation and model responses.
package extract

import (
	"regexp"
	"strings"
)

// DefaultLanguages are the fence tags recognized for Node-runnable code.
var DefaultLanguages = []string{"js", "javascript"}

// Scanner yields the bodies of fenced code blocks matching a set of
// language tags, trimmed of surrounding whitespace, in document order.
// Like bufio.Scanner it is consumed once: after Next returns false it
// stays exhausted.
type Scanner struct {
	doc  string
	re   *regexp.Regexp
	pos  int
	text string
	done bool
}

// NewScanner creates a Scanner over doc for the given fence language
// tags. With no tags it uses DefaultLanguages.
func NewScanner(doc string, langs ...string) *Scanner {
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	quoted := make([]string, len(langs))
	for i, lang := range langs {
		quoted[i] = regexp.QuoteMeta(lang)
	}
	pattern := "(?s)```(?:" + strings.Join(quoted, "|") + ")[ \t]*\r?\n(.*?)```"
	return &Scanner{
		doc: doc,
		re:  regexp.MustCompile(pattern),
	}
}

// Next advances to the next fenced block. It returns false when the
// document is exhausted.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}
	loc := s.re.FindStringSubmatchIndex(s.doc[s.pos:])
	if loc == nil {
		s.done = true
		s.text = ""
		return false
	}
	s.text = strings.TrimSpace(s.doc[s.pos+loc[2] : s.pos+loc[3]])
	s.pos += loc[1]
	return true
}

// Text returns the body of the block found by the last call to Next.
func (s *Scanner) Text() string {
	return s.text
}

// All drains a new Scanner over doc and returns every block body.
// Convenience for callers that want the full batch up front, such as
// parsing a model response.
func All(doc string, langs ...string) []string {
	var blocks []string
	sc := NewScanner(doc, langs...)
	for sc.Next() {
		blocks = append(blocks, sc.Text())
	}
	return blocks
}
