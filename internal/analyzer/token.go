package analyzer

import (
	"strings"

	"github.com/Digital-Shane/title-lens/internal/media"
)

// token is a word at a fixed position of a normalized file name, together
// with the number of names that carry the same word at the same position.
type token struct {
	position int
	word     string
	count    int
}

type tokenKey struct {
	position int
	word     string
}

// tokenTable counts positional tokens and remembers first-seen order.
type tokenTable struct {
	order []*token
	index map[tokenKey]*token
}

func newTokenTable() *tokenTable {
	return &tokenTable{index: make(map[tokenKey]*token)}
}

func (t *tokenTable) add(position int, word string) {
	key := tokenKey{position: position, word: word}
	if tok, ok := t.index[key]; ok {
		tok.count++
		return
	}
	tok := &token{position: position, word: word, count: 1}
	t.index[key] = tok
	t.order = append(t.order, tok)
}

// addName splits a normalized name on single spaces and counts every word.
// Empty words produced by repeated separators are counted as well.
func (t *tokenTable) addName(name string) {
	for pos, word := range strings.Split(media.Normalize(name), " ") {
		t.add(pos, word)
	}
}

// prefix walks the tokens in first-seen order and joins every token up to the
// first one seen in a single name. Each joined word is followed by a space.
// It reports false when the first token is already unique, or when no token
// is unique at all, in which case no boundary exists.
func (t *tokenTable) prefix() (string, bool) {
	last := -1
	for i, tok := range t.order {
		if tok.count <= 1 {
			last = i - 1
			break
		}
	}
	if last < 0 {
		return "", false
	}

	var b strings.Builder
	for _, tok := range t.order[:last+1] {
		b.WriteString(tok.word)
		b.WriteByte(' ')
	}
	return b.String(), true
}
