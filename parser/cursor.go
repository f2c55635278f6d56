package parser

import (
	"github.com/hippiehunter/sqlparser/keyword"
	"github.com/hippiehunter/sqlparser/tokenizer"
)

// cursor walks an immutable token buffer. Whitespace and comments are
// already filtered out; the buffer always ends with an EOF token, so
// peeking past the end keeps returning that sentinel.
type cursor struct {
	tokens []tokenizer.Token
	index  int
}

func newCursor(tokens []tokenizer.Token) *cursor {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != tokenizer.EOF {
		tokens = append(tokens, tokenizer.Token{Type: tokenizer.EOF})
	}
	return &cursor{tokens: tokens}
}

// peek returns the k-th upcoming token without consuming it.
func (c *cursor) peek(k int) tokenizer.Token {
	i := c.index + k
	if i >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}
	return c.tokens[i]
}

// advance consumes and returns the next token. At end of input it keeps
// returning the EOF sentinel.
func (c *cursor) advance() tokenizer.Token {
	token := c.peek(0)
	if c.index < len(c.tokens)-1 {
		c.index++
	}
	return token
}

// prev returns the most recently consumed token.
func (c *cursor) prev() tokenizer.Token {
	if c.index == 0 {
		return tokenizer.Token{}
	}
	return c.tokens[c.index-1]
}

// peekKeyword reports whether the k-th upcoming token is the keyword.
func (c *cursor) peekKeyword(k int, kw keyword.Keyword) bool {
	token := c.peek(k)
	return token.Type == tokenizer.KEYWORD && token.Keyword == kw
}
