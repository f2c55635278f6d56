// Package parser turns token streams into dialect-aware SQL syntax trees.
//
// The statement layer is a recursive-descent parser dispatching on the
// leading keyword; expressions go through an operator-precedence loop
// driven by the dialect's precedence table. Every node records the source
// span it was built from, so diagnostics and tooling can point back into
// the original text.
package parser

import (
	"github.com/hippiehunter/sqlparser/keyword"
	"github.com/hippiehunter/sqlparser/tokenizer"
)

// DefaultRecursionLimit bounds expression nesting depth when Options
// leaves RecursionLimit unset.
const DefaultRecursionLimit = 200

// Options tunes parser behavior.
type Options struct {
	// RecursionLimit is the maximum expression nesting depth before the
	// parser gives up with ErrNestingTooDeep. Zero means the default.
	RecursionLimit int
}

// Parser parses SQL text for one dialect. A Parser is reusable but not
// safe for concurrent use.
type Parser struct {
	dialect tokenizer.Dialect
	limit   int

	cursor *cursor
	depth  int
}

// NewParser creates a parser for the given dialect.
func NewParser(dialect tokenizer.Dialect, options ...Options) *Parser {
	limit := DefaultRecursionLimit
	if len(options) > 0 && options[0].RecursionLimit > 0 {
		limit = options[0].RecursionLimit
	}
	return &Parser{dialect: dialect, limit: limit}
}

// Parse tokenizes src and parses it as a semicolon-separated sequence of
// statements. Trailing and repeated semicolons are allowed; anything else
// between statements is an error.
func (p *Parser) Parse(src string) ([]Statement, error) {
	tokens, err := tokenizer.NewSqlTokenizer(src, p.dialect, tokenizer.TokenizerOptions{
		SkipWhitespace: true,
		SkipComments:   true,
	}).AllTokens()
	if err != nil {
		return nil, err
	}

	p.cursor = newCursor(tokens)
	p.depth = 0

	var statements []Statement
	for {
		for p.peek(0).Type == tokenizer.SEMICOLON {
			p.advance()
		}
		if p.peek(0).Type == tokenizer.EOF {
			break
		}

		statement, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, statement)

		if next := p.peek(0); next.Type != tokenizer.SEMICOLON && next.Type != tokenizer.EOF {
			return nil, unexpectedToken("';' or end of input", next)
		}
	}
	return statements, nil
}

// ParseStatement parses src as exactly one statement.
func (p *Parser) ParseStatement(src string) (Statement, error) {
	statements, err := p.Parse(src)
	if err != nil {
		return nil, err
	}
	if len(statements) != 1 {
		return nil, unexpectedToken("exactly one statement", p.peek(0))
	}
	return statements[0], nil
}

// Parse is a convenience wrapper around NewParser(dialect).Parse(src).
func Parse(src string, dialect tokenizer.Dialect) ([]Statement, error) {
	return NewParser(dialect).Parse(src)
}

// ParseStatement is a convenience wrapper parsing exactly one statement.
func ParseStatement(src string, dialect tokenizer.Dialect) (Statement, error) {
	return NewParser(dialect).ParseStatement(src)
}

// Cursor plumbing

func (p *Parser) peek(k int) tokenizer.Token { return p.cursor.peek(k) }
func (p *Parser) advance() tokenizer.Token   { return p.cursor.advance() }

func (p *Parser) peekKeyword(k int, kw keyword.Keyword) bool {
	return p.cursor.peekKeyword(k, kw)
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.limit {
		return nestingTooDeep(p.peek(0))
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// expect consumes a token of the given type or fails with an
// unexpected-token error naming what was expected.
func (p *Parser) expect(tokenType tokenizer.TokenType, expected string) (tokenizer.Token, error) {
	token := p.peek(0)
	if token.Type != tokenType {
		return token, unexpectedToken(expected, token)
	}
	return p.advance(), nil
}

// expectKeyword consumes the given keyword or fails.
func (p *Parser) expectKeyword(kw keyword.Keyword) (tokenizer.Token, error) {
	token := p.peek(0)
	if token.Type != tokenizer.KEYWORD || token.Keyword != kw {
		return token, unexpectedToken(kw.String(), token)
	}
	return p.advance(), nil
}

// parseKeyword consumes the keyword if it is next and reports whether it
// did.
func (p *Parser) parseKeyword(kw keyword.Keyword) bool {
	if p.peekKeyword(0, kw) {
		p.advance()
		return true
	}
	return false
}

// parseIdentifier consumes one identifier part. Unquoted identifiers are
// normalized by the dialect's case rule; keywords the dialect does not
// reserve are accepted as identifiers.
func (p *Parser) parseIdentifier() (*Ident, error) {
	token := p.peek(0)
	switch token.Type {
	case tokenizer.IDENTIFIER:
		p.advance()
		return &Ident{Name: p.dialect.Normalize(token.Value), span: token.Span}, nil
	case tokenizer.QUOTED_IDENTIFIER:
		p.advance()
		return &Ident{Name: token.Value, Quote: token.Quote, span: token.Span}, nil
	case tokenizer.KEYWORD:
		if !p.dialect.IsReserved(token.Keyword) {
			p.advance()
			return &Ident{Name: p.dialect.Normalize(token.Value), span: token.Span}, nil
		}
	}
	return nil, unexpectedToken("an identifier", token)
}

// parseCompoundIdent consumes a dot-separated identifier chain.
func (p *Parser) parseCompoundIdent() (*CompoundIdent, error) {
	first, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	compound := &CompoundIdent{Parts: []*Ident{first}}
	for p.peek(0).Type == tokenizer.DOT {
		p.advance()
		part, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		compound.Parts = append(compound.Parts, part)
	}
	return compound, nil
}

// parseOptionalAlias consumes an AS alias, or a bare identifier alias.
// Implicit aliases must be plain identifiers; keywords need an explicit AS
// so that trailing clauses are never swallowed as aliases.
func (p *Parser) parseOptionalAlias() (*Ident, error) {
	if p.parseKeyword(keyword.As) {
		return p.parseIdentifier()
	}
	switch p.peek(0).Type {
	case tokenizer.IDENTIFIER, tokenizer.QUOTED_IDENTIFIER:
		return p.parseIdentifier()
	}
	return nil, nil
}

// Statements

func (p *Parser) parseStatement() (Statement, error) {
	token := p.peek(0)
	if token.Type == tokenizer.KEYWORD {
		switch token.Keyword {
		case keyword.Select:
			return p.parseSelectStatement()
		case keyword.Insert:
			return p.parseInsert()
		case keyword.Update:
			return p.parseUpdate()
		case keyword.Delete:
			return p.parseDelete()
		case keyword.Create:
			return p.parseCreateTable()
		case keyword.Drop:
			return p.parseDropTable()
		case keyword.Raise:
			return p.parseRaise()
		case keyword.Perform:
			return p.parsePerform()
		case keyword.Set:
			return p.parseSet()
		}
	}
	return nil, unexpectedToken("a statement", token)
}

// parseSelectStatement parses a full SELECT, starting at the SELECT
// keyword. Subqueries and EXISTS reuse it.
func (p *Parser) parseSelectStatement() (*SelectStatement, error) {
	start, err := p.expectKeyword(keyword.Select)
	if err != nil {
		return nil, err
	}
	query, err := p.parseQueryBody()
	if err != nil {
		return nil, err
	}
	query.span = start.Span.Union(query.span)
	return query, nil
}

// parseQueryBody parses everything after SELECT (or PERFORM): projection
// and the optional FROM/WHERE/GROUP BY/HAVING/ORDER BY/LIMIT/OFFSET
// clauses.
func (p *Parser) parseQueryBody() (*SelectStatement, error) {
	query := &SelectStatement{}

	if p.parseKeyword(keyword.Distinct) {
		query.Distinct = true
	} else {
		p.parseKeyword(keyword.All)
	}

	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		query.Projection = append(query.Projection, item)
		if p.peek(0).Type != tokenizer.COMMA {
			break
		}
		p.advance()
	}

	if p.parseKeyword(keyword.From) {
		for {
			ref, err := p.parseTableRef()
			if err != nil {
				return nil, err
			}
			query.From = append(query.From, ref)
			if p.peek(0).Type != tokenizer.COMMA {
				break
			}
			p.advance()
		}
	}

	if p.parseKeyword(keyword.Where) {
		where, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		query.Where = where
	}

	if p.peekKeyword(0, keyword.Group) {
		p.advance()
		if _, err := p.expectKeyword(keyword.By); err != nil {
			return nil, err
		}
		for {
			expr, err := p.parseExpression(tokenizer.PrecNone)
			if err != nil {
				return nil, err
			}
			query.GroupBy = append(query.GroupBy, expr)
			if p.peek(0).Type != tokenizer.COMMA {
				break
			}
			p.advance()
		}
	}

	if p.parseKeyword(keyword.Having) {
		having, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		query.Having = having
	}

	if p.peekKeyword(0, keyword.Order) {
		p.advance()
		if _, err := p.expectKeyword(keyword.By); err != nil {
			return nil, err
		}
		for {
			item, err := p.parseOrderByItem()
			if err != nil {
				return nil, err
			}
			query.OrderBy = append(query.OrderBy, item)
			if p.peek(0).Type != tokenizer.COMMA {
				break
			}
			p.advance()
		}
	}

	if p.parseKeyword(keyword.Limit) {
		limit, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		query.Limit = limit
	}

	if p.parseKeyword(keyword.Offset) {
		offset, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		query.Offset = offset
	}

	query.span = p.bodySpan(query)
	return query, nil
}

// bodySpan unions the spans of everything a query body holds.
func (p *Parser) bodySpan(query *SelectStatement) tokenizer.Span {
	var span tokenizer.Span
	for _, item := range query.Projection {
		span = span.Union(item.Span())
	}
	for _, ref := range query.From {
		span = span.Union(ref.Span())
	}
	if query.Where != nil {
		span = span.Union(query.Where.Span())
	}
	for _, expr := range query.GroupBy {
		span = span.Union(expr.Span())
	}
	if query.Having != nil {
		span = span.Union(query.Having.Span())
	}
	for _, item := range query.OrderBy {
		span = span.Union(item.Span())
	}
	if query.Limit != nil {
		span = span.Union(query.Limit.Span())
	}
	if query.Offset != nil {
		span = span.Union(query.Offset.Span())
	}
	return span
}

func (p *Parser) parseSelectItem() (*SelectItem, error) {
	if star := p.peek(0); star.Type == tokenizer.MULTIPLY {
		p.advance()
		return &SelectItem{Expr: &Wildcard{span: star.Span}}, nil
	}

	expr, err := p.parseExpression(tokenizer.PrecNone)
	if err != nil {
		return nil, err
	}
	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	return &SelectItem{Expr: expr, Alias: alias}, nil
}

func (p *Parser) parseOrderByItem() (*OrderByItem, error) {
	expr, err := p.parseExpression(tokenizer.PrecNone)
	if err != nil {
		return nil, err
	}
	item := &OrderByItem{Expr: expr, span: expr.Span()}
	switch {
	case p.peekKeyword(0, keyword.Asc):
		token := p.advance()
		item.Direction = Ascending
		item.span = item.span.Union(token.Span)
	case p.peekKeyword(0, keyword.Desc):
		token := p.advance()
		item.Direction = Descending
		item.span = item.span.Union(token.Span)
	}
	return item, nil
}

// parseTableRef parses one FROM item and folds any trailing joins onto it
// left-associatively.
func (p *Parser) parseTableRef() (TableRef, error) {
	left, err := p.parsePrimaryTableRef()
	if err != nil {
		return nil, err
	}

	for {
		joinType, ok, err := p.parseJoinType()
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}

		right, err := p.parsePrimaryTableRef()
		if err != nil {
			return nil, err
		}
		join := &Join{Left: left, Type: joinType, Right: right}
		if joinType != JoinCross {
			if _, err := p.expectKeyword(keyword.On); err != nil {
				return nil, err
			}
			condition, err := p.parseExpression(tokenizer.PrecNone)
			if err != nil {
				return nil, err
			}
			join.On = condition
		}
		left = join
	}
}

// parseJoinType recognizes JOIN, INNER JOIN, LEFT/RIGHT/FULL [OUTER] JOIN,
// and CROSS JOIN. It reports ok=false without consuming anything when no
// join introducer is next.
func (p *Parser) parseJoinType() (JoinType, bool, error) {
	token := p.peek(0)
	if token.Type != tokenizer.KEYWORD {
		return 0, false, nil
	}

	var joinType JoinType
	switch token.Keyword {
	case keyword.Join:
		p.advance()
		return JoinInner, true, nil
	case keyword.Inner:
		joinType = JoinInner
	case keyword.Left:
		joinType = JoinLeft
	case keyword.Right:
		joinType = JoinRight
	case keyword.Full:
		joinType = JoinFull
	case keyword.Cross:
		joinType = JoinCross
	default:
		return 0, false, nil
	}

	p.advance()
	if joinType != JoinInner && joinType != JoinCross {
		p.parseKeyword(keyword.Outer)
	}
	if _, err := p.expectKeyword(keyword.Join); err != nil {
		return 0, false, err
	}
	return joinType, true, nil
}

func (p *Parser) parsePrimaryTableRef() (TableRef, error) {
	if open := p.peek(0); open.Type == tokenizer.OPENED_PARENS {
		p.advance()
		query, err := p.parseSelectStatement()
		if err != nil {
			return nil, err
		}
		closeParen, err := p.expect(tokenizer.CLOSED_PARENS, "')'")
		if err != nil {
			return nil, err
		}
		alias, err := p.parseOptionalAlias()
		if err != nil {
			return nil, err
		}
		span := open.Span.Union(closeParen.Span)
		if alias != nil {
			span = span.Union(alias.Span())
		}
		return &DerivedTable{Query: query, Alias: alias, span: span}, nil
	}

	name, err := p.parseCompoundIdent()
	if err != nil {
		return nil, err
	}
	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	return &TableName{Name: name, Alias: alias}, nil
}

func (p *Parser) parseInsert() (Statement, error) {
	start := p.advance() // INSERT
	if _, err := p.expectKeyword(keyword.Into); err != nil {
		return nil, err
	}
	table, err := p.parseCompoundIdent()
	if err != nil {
		return nil, err
	}
	statement := &InsertStatement{Table: table}

	if p.peek(0).Type == tokenizer.OPENED_PARENS {
		p.advance()
		for {
			column, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			statement.Columns = append(statement.Columns, column)
			if p.peek(0).Type != tokenizer.COMMA {
				break
			}
			p.advance()
		}
		if _, err := p.expect(tokenizer.CLOSED_PARENS, "')'"); err != nil {
			return nil, err
		}
	}

	switch {
	case p.parseKeyword(keyword.Values):
		for {
			if _, err := p.expect(tokenizer.OPENED_PARENS, "'('"); err != nil {
				return nil, err
			}
			var row []Expression
			for {
				value, err := p.parseExpression(tokenizer.PrecNone)
				if err != nil {
					return nil, err
				}
				row = append(row, value)
				if p.peek(0).Type != tokenizer.COMMA {
					break
				}
				p.advance()
			}
			if _, err := p.expect(tokenizer.CLOSED_PARENS, "')'"); err != nil {
				return nil, err
			}
			statement.Rows = append(statement.Rows, row)
			if p.peek(0).Type != tokenizer.COMMA {
				break
			}
			p.advance()
		}
	case p.peekKeyword(0, keyword.Select):
		query, err := p.parseSelectStatement()
		if err != nil {
			return nil, err
		}
		statement.Query = query
	default:
		return nil, unexpectedToken("VALUES or SELECT", p.peek(0))
	}

	returning, err := p.parseReturning()
	if err != nil {
		return nil, err
	}
	statement.Returning = returning
	statement.span = p.spanFrom(start)
	return statement, nil
}

func (p *Parser) parseUpdate() (Statement, error) {
	start := p.advance() // UPDATE
	table, err := p.parseTableNameWithAlias()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(keyword.Set); err != nil {
		return nil, err
	}

	statement := &UpdateStatement{Table: table}
	for {
		target, err := p.parseCompoundIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenizer.EQUAL, "'='"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		statement.Assignments = append(statement.Assignments, &Assignment{Target: target, Value: value})
		if p.peek(0).Type != tokenizer.COMMA {
			break
		}
		p.advance()
	}

	if p.parseKeyword(keyword.Where) {
		where, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		statement.Where = where
	}

	returning, err := p.parseReturning()
	if err != nil {
		return nil, err
	}
	statement.Returning = returning
	statement.span = p.spanFrom(start)
	return statement, nil
}

func (p *Parser) parseDelete() (Statement, error) {
	start := p.advance() // DELETE
	if _, err := p.expectKeyword(keyword.From); err != nil {
		return nil, err
	}
	table, err := p.parseTableNameWithAlias()
	if err != nil {
		return nil, err
	}

	statement := &DeleteStatement{Table: table}
	if p.parseKeyword(keyword.Where) {
		where, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		statement.Where = where
	}

	returning, err := p.parseReturning()
	if err != nil {
		return nil, err
	}
	statement.Returning = returning
	statement.span = p.spanFrom(start)
	return statement, nil
}

func (p *Parser) parseTableNameWithAlias() (*TableName, error) {
	name, err := p.parseCompoundIdent()
	if err != nil {
		return nil, err
	}
	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	return &TableName{Name: name, Alias: alias}, nil
}

// parseReturning parses an optional RETURNING clause. Dialects without the
// feature reject it as an unsupported construct.
func (p *Parser) parseReturning() ([]*SelectItem, error) {
	token := p.peek(0)
	if token.Type != tokenizer.KEYWORD || token.Keyword != keyword.Returning {
		return nil, nil
	}
	if !p.dialect.Supports(tokenizer.FeatureReturning) {
		return nil, unsupportedConstruct("the RETURNING clause", p.dialect.Name(), token)
	}
	p.advance()

	var items []*SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.peek(0).Type != tokenizer.COMMA {
			break
		}
		p.advance()
	}
	return items, nil
}

func (p *Parser) parseCreateTable() (Statement, error) {
	start := p.advance() // CREATE
	if _, err := p.expectKeyword(keyword.Table); err != nil {
		return nil, err
	}
	name, err := p.parseCompoundIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenizer.OPENED_PARENS, "'('"); err != nil {
		return nil, err
	}

	statement := &CreateTableStatement{Name: name}
	for {
		column, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		statement.Columns = append(statement.Columns, column)
		if p.peek(0).Type != tokenizer.COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tokenizer.CLOSED_PARENS, "')'"); err != nil {
		return nil, err
	}
	statement.span = p.spanFrom(start)
	return statement, nil
}

func (p *Parser) parseColumnDef() (*ColumnDef, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	columnType, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	column := &ColumnDef{Name: name, Type: columnType}
	span := name.Span().Union(columnType.Span())

	for {
		token := p.peek(0)
		if token.Type != tokenizer.KEYWORD {
			break
		}
		switch token.Keyword {
		case keyword.Not:
			p.advance()
			nullToken, err := p.expectKeyword(keyword.Null)
			if err != nil {
				return nil, err
			}
			column.NotNull = true
			span = span.Union(nullToken.Span)
		case keyword.Primary:
			p.advance()
			keyToken, err := p.expectKeyword(keyword.Key)
			if err != nil {
				return nil, err
			}
			column.PrimaryKey = true
			span = span.Union(keyToken.Span)
		case keyword.Default:
			p.advance()
			value, err := p.parseExpression(tokenizer.PrecNone)
			if err != nil {
				return nil, err
			}
			column.Default = value
			span = span.Union(value.Span())
		default:
			column.span = span
			return column, nil
		}
	}
	column.span = span
	return column, nil
}

func (p *Parser) parseDropTable() (Statement, error) {
	start := p.advance() // DROP
	if _, err := p.expectKeyword(keyword.Table); err != nil {
		return nil, err
	}

	statement := &DropTableStatement{}
	if p.peekKeyword(0, keyword.If) {
		p.advance()
		if _, err := p.expectKeyword(keyword.Exists); err != nil {
			return nil, err
		}
		statement.IfExists = true
	}

	for {
		name, err := p.parseCompoundIdent()
		if err != nil {
			return nil, err
		}
		statement.Names = append(statement.Names, name)
		if p.peek(0).Type != tokenizer.COMMA {
			break
		}
		p.advance()
	}
	statement.span = p.spanFrom(start)
	return statement, nil
}

// parsePerform parses PERFORM, which takes a full query body and discards
// the result.
func (p *Parser) parsePerform() (Statement, error) {
	start := p.advance() // PERFORM
	query, err := p.parseQueryBody()
	if err != nil {
		return nil, err
	}
	return &PerformStatement{Query: query, span: start.Span.Union(query.span)}, nil
}

func (p *Parser) parseSet() (Statement, error) {
	start := p.advance() // SET
	target, err := p.parseCompoundIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenizer.EQUAL, "'='"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(tokenizer.PrecNone)
	if err != nil {
		return nil, err
	}
	return &SetStatement{Target: target, Value: value, span: p.spanFrom(start)}, nil
}

// spanFrom unions the span of the statement's first token with that of
// the most recently consumed token.
func (p *Parser) spanFrom(start tokenizer.Token) tokenizer.Span {
	return start.Span.Union(p.cursor.prev().Span)
}
