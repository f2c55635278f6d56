package parser

import (
	"github.com/shopspring/decimal"

	"github.com/hippiehunter/sqlparser/keyword"
	"github.com/hippiehunter/sqlparser/tokenizer"
)

// binaryOps maps symbol token types to AST operators.
var binaryOps = map[tokenizer.TokenType]BinaryOp{
	tokenizer.EQUAL:         OpEq,
	tokenizer.NOT_EQUAL:     OpNotEq,
	tokenizer.LESS_THAN:     OpLt,
	tokenizer.GREATER_THAN:  OpGt,
	tokenizer.LESS_EQUAL:    OpLtEq,
	tokenizer.GREATER_EQUAL: OpGtEq,
	tokenizer.PLUS:          OpPlus,
	tokenizer.MINUS:         OpMinus,
	tokenizer.MULTIPLY:      OpMultiply,
	tokenizer.DIVIDE:        OpDivide,
	tokenizer.MODULO:        OpModulo,
	tokenizer.CONCAT:        OpConcat,
}

// parseExpression is the Pratt loop: read one prefix expression, then fold
// infix/postfix operators whose dialect precedence reaches minPrec.
// Left-associative operators recurse one level above their own precedence
// so that equal-precedence neighbors fold leftward.
func (p *Parser) parseExpression(minPrec int) (Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		token := p.peek(0)
		prec := p.dialect.Precedence(token)
		if prec == tokenizer.PrecNone || prec < minPrec {
			return left, nil
		}

		left, err = p.parseInfix(left, prec)
		if err != nil {
			return nil, err
		}
	}
}

// parsePrefix reads one primary expression: a literal, an identifier
// reference or function call, a unary-prefixed expression, or a
// parenthesized sub-expression or subquery.
func (p *Parser) parsePrefix() (Expression, error) {
	token := p.peek(0)

	switch token.Type {
	case tokenizer.NUMBER:
		p.advance()
		value, err := decimal.NewFromString(token.Value)
		if err != nil {
			return nil, unexpectedToken("a numeric literal", token)
		}
		return &NumberLiteral{Value: value, span: token.Span}, nil

	case tokenizer.STRING:
		p.advance()
		return &StringLiteral{Value: token.Value, span: token.Span}, nil

	case tokenizer.IDENTIFIER, tokenizer.QUOTED_IDENTIFIER:
		return p.parseIdentifierExpr()

	case tokenizer.MINUS:
		p.advance()
		operand, err := p.parseExpression(tokenizer.PrecUnary)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: UnaryMinus, Operand: operand, opSpan: token.Span}, nil

	case tokenizer.PLUS:
		p.advance()
		operand, err := p.parseExpression(tokenizer.PrecUnary)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: UnaryPlus, Operand: operand, opSpan: token.Span}, nil

	case tokenizer.OPENED_PARENS:
		open := p.advance()
		if p.peekKeyword(0, keyword.Select) {
			query, err := p.parseSelectStatement()
			if err != nil {
				return nil, err
			}
			closeParen, err := p.expect(tokenizer.CLOSED_PARENS, "')'")
			if err != nil {
				return nil, err
			}
			return &SubqueryExpr{Query: query, span: open.Span.Union(closeParen.Span)}, nil
		}
		inner, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		closeParen, err := p.expect(tokenizer.CLOSED_PARENS, "')'")
		if err != nil {
			return nil, err
		}
		return &Nested{Inner: inner, span: open.Span.Union(closeParen.Span)}, nil

	case tokenizer.KEYWORD:
		switch token.Keyword {
		case keyword.Null:
			p.advance()
			return &NullLiteral{span: token.Span}, nil
		case keyword.True:
			p.advance()
			return &BooleanLiteral{Value: true, span: token.Span}, nil
		case keyword.False:
			p.advance()
			return &BooleanLiteral{Value: false, span: token.Span}, nil
		case keyword.Case:
			return p.parseCase()
		case keyword.Cast:
			return p.parseCastFunction()
		case keyword.Exists:
			return p.parseExists()
		case keyword.Not:
			p.advance()
			operand, err := p.parseExpression(tokenizer.PrecNot)
			if err != nil {
				return nil, err
			}
			return &UnaryExpr{Op: UnaryNot, Operand: operand, opSpan: token.Span}, nil
		}
		// Keywords the dialect does not reserve double as identifiers.
		if !p.dialect.IsReserved(token.Keyword) {
			return p.parseIdentifierExpr()
		}
		return nil, unexpectedToken("an expression", token)

	default:
		return nil, unexpectedToken("an expression", token)
	}
}

// parseInfix folds one infix or postfix operator into left. The operator's
// precedence is already known to reach the caller's minimum.
func (p *Parser) parseInfix(left Expression, prec int) (Expression, error) {
	token := p.peek(0)

	if token.Type == tokenizer.KEYWORD {
		switch token.Keyword {
		case keyword.And, keyword.Or:
			p.advance()
			right, err := p.parseExpression(prec + 1)
			if err != nil {
				return nil, err
			}
			op := OpAnd
			if token.Keyword == keyword.Or {
				op = OpOr
			}
			return &BinaryExpr{Left: left, Op: op, Right: right}, nil

		case keyword.Like, keyword.Ilike:
			return p.parseLikeSuffix(left, false, prec)

		case keyword.In:
			p.advance()
			return p.parseInSuffix(left, false)

		case keyword.Between:
			p.advance()
			return p.parseBetweenSuffix(left, false, prec)

		case keyword.Is:
			return p.parseIsSuffix(left)

		case keyword.Not:
			// Infix NOT introduces only NOT LIKE / NOT ILIKE / NOT IN /
			// NOT BETWEEN.
			next := p.peek(1)
			if next.Type != tokenizer.KEYWORD {
				return nil, unexpectedToken("LIKE, ILIKE, IN, or BETWEEN after NOT", next)
			}
			switch next.Keyword {
			case keyword.Like, keyword.Ilike:
				p.advance() // NOT
				return p.parseLikeSuffix(left, true, prec)
			case keyword.In:
				p.advance() // NOT
				p.advance() // IN
				return p.parseInSuffix(left, true)
			case keyword.Between:
				p.advance() // NOT
				p.advance() // BETWEEN
				return p.parseBetweenSuffix(left, true, prec)
			default:
				return nil, unexpectedToken("LIKE, ILIKE, IN, or BETWEEN after NOT", next)
			}
		}
	}

	if token.Type == tokenizer.DOUBLE_COLON {
		if !p.dialect.Supports(tokenizer.FeatureCastOperator) {
			return nil, unsupportedConstruct("the :: cast operator", p.dialect.Name(), token)
		}
		p.advance()
		typeName, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		return &CastExpr{
			Expr:     left,
			Type:     typeName,
			Operator: true,
			span:     left.Span().Union(typeName.Span()),
		}, nil
	}

	op, ok := binaryOps[token.Type]
	if !ok {
		return nil, unexpectedToken("an operator", token)
	}
	p.advance()
	right, err := p.parseExpression(prec + 1)
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Left: left, Op: op, Right: right}, nil
}

func (p *Parser) parseLikeSuffix(left Expression, negated bool, prec int) (Expression, error) {
	token := p.advance() // LIKE or ILIKE
	caseInsensitive := token.Keyword == keyword.Ilike
	if caseInsensitive && !p.dialect.Supports(tokenizer.FeatureIlike) {
		return nil, unsupportedConstruct("the ILIKE operator", p.dialect.Name(), token)
	}

	pattern, err := p.parseExpression(prec + 1)
	if err != nil {
		return nil, err
	}
	return &LikeExpr{
		Expr:            left,
		Pattern:         pattern,
		Negated:         negated,
		CaseInsensitive: caseInsensitive,
	}, nil
}

func (p *Parser) parseInSuffix(left Expression, negated bool) (Expression, error) {
	if _, err := p.expect(tokenizer.OPENED_PARENS, "'('"); err != nil {
		return nil, err
	}

	expr := &InExpr{Expr: left, Negated: negated}
	if p.peekKeyword(0, keyword.Select) {
		query, err := p.parseSelectStatement()
		if err != nil {
			return nil, err
		}
		expr.Subquery = query
	} else {
		for {
			item, err := p.parseExpression(tokenizer.PrecNone)
			if err != nil {
				return nil, err
			}
			expr.List = append(expr.List, item)
			if p.peek(0).Type != tokenizer.COMMA {
				break
			}
			p.advance()
		}
	}

	closeParen, err := p.expect(tokenizer.CLOSED_PARENS, "')'")
	if err != nil {
		return nil, err
	}
	expr.span = left.Span().Union(closeParen.Span)
	return expr, nil
}

func (p *Parser) parseBetweenSuffix(left Expression, negated bool, prec int) (Expression, error) {
	low, err := p.parseExpression(prec + 1)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(keyword.And); err != nil {
		return nil, err
	}
	high, err := p.parseExpression(prec + 1)
	if err != nil {
		return nil, err
	}
	return &BetweenExpr{Expr: left, Negated: negated, Low: low, High: high}, nil
}

func (p *Parser) parseIsSuffix(left Expression) (Expression, error) {
	p.advance() // IS
	negated := p.parseKeyword(keyword.Not)

	token := p.peek(0)
	var target IsTarget
	switch {
	case token.Type == tokenizer.KEYWORD && token.Keyword == keyword.Null:
		target = IsNull
	case token.Type == tokenizer.KEYWORD && token.Keyword == keyword.True:
		target = IsTrue
	case token.Type == tokenizer.KEYWORD && token.Keyword == keyword.False:
		target = IsFalse
	default:
		return nil, unexpectedToken("NULL, TRUE, or FALSE", token)
	}
	p.advance()

	return &IsExpr{
		Expr:    left,
		Negated: negated,
		Target:  target,
		span:    left.Span().Union(token.Span),
	}, nil
}

// parseIdentifierExpr parses a possibly compound identifier reference and
// the constructs hanging off one: a qualified wildcard or a function call.
func (p *Parser) parseIdentifierExpr() (Expression, error) {
	first, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	compound := &CompoundIdent{Parts: []*Ident{first}}
	for p.peek(0).Type == tokenizer.DOT {
		if p.peek(1).Type == tokenizer.MULTIPLY {
			p.advance() // .
			star := p.advance()
			return &QualifiedWildcard{
				Qualifier: compound,
				span:      compound.Span().Union(star.Span),
			}, nil
		}
		p.advance()
		part, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		compound.Parts = append(compound.Parts, part)
	}

	if p.peek(0).Type == tokenizer.OPENED_PARENS {
		return p.parseFunctionCall(compound)
	}
	return compound, nil
}

func (p *Parser) parseFunctionCall(name *CompoundIdent) (Expression, error) {
	p.advance() // (

	call := &FunctionCall{Name: name}
	if p.peek(0).Type != tokenizer.CLOSED_PARENS {
		for {
			if star := p.peek(0); star.Type == tokenizer.MULTIPLY {
				p.advance()
				call.Args = append(call.Args, &Wildcard{span: star.Span})
			} else {
				arg, err := p.parseExpression(tokenizer.PrecNone)
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
			}
			if p.peek(0).Type != tokenizer.COMMA {
				break
			}
			p.advance()
		}
	}

	closeParen, err := p.expect(tokenizer.CLOSED_PARENS, "')'")
	if err != nil {
		return nil, err
	}
	call.span = name.Span().Union(closeParen.Span)
	return call, nil
}

func (p *Parser) parseCase() (Expression, error) {
	caseToken := p.advance()
	expr := &CaseExpr{}

	if !p.peekKeyword(0, keyword.When) {
		operand, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		expr.Operand = operand
	}

	for p.parseKeyword(keyword.When) {
		condition, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword(keyword.Then); err != nil {
			return nil, err
		}
		result, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		expr.Whens = append(expr.Whens, &WhenClause{Condition: condition, Result: result})
	}
	if len(expr.Whens) == 0 {
		return nil, unexpectedToken("WHEN", p.peek(0))
	}

	if p.parseKeyword(keyword.Else) {
		alternative, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		expr.Else = alternative
	}

	endToken, err := p.expectKeyword(keyword.End)
	if err != nil {
		return nil, err
	}
	expr.span = caseToken.Span.Union(endToken.Span)
	return expr, nil
}

func (p *Parser) parseCastFunction() (Expression, error) {
	castToken := p.advance()
	if _, err := p.expect(tokenizer.OPENED_PARENS, "'('"); err != nil {
		return nil, err
	}
	inner, err := p.parseExpression(tokenizer.PrecNone)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(keyword.As); err != nil {
		return nil, err
	}
	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	closeParen, err := p.expect(tokenizer.CLOSED_PARENS, "')'")
	if err != nil {
		return nil, err
	}
	return &CastExpr{
		Expr: inner,
		Type: typeName,
		span: castToken.Span.Union(closeParen.Span),
	}, nil
}

func (p *Parser) parseExists() (Expression, error) {
	existsToken := p.advance()
	if _, err := p.expect(tokenizer.OPENED_PARENS, "'('"); err != nil {
		return nil, err
	}
	query, err := p.parseSelectStatement()
	if err != nil {
		return nil, err
	}
	closeParen, err := p.expect(tokenizer.CLOSED_PARENS, "')'")
	if err != nil {
		return nil, err
	}
	return &ExistsExpr{Query: query, span: existsToken.Span.Union(closeParen.Span)}, nil
}

// parseTypeName parses a type reference with optional length/precision
// arguments, e.g. VARCHAR(20) or DECIMAL(10, 2).
func (p *Parser) parseTypeName() (*TypeName, error) {
	token := p.peek(0)
	isWord := token.Type == tokenizer.IDENTIFIER ||
		(token.Type == tokenizer.KEYWORD && !p.dialect.IsReserved(token.Keyword))
	if !isWord {
		return nil, unexpectedToken("a type name", token)
	}
	p.advance()

	typeName := &TypeName{Name: token.Value, span: token.Span}
	if p.peek(0).Type == tokenizer.OPENED_PARENS {
		p.advance()
		for {
			arg, err := p.expect(tokenizer.NUMBER, "a type length")
			if err != nil {
				return nil, err
			}
			typeName.Args = append(typeName.Args, arg.Value)
			if p.peek(0).Type != tokenizer.COMMA {
				break
			}
			p.advance()
		}
		closeParen, err := p.expect(tokenizer.CLOSED_PARENS, "')'")
		if err != nil {
			return nil, err
		}
		typeName.span = typeName.span.Union(closeParen.Span)
	}
	return typeName, nil
}
