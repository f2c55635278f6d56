package parser

import (
	"strings"

	"github.com/hippiehunter/sqlparser/keyword"
	"github.com/hippiehunter/sqlparser/tokenizer"
)

// RaiseLevel is the severity of a RAISE statement. LevelNone means the
// statement carried no level keyword.
type RaiseLevel int

const (
	LevelNone RaiseLevel = iota
	LevelDebug
	LevelLog
	LevelInfo
	LevelNotice
	LevelWarning
	LevelException
)

func (l RaiseLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelLog:
		return "LOG"
	case LevelInfo:
		return "INFO"
	case LevelNotice:
		return "NOTICE"
	case LevelWarning:
		return "WARNING"
	case LevelException:
		return "EXCEPTION"
	default:
		return ""
	}
}

var raiseLevels = map[keyword.Keyword]RaiseLevel{
	keyword.Debug:     LevelDebug,
	keyword.Log:       LevelLog,
	keyword.Info:      LevelInfo,
	keyword.Notice:    LevelNotice,
	keyword.Warning:   LevelWarning,
	keyword.Exception: LevelException,
}

// RaisePayload is what a RAISE statement reports: a format message, a
// named condition, or a SQLSTATE code. Only the message form carries
// arguments; the other two have no argument position at all.
type RaisePayload interface {
	Node
	raisePayloadNode()
}

// RaiseMessage is a format-string payload with its substitution arguments,
// one per % placeholder.
type RaiseMessage struct {
	Format *StringLiteral
	Args   []Expression
	span   tokenizer.Span
}

func (n *RaiseMessage) raisePayloadNode()    {}
func (n *RaiseMessage) Span() tokenizer.Span { return n.span }
func (n *RaiseMessage) String() string {
	var b strings.Builder
	b.WriteString(n.Format.String())
	for _, arg := range n.Args {
		b.WriteString(", " + arg.String())
	}
	return b.String()
}

// RaiseCondition is a condition-name payload (e.g. division_by_zero).
type RaiseCondition struct {
	Name *Ident
}

func (n *RaiseCondition) raisePayloadNode()    {}
func (n *RaiseCondition) Span() tokenizer.Span { return n.Name.Span() }
func (n *RaiseCondition) String() string       { return n.Name.String() }

// RaiseSqlstate is a SQLSTATE 'xxxxx' payload.
type RaiseSqlstate struct {
	Code *StringLiteral
	span tokenizer.Span
}

func (n *RaiseSqlstate) raisePayloadNode()    {}
func (n *RaiseSqlstate) Span() tokenizer.Span { return n.span }
func (n *RaiseSqlstate) String() string       { return "SQLSTATE " + n.Code.String() }

// RaiseOption is a USING option name.
type RaiseOption int

const (
	OptionMessage RaiseOption = iota + 1
	OptionDetail
	OptionHint
	OptionErrcode
	OptionColumn
	OptionConstraint
	OptionDatatype
	OptionTable
	OptionSchema
)

func (o RaiseOption) String() string {
	switch o {
	case OptionMessage:
		return "MESSAGE"
	case OptionDetail:
		return "DETAIL"
	case OptionHint:
		return "HINT"
	case OptionErrcode:
		return "ERRCODE"
	case OptionColumn:
		return "COLUMN"
	case OptionConstraint:
		return "CONSTRAINT"
	case OptionDatatype:
		return "DATATYPE"
	case OptionTable:
		return "TABLE"
	case OptionSchema:
		return "SCHEMA"
	default:
		return "?"
	}
}

var raiseOptions = map[keyword.Keyword]RaiseOption{
	keyword.Message:    OptionMessage,
	keyword.Detail:     OptionDetail,
	keyword.Hint:       OptionHint,
	keyword.Errcode:    OptionErrcode,
	keyword.Column:     OptionColumn,
	keyword.Constraint: OptionConstraint,
	keyword.Datatype:   OptionDatatype,
	keyword.Table:      OptionTable,
	keyword.Schema:     OptionSchema,
}

const raiseOptionNames = "MESSAGE, DETAIL, HINT, ERRCODE, COLUMN, CONSTRAINT, DATATYPE, TABLE, or SCHEMA"

// RaiseUsingItem is one OPTION = expression pair of a USING clause.
type RaiseUsingItem struct {
	Option RaiseOption
	Value  Expression
	span   tokenizer.Span
}

func (n *RaiseUsingItem) Span() tokenizer.Span { return n.span }
func (n *RaiseUsingItem) String() string {
	return n.Option.String() + " = " + n.Value.String()
}

// RaiseStatement reports an error or message. A nil Payload is a bare
// re-raise, only meaningful inside an exception handler.
type RaiseStatement struct {
	Level   RaiseLevel
	Payload RaisePayload
	Using   []*RaiseUsingItem
	span    tokenizer.Span
}

func (n *RaiseStatement) statementNode()       {}
func (n *RaiseStatement) Span() tokenizer.Span { return n.span }
func (n *RaiseStatement) String() string {
	var b strings.Builder
	b.WriteString("RAISE")
	if n.Level != LevelNone {
		b.WriteString(" " + n.Level.String())
	}
	if n.Payload != nil {
		b.WriteString(" " + n.Payload.String())
	}
	if len(n.Using) > 0 {
		b.WriteString(" USING ")
		for i, item := range n.Using {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item.String())
		}
	}
	return b.String()
}

// parseRaise parses RAISE [level] [payload] [USING option = expr, ...].
// The payload form is decided by the shape of the next token: a string
// literal starts a format message, the SQLSTATE keyword starts a code
// payload, and an identifier is a condition name. Argument lists attach
// only to the message form; after a condition or SQLSTATE payload a comma
// is not part of the statement, so it surfaces as an unexpected token.
func (p *Parser) parseRaise() (Statement, error) {
	start := p.advance() // RAISE
	statement := &RaiseStatement{}

	if token := p.peek(0); token.Type == tokenizer.KEYWORD {
		if level, ok := raiseLevels[token.Keyword]; ok {
			p.advance()
			statement.Level = level
		}
	}

	payload, err := p.parseRaisePayload()
	if err != nil {
		return nil, err
	}
	statement.Payload = payload

	if p.peekKeyword(0, keyword.Using) {
		p.advance()
		using, err := p.parseRaiseUsing()
		if err != nil {
			return nil, err
		}
		statement.Using = using
	}

	statement.span = p.spanFrom(start)
	return statement, nil
}

func (p *Parser) parseRaisePayload() (RaisePayload, error) {
	token := p.peek(0)
	switch token.Type {
	case tokenizer.STRING:
		p.advance()
		message := &RaiseMessage{
			Format: &StringLiteral{Value: token.Value, span: token.Span},
			span:   token.Span,
		}
		for p.peek(0).Type == tokenizer.COMMA {
			p.advance()
			arg, err := p.parseExpression(tokenizer.PrecNone)
			if err != nil {
				return nil, err
			}
			message.Args = append(message.Args, arg)
			message.span = message.span.Union(arg.Span())
		}
		return message, nil

	case tokenizer.IDENTIFIER, tokenizer.QUOTED_IDENTIFIER:
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		return &RaiseCondition{Name: name}, nil

	case tokenizer.KEYWORD:
		if token.Keyword == keyword.Sqlstate {
			p.advance()
			code, err := p.expect(tokenizer.STRING, "a SQLSTATE string literal")
			if err != nil {
				return nil, err
			}
			return &RaiseSqlstate{
				Code: &StringLiteral{Value: code.Value, span: code.Span},
				span: token.Span.Union(code.Span),
			}, nil
		}
		// An unreserved keyword other than USING doubles as a condition
		// name.
		if token.Keyword != keyword.Using && !p.dialect.IsReserved(token.Keyword) {
			name, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			return &RaiseCondition{Name: name}, nil
		}
	}

	// Bare re-raise: no payload at all.
	return nil, nil
}

func (p *Parser) parseRaiseUsing() ([]*RaiseUsingItem, error) {
	var items []*RaiseUsingItem
	seen := map[RaiseOption]bool{}

	for {
		token := p.peek(0)
		if token.Type != tokenizer.KEYWORD {
			return nil, unexpectedToken(raiseOptionNames, token)
		}
		option, ok := raiseOptions[token.Keyword]
		if !ok {
			return nil, unexpectedToken(raiseOptionNames, token)
		}
		if seen[option] {
			return nil, unexpectedToken("each RAISE option at most once", token)
		}
		seen[option] = true
		p.advance()

		if _, err := p.expect(tokenizer.EQUAL, "'='"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(tokenizer.PrecNone)
		if err != nil {
			return nil, err
		}
		items = append(items, &RaiseUsingItem{
			Option: option,
			Value:  value,
			span:   token.Span.Union(value.Span()),
		})

		if p.peek(0).Type != tokenizer.COMMA {
			return items, nil
		}
		p.advance()
	}
}
