package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hippiehunter/sqlparser/tokenizer"
)

// Node is the read-only surface every AST node exposes: a source span and
// a canonical rendering. The span of a composite node is the union of the
// spans of the tokens and sub-nodes it was built from; nodes with no
// concrete source text report an empty span.
type Node interface {
	fmt.Stringer
	Span() tokenizer.Span
}

// Expression is an expression tree node.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a statement tree node.
type Statement interface {
	Node
	statementNode()
}

func unionSpans(spans ...tokenizer.Span) tokenizer.Span {
	var result tokenizer.Span
	for _, s := range spans {
		result = result.Union(s)
	}
	return result
}

// quoteString renders a string literal with doubled-quote escaping.
func quoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// Expression nodes

// NumberLiteral is a numeric literal with exact decimal semantics.
type NumberLiteral struct {
	Value decimal.Decimal
	span  tokenizer.Span
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) Span() tokenizer.Span { return n.span }
func (n *NumberLiteral) String() string       { return n.Value.String() }

// StringLiteral is a single-quoted string literal; Value holds the
// unescaped content.
type StringLiteral struct {
	Value string
	span  tokenizer.Span
}

func (n *StringLiteral) expressionNode()      {}
func (n *StringLiteral) Span() tokenizer.Span { return n.span }
func (n *StringLiteral) String() string       { return quoteString(n.Value) }

// BooleanLiteral is TRUE or FALSE.
type BooleanLiteral struct {
	Value bool
	span  tokenizer.Span
}

func (n *BooleanLiteral) expressionNode()      {}
func (n *BooleanLiteral) Span() tokenizer.Span { return n.span }
func (n *BooleanLiteral) String() string {
	if n.Value {
		return "TRUE"
	}
	return "FALSE"
}

// NullLiteral is the NULL keyword.
type NullLiteral struct {
	span tokenizer.Span
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) Span() tokenizer.Span { return n.span }
func (n *NullLiteral) String() string       { return "NULL" }

// Ident is a single identifier part. Quote is the quoting rune used in
// the source (0 for unquoted identifiers, which are normalized by the
// dialect's case rule).
type Ident struct {
	Name  string
	Quote rune
	span  tokenizer.Span
}

func (n *Ident) expressionNode()      {}
func (n *Ident) Span() tokenizer.Span { return n.span }
func (n *Ident) String() string {
	if n.Quote != 0 {
		quote := string(n.Quote)
		return quote + strings.ReplaceAll(n.Name, quote, quote+quote) + quote
	}
	return n.Name
}

// CompoundIdent is a dot-separated identifier reference (a, a.b, a.b.c).
type CompoundIdent struct {
	Parts []*Ident
}

func (n *CompoundIdent) expressionNode() {}
func (n *CompoundIdent) Span() tokenizer.Span {
	var span tokenizer.Span
	for _, part := range n.Parts {
		span = span.Union(part.Span())
	}
	return span
}
func (n *CompoundIdent) String() string {
	parts := make([]string, len(n.Parts))
	for i, part := range n.Parts {
		parts[i] = part.String()
	}
	return strings.Join(parts, ".")
}

// Wildcard is the bare * projection item.
type Wildcard struct {
	span tokenizer.Span
}

func (n *Wildcard) expressionNode()      {}
func (n *Wildcard) Span() tokenizer.Span { return n.span }
func (n *Wildcard) String() string       { return "*" }

// QualifiedWildcard is a table-qualified wildcard (t.*).
type QualifiedWildcard struct {
	Qualifier *CompoundIdent
	span      tokenizer.Span
}

func (n *QualifiedWildcard) expressionNode()      {}
func (n *QualifiedWildcard) Span() tokenizer.Span { return n.span }
func (n *QualifiedWildcard) String() string       { return n.Qualifier.String() + ".*" }

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	UnaryMinus UnaryOp = iota + 1
	UnaryPlus
	UnaryNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryMinus:
		return "-"
	case UnaryPlus:
		return "+"
	case UnaryNot:
		return "NOT"
	default:
		return "?"
	}
}

// UnaryExpr applies a prefix operator to an operand.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expression
	opSpan  tokenizer.Span
}

func (n *UnaryExpr) expressionNode() {}
func (n *UnaryExpr) Span() tokenizer.Span {
	return n.opSpan.Union(n.Operand.Span())
}
func (n *UnaryExpr) String() string {
	if n.Op == UnaryNot {
		return "NOT " + n.Operand.String()
	}
	operand := n.Operand.String()
	// "--" would re-lex as a line comment.
	if n.Op == UnaryMinus && strings.HasPrefix(operand, "-") {
		return "- " + operand
	}
	return n.Op.String() + operand
}

// BinaryOp is an infix operator.
type BinaryOp int

const (
	OpPlus BinaryOp = iota + 1
	OpMinus
	OpMultiply
	OpDivide
	OpModulo
	OpConcat
	OpEq
	OpNotEq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	case OpConcat:
		return "||"
	case OpEq:
		return "="
	case OpNotEq:
		return "<>"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLtEq:
		return "<="
	case OpGtEq:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	default:
		return "?"
	}
}

// BinaryExpr is a binary operation. The tree shape already encodes the
// dialect's precedence and associativity; rendering never needs to
// re-parenthesize because explicit parentheses survive as Nested nodes.
type BinaryExpr struct {
	Left  Expression
	Op    BinaryOp
	Right Expression
}

func (n *BinaryExpr) expressionNode() {}
func (n *BinaryExpr) Span() tokenizer.Span {
	return n.Left.Span().Union(n.Right.Span())
}
func (n *BinaryExpr) String() string {
	return n.Left.String() + " " + n.Op.String() + " " + n.Right.String()
}

// Nested is an explicitly parenthesized sub-expression.
type Nested struct {
	Inner Expression
	span  tokenizer.Span
}

func (n *Nested) expressionNode()      {}
func (n *Nested) Span() tokenizer.Span { return n.span.Union(n.Inner.Span()) }
func (n *Nested) String() string       { return "(" + n.Inner.String() + ")" }

// FunctionCall is a function invocation with a comma-separated argument
// list; COUNT(*) carries a Wildcard argument.
type FunctionCall struct {
	Name *CompoundIdent
	Args []Expression
	span tokenizer.Span
}

func (n *FunctionCall) expressionNode()      {}
func (n *FunctionCall) Span() tokenizer.Span { return n.span }
func (n *FunctionCall) String() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.String()
	}
	return n.Name.String() + "(" + strings.Join(args, ", ") + ")"
}

// TypeName is a type reference in CAST expressions and column definitions.
type TypeName struct {
	Name string
	Args []string // length/precision arguments, raw digits
	span tokenizer.Span
}

func (n *TypeName) Span() tokenizer.Span { return n.span }
func (n *TypeName) String() string {
	name := strings.ToUpper(n.Name)
	if len(n.Args) == 0 {
		return name
	}
	return name + "(" + strings.Join(n.Args, ", ") + ")"
}

// CastExpr converts an expression to a type, rendered either as
// CAST(x AS t) or the :: operator depending on how it was written.
type CastExpr struct {
	Expr     Expression
	Type     *TypeName
	Operator bool // written with ::
	span     tokenizer.Span
}

func (n *CastExpr) expressionNode()      {}
func (n *CastExpr) Span() tokenizer.Span { return n.span }
func (n *CastExpr) String() string {
	if n.Operator {
		return n.Expr.String() + "::" + n.Type.String()
	}
	return "CAST(" + n.Expr.String() + " AS " + n.Type.String() + ")"
}

// WhenClause is one WHEN ... THEN ... arm of a CASE expression.
type WhenClause struct {
	Condition Expression
	Result    Expression
}

func (n *WhenClause) Span() tokenizer.Span {
	return n.Condition.Span().Union(n.Result.Span())
}
func (n *WhenClause) String() string {
	return "WHEN " + n.Condition.String() + " THEN " + n.Result.String()
}

// CaseExpr is a CASE expression; Operand and Else may be nil.
type CaseExpr struct {
	Operand Expression
	Whens   []*WhenClause
	Else    Expression
	span    tokenizer.Span
}

func (n *CaseExpr) expressionNode()      {}
func (n *CaseExpr) Span() tokenizer.Span { return n.span }
func (n *CaseExpr) String() string {
	var b strings.Builder
	b.WriteString("CASE")
	if n.Operand != nil {
		b.WriteString(" " + n.Operand.String())
	}
	for _, when := range n.Whens {
		b.WriteString(" " + when.String())
	}
	if n.Else != nil {
		b.WriteString(" ELSE " + n.Else.String())
	}
	b.WriteString(" END")
	return b.String()
}

// LikeExpr is a [NOT] LIKE / ILIKE pattern match.
type LikeExpr struct {
	Expr            Expression
	Pattern         Expression
	Negated         bool
	CaseInsensitive bool // ILIKE
}

func (n *LikeExpr) expressionNode() {}
func (n *LikeExpr) Span() tokenizer.Span {
	return n.Expr.Span().Union(n.Pattern.Span())
}
func (n *LikeExpr) String() string {
	op := "LIKE"
	if n.CaseInsensitive {
		op = "ILIKE"
	}
	if n.Negated {
		op = "NOT " + op
	}
	return n.Expr.String() + " " + op + " " + n.Pattern.String()
}

// IsTarget is the right-hand side of an IS test.
type IsTarget int

const (
	IsNull IsTarget = iota + 1
	IsTrue
	IsFalse
)

func (t IsTarget) String() string {
	switch t {
	case IsNull:
		return "NULL"
	case IsTrue:
		return "TRUE"
	case IsFalse:
		return "FALSE"
	default:
		return "?"
	}
}

// IsExpr is an IS [NOT] NULL/TRUE/FALSE test.
type IsExpr struct {
	Expr    Expression
	Negated bool
	Target  IsTarget
	span    tokenizer.Span
}

func (n *IsExpr) expressionNode()      {}
func (n *IsExpr) Span() tokenizer.Span { return n.span }
func (n *IsExpr) String() string {
	if n.Negated {
		return n.Expr.String() + " IS NOT " + n.Target.String()
	}
	return n.Expr.String() + " IS " + n.Target.String()
}

// InExpr is a [NOT] IN test against a value list or a subquery. Exactly
// one of List and Subquery is set.
type InExpr struct {
	Expr     Expression
	Negated  bool
	List     []Expression
	Subquery *SelectStatement
	span     tokenizer.Span
}

func (n *InExpr) expressionNode()      {}
func (n *InExpr) Span() tokenizer.Span { return n.span }
func (n *InExpr) String() string {
	var b strings.Builder
	b.WriteString(n.Expr.String())
	if n.Negated {
		b.WriteString(" NOT")
	}
	b.WriteString(" IN (")
	if n.Subquery != nil {
		b.WriteString(n.Subquery.String())
	} else {
		for i, item := range n.List {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item.String())
		}
	}
	b.WriteString(")")
	return b.String()
}

// BetweenExpr is a [NOT] BETWEEN range test.
type BetweenExpr struct {
	Expr    Expression
	Negated bool
	Low     Expression
	High    Expression
}

func (n *BetweenExpr) expressionNode() {}
func (n *BetweenExpr) Span() tokenizer.Span {
	return unionSpans(n.Expr.Span(), n.Low.Span(), n.High.Span())
}
func (n *BetweenExpr) String() string {
	op := "BETWEEN"
	if n.Negated {
		op = "NOT BETWEEN"
	}
	return n.Expr.String() + " " + op + " " + n.Low.String() + " AND " + n.High.String()
}

// ExistsExpr is an EXISTS (subquery) test.
type ExistsExpr struct {
	Query *SelectStatement
	span  tokenizer.Span
}

func (n *ExistsExpr) expressionNode()      {}
func (n *ExistsExpr) Span() tokenizer.Span { return n.span }
func (n *ExistsExpr) String() string       { return "EXISTS (" + n.Query.String() + ")" }

// SubqueryExpr is a scalar subquery in parentheses.
type SubqueryExpr struct {
	Query *SelectStatement
	span  tokenizer.Span
}

func (n *SubqueryExpr) expressionNode()      {}
func (n *SubqueryExpr) Span() tokenizer.Span { return n.span }
func (n *SubqueryExpr) String() string       { return "(" + n.Query.String() + ")" }

// Table references

// TableRef is an item of a FROM clause.
type TableRef interface {
	Node
	tableRefNode()
}

// TableName references a table, optionally aliased.
type TableName struct {
	Name  *CompoundIdent
	Alias *Ident
}

func (n *TableName) tableRefNode() {}
func (n *TableName) Span() tokenizer.Span {
	span := n.Name.Span()
	if n.Alias != nil {
		span = span.Union(n.Alias.Span())
	}
	return span
}
func (n *TableName) String() string {
	if n.Alias != nil {
		return n.Name.String() + " AS " + n.Alias.String()
	}
	return n.Name.String()
}

// DerivedTable is a parenthesized subquery in a FROM clause.
type DerivedTable struct {
	Query *SelectStatement
	Alias *Ident
	span  tokenizer.Span
}

func (n *DerivedTable) tableRefNode()        {}
func (n *DerivedTable) Span() tokenizer.Span { return n.span }
func (n *DerivedTable) String() string {
	if n.Alias != nil {
		return "(" + n.Query.String() + ") AS " + n.Alias.String()
	}
	return "(" + n.Query.String() + ")"
}

// JoinType classifies a join.
type JoinType int

const (
	JoinInner JoinType = iota + 1
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

func (t JoinType) String() string {
	switch t {
	case JoinInner:
		return "INNER JOIN"
	case JoinLeft:
		return "LEFT JOIN"
	case JoinRight:
		return "RIGHT JOIN"
	case JoinFull:
		return "FULL JOIN"
	case JoinCross:
		return "CROSS JOIN"
	default:
		return "JOIN"
	}
}

// Join combines two table references; On is nil for CROSS joins.
type Join struct {
	Left  TableRef
	Type  JoinType
	Right TableRef
	On    Expression
}

func (n *Join) tableRefNode() {}
func (n *Join) Span() tokenizer.Span {
	span := n.Left.Span().Union(n.Right.Span())
	if n.On != nil {
		span = span.Union(n.On.Span())
	}
	return span
}
func (n *Join) String() string {
	s := n.Left.String() + " " + n.Type.String() + " " + n.Right.String()
	if n.On != nil {
		s += " ON " + n.On.String()
	}
	return s
}

// Statements

// SelectItem is one projection item, optionally aliased.
type SelectItem struct {
	Expr  Expression
	Alias *Ident
}

func (n *SelectItem) Span() tokenizer.Span {
	span := n.Expr.Span()
	if n.Alias != nil {
		span = span.Union(n.Alias.Span())
	}
	return span
}
func (n *SelectItem) String() string {
	if n.Alias != nil {
		return n.Expr.String() + " AS " + n.Alias.String()
	}
	return n.Expr.String()
}

// Direction is an ORDER BY direction.
type Direction int

const (
	DirectionNone Direction = iota
	Ascending
	Descending
)

// OrderByItem is one ORDER BY term.
type OrderByItem struct {
	Expr      Expression
	Direction Direction
	span      tokenizer.Span
}

func (n *OrderByItem) Span() tokenizer.Span { return n.span }
func (n *OrderByItem) String() string {
	switch n.Direction {
	case Ascending:
		return n.Expr.String() + " ASC"
	case Descending:
		return n.Expr.String() + " DESC"
	default:
		return n.Expr.String()
	}
}

// SelectStatement is a SELECT query.
type SelectStatement struct {
	Distinct   bool
	Projection []*SelectItem
	From       []TableRef
	Where      Expression
	GroupBy    []Expression
	Having     Expression
	OrderBy    []*OrderByItem
	Limit      Expression
	Offset     Expression
	span       tokenizer.Span
}

func (n *SelectStatement) statementNode()       {}
func (n *SelectStatement) Span() tokenizer.Span { return n.span }

// writeBody renders everything after the SELECT keyword. PERFORM shares
// this rendering.
func (n *SelectStatement) writeBody(b *strings.Builder) {
	if n.Distinct {
		b.WriteString("DISTINCT ")
	}
	for i, item := range n.Projection {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	if len(n.From) > 0 {
		b.WriteString(" FROM ")
		for i, ref := range n.From {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ref.String())
		}
	}
	if n.Where != nil {
		b.WriteString(" WHERE " + n.Where.String())
	}
	if len(n.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		for i, expr := range n.GroupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(expr.String())
		}
	}
	if n.Having != nil {
		b.WriteString(" HAVING " + n.Having.String())
	}
	if len(n.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, item := range n.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item.String())
		}
	}
	if n.Limit != nil {
		b.WriteString(" LIMIT " + n.Limit.String())
	}
	if n.Offset != nil {
		b.WriteString(" OFFSET " + n.Offset.String())
	}
}

func (n *SelectStatement) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	n.writeBody(&b)
	return b.String()
}

func writeReturning(b *strings.Builder, items []*SelectItem) {
	if len(items) == 0 {
		return
	}
	b.WriteString(" RETURNING ")
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
}

// InsertStatement is an INSERT with either VALUES rows or a source query.
type InsertStatement struct {
	Table     *CompoundIdent
	Columns   []*Ident
	Rows      [][]Expression
	Query     *SelectStatement
	Returning []*SelectItem
	span      tokenizer.Span
}

func (n *InsertStatement) statementNode()       {}
func (n *InsertStatement) Span() tokenizer.Span { return n.span }
func (n *InsertStatement) String() string {
	var b strings.Builder
	b.WriteString("INSERT INTO " + n.Table.String())
	if len(n.Columns) > 0 {
		b.WriteString(" (")
		for i, col := range n.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(col.String())
		}
		b.WriteString(")")
	}
	if n.Query != nil {
		b.WriteString(" " + n.Query.String())
	} else {
		b.WriteString(" VALUES ")
		for i, row := range n.Rows {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			for j, value := range row {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(value.String())
			}
			b.WriteString(")")
		}
	}
	writeReturning(&b, n.Returning)
	return b.String()
}

// Assignment is one SET target = value pair.
type Assignment struct {
	Target *CompoundIdent
	Value  Expression
}

func (n *Assignment) Span() tokenizer.Span {
	return n.Target.Span().Union(n.Value.Span())
}
func (n *Assignment) String() string {
	return n.Target.String() + " = " + n.Value.String()
}

// UpdateStatement is an UPDATE.
type UpdateStatement struct {
	Table       *TableName
	Assignments []*Assignment
	Where       Expression
	Returning   []*SelectItem
	span        tokenizer.Span
}

func (n *UpdateStatement) statementNode()       {}
func (n *UpdateStatement) Span() tokenizer.Span { return n.span }
func (n *UpdateStatement) String() string {
	var b strings.Builder
	b.WriteString("UPDATE " + n.Table.String() + " SET ")
	for i, assignment := range n.Assignments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(assignment.String())
	}
	if n.Where != nil {
		b.WriteString(" WHERE " + n.Where.String())
	}
	writeReturning(&b, n.Returning)
	return b.String()
}

// DeleteStatement is a DELETE.
type DeleteStatement struct {
	Table     *TableName
	Where     Expression
	Returning []*SelectItem
	span      tokenizer.Span
}

func (n *DeleteStatement) statementNode()       {}
func (n *DeleteStatement) Span() tokenizer.Span { return n.span }
func (n *DeleteStatement) String() string {
	var b strings.Builder
	b.WriteString("DELETE FROM " + n.Table.String())
	if n.Where != nil {
		b.WriteString(" WHERE " + n.Where.String())
	}
	writeReturning(&b, n.Returning)
	return b.String()
}

// ColumnDef is one column definition in CREATE TABLE.
type ColumnDef struct {
	Name       *Ident
	Type       *TypeName
	NotNull    bool
	PrimaryKey bool
	Default    Expression
	span       tokenizer.Span
}

func (n *ColumnDef) Span() tokenizer.Span { return n.span }
func (n *ColumnDef) String() string {
	var b strings.Builder
	b.WriteString(n.Name.String() + " " + n.Type.String())
	if n.NotNull {
		b.WriteString(" NOT NULL")
	}
	if n.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if n.Default != nil {
		b.WriteString(" DEFAULT " + n.Default.String())
	}
	return b.String()
}

// CreateTableStatement is a CREATE TABLE.
type CreateTableStatement struct {
	Name    *CompoundIdent
	Columns []*ColumnDef
	span    tokenizer.Span
}

func (n *CreateTableStatement) statementNode()       {}
func (n *CreateTableStatement) Span() tokenizer.Span { return n.span }
func (n *CreateTableStatement) String() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE " + n.Name.String() + " (")
	for i, col := range n.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col.String())
	}
	b.WriteString(")")
	return b.String()
}

// DropTableStatement is a DROP TABLE.
type DropTableStatement struct {
	IfExists bool
	Names    []*CompoundIdent
	span     tokenizer.Span
}

func (n *DropTableStatement) statementNode()       {}
func (n *DropTableStatement) Span() tokenizer.Span { return n.span }
func (n *DropTableStatement) String() string {
	var b strings.Builder
	b.WriteString("DROP TABLE ")
	if n.IfExists {
		b.WriteString("IF EXISTS ")
	}
	for i, name := range n.Names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name.String())
	}
	return b.String()
}

// PerformStatement evaluates a query for its side effects, discarding the
// result set.
type PerformStatement struct {
	Query *SelectStatement
	span  tokenizer.Span
}

func (n *PerformStatement) statementNode()       {}
func (n *PerformStatement) Span() tokenizer.Span { return n.span }
func (n *PerformStatement) String() string {
	var b strings.Builder
	b.WriteString("PERFORM ")
	n.Query.writeBody(&b)
	return b.String()
}

// SetStatement assigns a value to a settable target.
type SetStatement struct {
	Target *CompoundIdent
	Value  Expression
	span   tokenizer.Span
}

func (n *SetStatement) statementNode()       {}
func (n *SetStatement) Span() tokenizer.Span { return n.span }
func (n *SetStatement) String() string {
	return "SET " + n.Target.String() + " = " + n.Value.String()
}
