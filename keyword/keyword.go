// Package keyword holds the process-wide SQL keyword table.
//
// The table is built once at init and never mutated afterwards, so it is
// safe to share between concurrent parses without synchronization. Whether
// a keyword is reserved (may not double as a plain identifier) is a
// per-dialect decision and lives in the dialect package, not here.
package keyword

import "strings"

// Keyword identifies a recognized SQL keyword.
type Keyword int

const (
	// None marks a word that is not a keyword.
	None Keyword = iota

	// Statement-leading keywords
	Select
	Insert
	Update
	Delete
	Create
	Drop
	Raise
	Perform
	Set

	// Clause keywords
	From
	Where
	Group
	By
	Having
	Order
	Limit
	Offset
	Into
	Values
	Returning
	Using

	// Join keywords
	Join
	Inner
	Left
	Right
	Full
	Cross
	Outer
	On

	// Expression keywords
	And
	Or
	Not
	In
	Between
	Like
	Ilike
	Is
	Null
	True
	False
	Exists
	Case
	When
	Then
	Else
	End
	Cast
	As
	Distinct
	All

	// Ordering keywords
	Asc
	Desc

	// DDL keywords
	Table
	If
	Primary
	Key
	Default

	// RAISE level keywords
	Debug
	Log
	Info
	Notice
	Warning
	Exception

	// RAISE payload and option keywords
	Sqlstate
	Message
	Detail
	Hint
	Errcode
	Column
	Constraint
	Datatype
	Schema
)

// spellings maps each keyword to its canonical upper-case spelling.
var spellings = map[Keyword]string{
	Select: "SELECT", Insert: "INSERT", Update: "UPDATE", Delete: "DELETE",
	Create: "CREATE", Drop: "DROP", Raise: "RAISE", Perform: "PERFORM", Set: "SET",
	From: "FROM", Where: "WHERE", Group: "GROUP", By: "BY", Having: "HAVING",
	Order: "ORDER", Limit: "LIMIT", Offset: "OFFSET", Into: "INTO", Values: "VALUES",
	Returning: "RETURNING", Using: "USING",
	Join: "JOIN", Inner: "INNER", Left: "LEFT", Right: "RIGHT", Full: "FULL",
	Cross: "CROSS", Outer: "OUTER", On: "ON",
	And: "AND", Or: "OR", Not: "NOT", In: "IN", Between: "BETWEEN",
	Like: "LIKE", Ilike: "ILIKE", Is: "IS", Null: "NULL", True: "TRUE", False: "FALSE",
	Exists: "EXISTS", Case: "CASE", When: "WHEN", Then: "THEN", Else: "ELSE", End: "END",
	Cast: "CAST", As: "AS", Distinct: "DISTINCT", All: "ALL",
	Asc: "ASC", Desc: "DESC",
	Table: "TABLE", If: "IF", Primary: "PRIMARY", Key: "KEY", Default: "DEFAULT",
	Debug: "DEBUG", Log: "LOG", Info: "INFO", Notice: "NOTICE",
	Warning: "WARNING", Exception: "EXCEPTION",
	Sqlstate: "SQLSTATE", Message: "MESSAGE", Detail: "DETAIL", Hint: "HINT",
	Errcode: "ERRCODE", Column: "COLUMN", Constraint: "CONSTRAINT",
	Datatype: "DATATYPE", Schema: "SCHEMA",
}

var table map[string]Keyword

func init() {
	table = make(map[string]Keyword, len(spellings))
	for kw, spelling := range spellings {
		table[spelling] = kw
	}
}

// Lookup resolves a word to its keyword identity. Matching is
// case-insensitive; the second result is false for non-keywords.
func Lookup(text string) (Keyword, bool) {
	kw, ok := table[strings.ToUpper(text)]
	return kw, ok
}

// String returns the canonical upper-case spelling of the keyword.
func (k Keyword) String() string {
	if s, ok := spellings[k]; ok {
		return s
	}
	return ""
}
