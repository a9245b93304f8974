package sqltoken

// reservedWords is the subset of T-SQL keywords the scanner reports as
// ReservedWordToken. Of these, the chunk builder acts only on "begin" and
// "end"; the rest are emitted like any other word. It is intentionally smaller than a full T-SQL grammar's keyword table —
// this package formats common DDL/DML shapes, not every dialect construct.
var reservedWords = map[string]struct{}{
	"select":     {},
	"from":       {},
	"where":      {},
	"insert":     {},
	"into":       {},
	"update":     {},
	"delete":     {},
	"set":        {},
	"values":     {},
	"create":     {},
	"alter":      {},
	"drop":       {},
	"table":      {},
	"procedure":  {},
	"function":   {},
	"view":       {},
	"begin":      {},
	"end":        {},
	"if":         {},
	"else":       {},
	"while":      {},
	"return":     {},
	"declare":    {},
	"exec":       {},
	"execute":    {},
	"join":       {},
	"inner":      {},
	"left":       {},
	"right":      {},
	"outer":      {},
	"full":       {},
	"cross":      {},
	"on":         {},
	"group":      {},
	"order":      {},
	"by":         {},
	"having":     {},
	"union":      {},
	"distinct":   {},
	"top":        {},
	"as":         {},
	"and":        {},
	"or":         {},
	"not":        {},
	"null":       {},
	"is":         {},
	"in":         {},
	"between":    {},
	"like":       {},
	"case":       {},
	"when":       {},
	"then":       {},
	"commit":     {},
	"rollback":   {},
	"transaction": {},
}
