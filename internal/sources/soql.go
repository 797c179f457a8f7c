package sources

import (
	"fmt"
	"strconv"
	"strings"
)

// Predicate builds a SoQL $where clause from conjunctive conditions. User
// input only enters through the escaping helpers, preserving the upstream's
// case-insensitive substring semantics without the injection risk of raw
// string interpolation.
type Predicate struct {
	clauses []string
}

// escapeSoQLString doubles single quotes so a term can't terminate the
// string literal it is embedded in.
func escapeSoQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// escapeLikeTerm additionally strips the LIKE wildcards, since SoQL has no
// ESCAPE clause. A literal % or _ in an entity name would otherwise widen
// the match.
func escapeLikeTerm(s string) string {
	s = escapeSoQLString(s)
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// LikeUpper adds a case-insensitive substring match on one column.
func (p *Predicate) LikeUpper(column, term string) {
	p.clauses = append(p.clauses,
		fmt.Sprintf("UPPER(%s) LIKE '%%%s%%'", column, escapeLikeTerm(strings.ToUpper(term))))
}

// AnyLikeUpper adds a disjunction of substring matches across columns,
// wrapped in parentheses so it conjoins cleanly with other clauses.
func (p *Predicate) AnyLikeUpper(columns []string, term string) {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts,
			fmt.Sprintf("UPPER(%s) LIKE '%%%s%%'", col, escapeLikeTerm(strings.ToUpper(term))))
	}
	p.clauses = append(p.clauses, "("+strings.Join(parts, " OR ")+")")
}

// EqString adds an exact match against a string column.
func (p *Predicate) EqString(column, value string) {
	p.clauses = append(p.clauses, fmt.Sprintf("%s = '%s'", column, escapeSoQLString(value)))
}

// EqNumber adds an exact match against a numeric column.
func (p *Predicate) EqNumber(column string, value int) {
	p.clauses = append(p.clauses, fmt.Sprintf("%s = %d", column, value))
}

// GteNumber adds a numeric floor. The value is rendered in plain decimal
// notation; SoQL does not parse scientific notation.
func (p *Predicate) GteNumber(column string, value float64) {
	p.clauses = append(p.clauses, fmt.Sprintf("%s >= %s", column, strconv.FormatFloat(value, 'f', -1, 64)))
}

// OrEqString adds a disjunction of exact matches on several columns, wrapped
// in parentheses so it conjoins cleanly with other clauses.
func (p *Predicate) OrEqString(columns []string, value string) {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%s = '%s'", col, escapeSoQLString(value)))
	}
	p.clauses = append(p.clauses, "("+strings.Join(parts, " OR ")+")")
}

// String joins the clauses with AND for the $where parameter.
func (p *Predicate) String() string {
	return strings.Join(p.clauses, " AND ")
}

// Empty reports whether no clauses have been added.
func (p *Predicate) Empty() bool { return len(p.clauses) == 0 }
