package mysql

import "strings"

// Conditions accumulates a WHERE clause. Empty values are skipped so a zero
// filter selects everything.
type Conditions struct {
	clauses []string
	args    []any
}

func (c *Conditions) Equal(column, value string) {
	if value == "" {
		return
	}
	c.clauses = append(c.clauses, column+" = ?")
	c.args = append(c.args, value)
}

// Contains matches value as a substring of any of columns.
func (c *Conditions) Contains(value string, columns ...string) {
	if value == "" || len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " LIKE ?"
		c.args = append(c.args, "%"+escapeLike(value)+"%")
	}
	c.clauses = append(c.clauses, "("+strings.Join(parts, " OR ")+")")
}

// Never forces an empty result.
func (c *Conditions) Never() {
	c.clauses = append(c.clauses, "1 = 0")
}

func (c *Conditions) Where() (string, []any) {
	if len(c.clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(c.clauses, " AND "), c.args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
