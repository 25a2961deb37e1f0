package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// UpdateBuilder gom các "column = $n" cho câu UPDATE động (partial update).
//
//	b := &UpdateBuilder{}
//	b.Set("name", "Áo")
//	b.SetExpr("updated_at", "NOW()")
//	q := "UPDATE categories SET " + b.Clause() + " WHERE id = " + b.Arg(id)
type UpdateBuilder struct {
	sets []string
	args []any
}

// Arg thêm 1 positional argument và trả về placeholder của nó
func (b *UpdateBuilder) Arg(value any) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *UpdateBuilder) Set(column string, value any) {
	b.sets = append(b.sets, column+" = "+b.Arg(value))
}

// SetCast giống Set nhưng thêm type cast, vd "$3::numeric"
func (b *UpdateBuilder) SetCast(column string, value any, pgType string) {
	b.sets = append(b.sets, column+" = "+b.Arg(value)+"::"+pgType)
}

func (b *UpdateBuilder) SetExpr(column, expr string) {
	b.sets = append(b.sets, column+" = "+expr)
}

func (b *UpdateBuilder) Len() int {
	return len(b.sets)
}

func (b *UpdateBuilder) Clause() string {
	return strings.Join(b.sets, ", ")
}

func (b *UpdateBuilder) Args() []any {
	return b.args
}
