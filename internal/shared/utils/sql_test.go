package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateBuilder(t *testing.T) {
	b := &UpdateBuilder{}
	b.Set("name", "Áo")
	b.SetCast("price", "10.50", "numeric")
	b.SetExpr("updated_at", "NOW()")

	where := JoinWithAnd([]string{"id = " + b.Arg("abc"), "status = " + b.Arg("active")})

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, "name = $1, price = $2::numeric, updated_at = NOW()", b.Clause())
	assert.Equal(t, "id = $3 AND status = $4", where)
	assert.Equal(t, []any{"Áo", "10.50", "abc", "active"}, b.Args())
}
