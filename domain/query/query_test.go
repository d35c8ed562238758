package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	q := Build(
		WithID(4),
		WithConditionIn("contig", []string{"ctg1", "ctg2"}),
		WithOrderAsc("start"),
		WithOrderDesc("score"),
		WithLimit(10),
		WithOffset(20),
	)

	conds := q.Conditions()
	assert.Len(t, conds, 2)
	assert.Equal(t, "id = 4", conds[0].String())
	assert.False(t, conds[0].In())
	assert.True(t, conds[1].In())
	assert.Equal(t, "contig IN [ctg1 ctg2]", conds[1].String())

	orders := q.Orders()
	assert.Equal(t, "start", orders[0].Field())
	assert.True(t, orders[0].Ascending())
	assert.False(t, orders[1].Ascending())

	assert.Equal(t, 10, q.LimitValue())
	assert.Equal(t, 20, q.OffsetValue())
}

func TestQuery_ConditionsIsCopy(t *testing.T) {
	q := Build(WithID(1))
	conds := q.Conditions()
	conds[0] = Condition{}

	assert.Equal(t, "id", q.Conditions()[0].Field())
}
