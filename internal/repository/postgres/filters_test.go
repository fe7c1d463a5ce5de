package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paintflow/inventory-engine/internal/domain"
)

func TestBuildPositionFilterClause(t *testing.T) {
	maxCover, minCover := 30.0, 2.0

	cases := []struct {
		name   string
		filter domain.PositionFilter
		clause string
		args   []interface{}
	}{
		{
			name: "empty",
		},
		{
			name:   "locations",
			filter: domain.PositionFilter{LocationIDs: []int64{1, 3}},
			clause: " WHERE p.location_id IN ($1,$2)",
			args:   []interface{}{int64(1), int64(3)},
		},
		{
			name: "everything",
			filter: domain.PositionFilter{
				LocationIDs:    []int64{2},
				ItemIDs:        []int64{5, 6},
				MaxDaysOfCover: &maxCover,
				MinDaysOfCover: &minCover,
			},
			clause: " WHERE p.location_id IN ($1) AND p.item_id IN ($2,$3) AND p.days_of_cover < $4 AND p.days_of_cover > $5",
			args:   []interface{}{int64(2), int64(5), int64(6), 30.0, 2.0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clause, args := buildPositionFilterClause(tc.filter, "p.", 1)
			assert.Equal(t, tc.clause, clause)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestBuildPositionFilterClauseStartIndex(t *testing.T) {
	clause, _ := buildPositionFilterClause(domain.PositionFilter{ItemIDs: []int64{9}}, "", 4)
	assert.Equal(t, " WHERE item_id IN ($4)", clause)
}

func TestStatusArgs(t *testing.T) {
	clause, args := statusArgs([]domain.TransferStatus{domain.TransferPending, domain.TransferApproved}, 1)
	assert.Equal(t, " WHERE status IN ($1,$2)", clause)
	assert.Equal(t, []interface{}{"PENDING", "APPROVED"}, args)

	clause, args = statusArgs(nil, 1)
	assert.Empty(t, clause)
	assert.Nil(t, args)
}
