package postgres

import (
	"fmt"
	"strings"

	"github.com/paintflow/inventory-engine/internal/domain"
)

// buildPositionFilterClause constructs the WHERE clause of a stock position
// query. Placeholders are numbered from startIndex.
func buildPositionFilterClause(filter domain.PositionFilter, alias string, startIndex int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	idx := startIndex

	if len(filter.LocationIDs) > 0 {
		clause, inArgs := inClause(alias+"location_id", filter.LocationIDs, idx)
		clauses = append(clauses, clause)
		args = append(args, inArgs...)
		idx += len(inArgs)
	}

	if len(filter.ItemIDs) > 0 {
		clause, inArgs := inClause(alias+"item_id", filter.ItemIDs, idx)
		clauses = append(clauses, clause)
		args = append(args, inArgs...)
		idx += len(inArgs)
	}

	if filter.MaxDaysOfCover != nil {
		clauses = append(clauses, fmt.Sprintf("%sdays_of_cover < $%d", alias, idx))
		args = append(args, *filter.MaxDaysOfCover)
		idx++
	}

	if filter.MinDaysOfCover != nil {
		clauses = append(clauses, fmt.Sprintf("%sdays_of_cover > $%d", alias, idx))
		args = append(args, *filter.MinDaysOfCover)
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func inClause(column string, ids []int64, startIndex int) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", startIndex+i)
		args[i] = id
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ",")), args
}

func statusArgs(statuses []domain.TransferStatus, startIndex int) (string, []interface{}) {
	if len(statuses) == 0 {
		return "", nil
	}
	placeholders := make([]string, len(statuses))
	args := make([]interface{}, len(statuses))
	for i, s := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", startIndex+i)
		args[i] = string(s)
	}
	return fmt.Sprintf(" WHERE status IN (%s)", strings.Join(placeholders, ",")), args
}
