package store

import (
	"fmt"
	"strings"

	"kanban/internal/models"
)

type listQueryBuilder struct {
	filter TaskFilter
	query  string
	args   []any
	where  []string
}

func buildListQuery(filter TaskFilter) (string, []any) {
	builder := &listQueryBuilder{filter: filter}
	builder.buildSelect()
	builder.buildWhere()
	builder.buildOrder()
	builder.buildPagination()
	return builder.query, builder.args
}

func (b *listQueryBuilder) buildSelect() {
	b.query = "SELECT " + taskDetailColumns + taskDetailJoins
	b.args = append(b.args, models.UnassignedDeveloperName, models.NeutralTaskTypeColor)
}

func (b *listQueryBuilder) buildWhere() {
	b.appendManager()
	b.appendDeveloper()
	b.appendStatuses()

	if len(b.where) == 0 {
		return
	}
	b.query += " WHERE " + strings.Join(b.where, " AND ")
}

func (b *listQueryBuilder) buildOrder() {
	b.query += " ORDER BY t.execution_order ASC, t.created_at ASC, t.id ASC"
}

func (b *listQueryBuilder) buildPagination() {
	hasLimit := false
	if b.filter.Limit > 0 {
		b.query += " LIMIT ?"
		b.args = append(b.args, b.filter.Limit)
		hasLimit = true
	}
	if b.filter.Offset > 0 {
		if !hasLimit {
			b.query += " LIMIT -1"
		}
		b.query += " OFFSET ?"
		b.args = append(b.args, b.filter.Offset)
	}
}

func (b *listQueryBuilder) appendManager() {
	if b.filter.ManagerID == "" {
		return
	}
	b.where = append(b.where, "t.manager_id = ?")
	b.args = append(b.args, b.filter.ManagerID)
}

func (b *listQueryBuilder) appendDeveloper() {
	if b.filter.DeveloperID == "" {
		return
	}
	b.where = append(b.where, "t.developer_id = ?")
	b.args = append(b.args, b.filter.DeveloperID)
}

func (b *listQueryBuilder) appendStatuses() {
	if len(b.filter.Statuses) == 0 {
		return
	}
	b.where = append(b.where, fmt.Sprintf("t.status IN (%s)", placeholders(len(b.filter.Statuses))))
	for _, status := range b.filter.Statuses {
		b.args = append(b.args, string(status))
	}
}
