package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	errorvalues "github.com/limbo/readtogether/internal/error_values"
	"github.com/limbo/readtogether/pkg/entity"
)

const (
	listCompletionsQuery = `SELECT id::text, user_id, group_id, day, completed, created_at FROM completions
		WHERE group_id = $1
		AND ($2::text = '' OR user_id = $2)
		AND ($3::text = '' OR day >= $3)
		AND ($4::text = '' OR day <= $4)
		AND (NOT $5::boolean OR completed)
		ORDER BY day DESC
		LIMIT $6;`
	createCompletionQuery = `INSERT INTO completions (id, user_id, group_id, day, completed) VALUES ($1, $2, $3, $4, $5) RETURNING created_at;`
	updateCompletionQuery = `UPDATE completions SET completed = $1, updated_at = NOW() WHERE id = $2
		RETURNING id::text, user_id, group_id, day, completed, created_at;`
	deleteGroupCompletionsQuery = `DELETE FROM completions WHERE group_id = $1;`
)

type CompletionsRepository struct {
	conn PgConnection
}

func NewCompletionsRepo(conn PgConnection) *CompletionsRepository {
	return &CompletionsRepository{
		conn: conn,
	}
}

func (cr *CompletionsRepository) List(ctx context.Context, groupID string, filter CompletionFilter) ([]entity.CompletionRecord, error) {
	// NULL limit means no limit
	var limit *int
	if filter.Limit > 0 {
		limit = &filter.Limit
	}
	rows, err := cr.conn.Query(
		ctx,
		listCompletionsQuery,
		groupID,
		filter.UserID,
		filter.DateFrom,
		filter.DateTo,
		filter.CompletedOnly,
		limit,
	)
	if err != nil {
		return nil, errors.New("listing completions error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.CompletionRecord, 0)
	for rows.Next() {
		var r entity.CompletionRecord
		if err = rows.Scan(&r.ID, &r.UserID, &r.GroupID, &r.Date, &r.Completed, &r.CreatedAt); err != nil {
			return nil, errors.New("completion row parsing error: " + err.Error())
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected completion rows error: " + err.Error())
	}
	return result, nil
}

func (cr *CompletionsRepository) Create(ctx context.Context, userID, groupID, date string, completed bool) (*entity.CompletionRecord, error) {
	record := entity.CompletionRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		GroupID:   groupID,
		Date:      date,
		Completed: completed,
	}
	row := cr.conn.QueryRow(
		ctx,
		createCompletionQuery,
		record.ID,
		userID,
		groupID,
		date,
		completed,
	)
	if err := row.Scan(&record.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return nil, errorvalues.ErrCompletionExists
			// FK violation
			case "23503":
				return nil, errorvalues.ErrGroupNotFound
			}
		}
		return nil, errors.New("creating completion error: " + err.Error())
	}
	return &record, nil
}

func (cr *CompletionsRepository) Update(ctx context.Context, recordID string, completed bool) (*entity.CompletionRecord, error) {
	var r entity.CompletionRecord
	row := cr.conn.QueryRow(ctx, updateCompletionQuery, completed, recordID)
	if err := row.Scan(&r.ID, &r.UserID, &r.GroupID, &r.Date, &r.Completed, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrCompletionNotFound
		}
		return nil, errors.New("updating completion error: " + err.Error())
	}
	return &r, nil
}

func (cr *CompletionsRepository) DeleteByGroup(ctx context.Context, groupID string) (int64, error) {
	ct, err := cr.conn.Exec(ctx, deleteGroupCompletionsQuery, groupID)
	if err != nil {
		return 0, errors.New("deleting group completions error: " + err.Error())
	}
	return ct.RowsAffected(), nil
}
