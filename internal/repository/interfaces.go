package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/readtogether/pkg/entity"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/limbo/readtogether/internal/repository CompletionsRepositoryI,MembersRepositoryI

// CompletionFilter narrows a completion listing. Zero values mean "any".
type CompletionFilter struct {
	UserID        string
	DateFrom      string
	DateTo        string
	CompletedOnly bool
	Limit         int
}

type CompletionsRepositoryI interface {
	// Lists completions of a group matching filter, most recent day first
	List(ctx context.Context, groupID string, filter CompletionFilter) ([]entity.CompletionRecord, error)
	// Creates the record for (userID, groupID, date). Fails with ErrCompletionExists if one is there
	Create(ctx context.Context, userID, groupID, date string, completed bool) (*entity.CompletionRecord, error)
	// Flips completed flag of an existing record
	Update(ctx context.Context, recordID string, completed bool) (*entity.CompletionRecord, error)
	// Removes every record of a group. Used only when the group itself is deleted
	DeleteByGroup(ctx context.Context, groupID string) (int64, error)
}

type MembersRepositoryI interface {
	// Lists members of a group in join order
	ListByGroup(ctx context.Context, groupID string) ([]entity.GroupMember, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
