package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limbo/readtogether/internal/repository"
	"github.com/limbo/readtogether/pkg/entity"
)

func strPtr(s string) *string {
	return &s
}

func TestListMembers(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	membersRepo := repository.NewMembersRepo(mock)
	query := regexp.QuoteMeta(`SELECT user_id, group_id, user_name, display_name, avatar_url, joined_at`)
	columns := []string{"user_id", "group_id", "user_name", "display_name", "avatar_url", "joined_at"}
	joined := time.Date(2023, 12, 1, 10, 0, 0, 0, time.UTC)
	testCases := []struct {
		Desc         string
		Error        error
		Result       []entity.GroupMember
		MockPrepFunc func()
	}{
		{
			Desc: "successful with name normalization",
			Result: []entity.GroupMember{
				{UserID: "u1", GroupID: "g1", UserName: "Anna", AvatarURL: "https://cdn/a.png", JoinedAt: joined},
				{UserID: "u2", GroupID: "g1", UserName: "Boris", JoinedAt: joined},
				{UserID: "u3", GroupID: "g1", UserName: "u3", JoinedAt: joined},
			},
			MockPrepFunc: func() {
				mock.ExpectQuery(query).WithArgs("g1").WillReturnRows(pgxmock.NewRows(columns).
					AddRow("u1", "g1", strPtr("Anna"), strPtr("legacy"), strPtr("https://cdn/a.png"), joined).
					AddRow("u2", "g1", strPtr("  "), strPtr("Boris"), (*string)(nil), joined).
					AddRow("u3", "g1", (*string)(nil), (*string)(nil), (*string)(nil), joined))
			},
		},
		{
			Desc:   "empty group",
			Result: []entity.GroupMember{},
			MockPrepFunc: func() {
				mock.ExpectQuery(query).WithArgs("g1").WillReturnRows(pgxmock.NewRows(columns))
			},
		},
		{
			Desc:  "db error",
			Error: errors.New("listing members error: db error"),
			MockPrepFunc: func() {
				mock.ExpectQuery(query).WithArgs("g1").WillReturnError(errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			members, err := membersRepo.ListByGroup(ctx, "g1")
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.Result, members)
			}
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
