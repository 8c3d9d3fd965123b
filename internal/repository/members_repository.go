package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/limbo/readtogether/pkg/entity"
)

const listMembersQuery = `SELECT user_id, group_id, user_name, display_name, avatar_url, joined_at
	FROM group_members WHERE group_id = $1 ORDER BY joined_at, user_id;`

type MembersRepository struct {
	conn PgConnection
}

func NewMembersRepo(conn PgConnection) *MembersRepository {
	return &MembersRepository{
		conn: conn,
	}
}

// memberRow mirrors group_members, where older rows carry the name in
// display_name instead of user_name.
type memberRow struct {
	UserID      string
	GroupID     string
	UserName    *string
	DisplayName *string
	AvatarURL   *string
	JoinedAt    time.Time
}

func normalizeMember(row memberRow) entity.GroupMember {
	name := row.UserID
	for _, candidate := range []*string{row.UserName, row.DisplayName} {
		if candidate != nil && strings.TrimSpace(*candidate) != "" {
			name = strings.TrimSpace(*candidate)
			break
		}
	}
	m := entity.GroupMember{
		UserID:   row.UserID,
		GroupID:  row.GroupID,
		UserName: name,
		JoinedAt: row.JoinedAt,
	}
	if row.AvatarURL != nil {
		m.AvatarURL = *row.AvatarURL
	}
	return m
}

func (mr *MembersRepository) ListByGroup(ctx context.Context, groupID string) ([]entity.GroupMember, error) {
	rows, err := mr.conn.Query(ctx, listMembersQuery, groupID)
	if err != nil {
		return nil, errors.New("listing members error: " + err.Error())
	}
	defer rows.Close()
	members := make([]entity.GroupMember, 0)
	for rows.Next() {
		var row memberRow
		if err = rows.Scan(&row.UserID, &row.GroupID, &row.UserName, &row.DisplayName, &row.AvatarURL, &row.JoinedAt); err != nil {
			return nil, errors.New("member row parsing error: " + err.Error())
		}
		members = append(members, normalizeMember(row))
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected member rows error: " + err.Error())
	}
	return members, nil
}
