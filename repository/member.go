package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/database"
)

// MemberRepository queries tl_member.
type MemberRepository struct {
	db  *database.DB
	now func() time.Time
}

// NewMemberRepository creates a repository over db.
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{db: db, now: time.Now}
}

// floorToMinute returns t's unix time rounded down to the full minute.
func floorToMinute(t time.Time) int64 {
	unix := t.Unix()
	return unix - unix%60
}

// active restricts q to members that may log in at the given minute.
func active(q *gorm.DB, minute int64) *gorm.DB {
	start := strconv.FormatInt(minute, 10)
	stop := strconv.FormatInt(minute+60, 10)
	return q.
		Where("login = ?", "1").
		Where("disable != ?", "1").
		Where("(start = '' OR start <= ?)", start).
		Where("(stop = '' OR stop > ?)", stop)
}

// DatalistUsernames returns the usernames of active members starting with
// prefix, ordered by username. Percent signs in prefix are dropped. A
// non-admin only sees members of the groups in user.MemberGroups; a user
// who may not access members gets nothing.
func (r *MemberRepository) DatalistUsernames(ctx context.Context, user *auth.BackendUser, prefix string) ([]string, error) {
	if !user.CanAccessMembers() {
		return []string{}, nil
	}

	q := r.db.WithContext(ctx).Model(&Member{}).
		Where("username LIKE ?", strings.ReplaceAll(prefix, "%", "")+"%")

	if !user.IsAdmin {
		clauses := make([]string, len(user.MemberGroups))
		args := make([]interface{}, len(user.MemberGroups))
		for i, id := range user.MemberGroups {
			clauses[i] = "`groups` LIKE ?"
			args[i] = `%"` + strconv.Itoa(id) + `"%`
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	usernames := []string{}
	err := active(q, floorToMinute(r.now())).
		Order("username").
		Pluck("username", &usernames).Error
	if err != nil {
		return nil, database.FromDatabase(err, "member")
	}
	return usernames, nil
}

// IsActive reports whether username may log in at the given time.
func (r *MemberRepository) IsActive(ctx context.Context, username string, at time.Time) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&Member{}).Where("username = ?", username)
	if err := active(q, floorToMinute(at)).Count(&count).Error; err != nil {
		return false, database.FromDatabase(err, "member")
	}
	return count > 0, nil
}
