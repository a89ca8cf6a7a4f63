package repository

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/database"
	apperrors "github.com/kbukum/corebundle/errors"
	"github.com/kbukum/corebundle/testutil"
)

// fixed is 2026-03-01 12:00:30 UTC; the floored minute is 12:00:00.
var fixed = time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)

func ts(d time.Duration) string {
	return strconv.FormatInt(fixed.Add(d).Truncate(time.Minute).Unix(), 10)
}

func seedMembers(t *testing.T, db *database.DB) {
	t.Helper()
	members := []Member{
		{Username: "anna", Login: "1", Groups: EncodeIDs([]int{1})},
		{Username: "andy", Login: "1", Groups: EncodeIDs([]int{2})},
		{Username: "anton", Login: "1", Disable: "1", Groups: EncodeIDs([]int{1})},
		{Username: "arne", Login: "", Groups: EncodeIDs([]int{1})},
		{Username: "ada", Login: "1", Start: ts(time.Hour), Groups: EncodeIDs([]int{1})},
		{Username: "abe", Login: "1", Stop: ts(time.Minute), Groups: EncodeIDs([]int{1})},
		{Username: "amy", Login: "1", Start: ts(-time.Hour), Stop: ts(time.Hour), Groups: EncodeIDs([]int{12})},
		{Username: "bert", Login: "1", Groups: EncodeIDs([]int{1})},
	}
	if err := db.GormDB.Create(&members).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func newMembers(t *testing.T) *MemberRepository {
	t.Helper()
	db := testutil.OpenDB(t, Models()...)
	seedMembers(t, db)
	repo := NewMemberRepository(db)
	repo.now = func() time.Time { return fixed }
	return repo
}

func TestDatalistUsernames(t *testing.T) {
	repo := newMembers(t)

	tests := []struct {
		name   string
		user   *auth.BackendUser
		prefix string
		want   []string
	}{
		{"admin sees every active member", &auth.BackendUser{IsAdmin: true}, "a", []string{"amy", "andy", "anna"}},
		{"group filter", &auth.BackendUser{MemberGroups: []int{1}}, "a", []string{"anna"}},
		{"group filter does not match prefixes of ids", &auth.BackendUser{MemberGroups: []int{1, 2}}, "a", []string{"andy", "anna"}},
		{"percent is stripped", &auth.BackendUser{IsAdmin: true}, "a%n", []string{"andy", "anna"}},
		{"empty prefix", &auth.BackendUser{IsAdmin: true}, "", []string{"amy", "andy", "anna", "bert"}},
		{"no member access", &auth.BackendUser{}, "a", []string{}},
		{"nil user", nil, "a", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.DatalistUsernames(context.Background(), tc.user, tc.prefix)
			if err != nil {
				t.Fatalf("DatalistUsernames: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("usernames mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsActive(t *testing.T) {
	repo := newMembers(t)
	ctx := context.Background()

	tests := map[string]bool{
		"anna":    true,
		"anton":   false,
		"arne":    false,
		"ada":     false,
		"abe":     false,
		"amy":     true,
		"missing": false,
	}
	for username, want := range tests {
		got, err := repo.IsActive(ctx, username, fixed)
		if err != nil {
			t.Fatalf("IsActive(%s): %v", username, err)
		}
		if got != want {
			t.Errorf("IsActive(%s) = %v, want %v", username, got, want)
		}
	}
}

func TestUserRepository(t *testing.T) {
	db := testutil.OpenDB(t, Models()...)
	users := []User{
		{Username: "k.jones", Name: "Kevin Jones", Password: "hash", Admin: "1"},
		{Username: "h.lewis", Name: "Helen Lewis", Amg: EncodeIDs([]int{3, 4}), Modules: `["member","article"]`},
		{Username: "gone", Disable: "1"},
	}
	if err := db.GormDB.Create(&users).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo := NewUserRepository(db)
	ctx := context.Background()

	u, err := repo.FindByUsername(ctx, "h.lewis")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	want := auth.BackendUser{
		ID:           u.ID,
		Username:     "h.lewis",
		Name:         "Helen Lewis",
		MemberGroups: []int{3, 4},
		Modules:      []string{"member", "article"},
	}
	if diff := cmp.Diff(want, u.BackendUser()); diff != "" {
		t.Errorf("BackendUser mismatch (-want +got):\n%s", diff)
	}

	_, err = repo.FindByUsername(ctx, "gone")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND for disabled user, got %v", err)
	}

	if err := repo.UpdatePassword(ctx, u.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	u, _ = repo.FindByUsername(ctx, "h.lewis")
	if u.Password != "new-hash" {
		t.Errorf("password not updated: %q", u.Password)
	}
}

func TestVersionLatest(t *testing.T) {
	db := testutil.OpenDB(t, Models()...)
	repo := NewVersionRepository(db)
	ctx := context.Background()
	for i, table := range []string{"tl_page", "tl_article", "tl_content"} {
		if err := repo.Add(ctx, &Version{Tstamp: int64(100 + i), FromTable: table, Pid: uint(i + 1), Version: 1, Username: "k.jones"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := repo.Latest(ctx, 2)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	tables := []string{got[0].Table, got[1].Table}
	if diff := cmp.Diff([]string{"tl_content", "tl_article"}, tables); diff != "" {
		t.Errorf("Latest order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeIDs(t *testing.T) {
	if diff := cmp.Diff([]int{1, 12}, DecodeIDs(`["1","x","12"]`)); diff != "" {
		t.Errorf("DecodeIDs mismatch (-want +got):\n%s", diff)
	}
	if DecodeIDs("") != nil || DecodeIDs("not json") != nil {
		t.Error("expected nil for empty or invalid input")
	}
}
