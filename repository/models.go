package repository

import (
	"encoding/json"
	"strconv"
)

// Member is a tl_member row. Start and Stop hold unix timestamps as
// strings; empty means unbounded.
type Member struct {
	ID       uint   `gorm:"primaryKey"`
	Tstamp   int64  `gorm:"column:tstamp;not null;default:0"`
	Username string `gorm:"column:username;uniqueIndex;size:64"`
	Email    string `gorm:"column:email;size:255"`
	Login    string `gorm:"column:login;size:1;not null;default:''"`
	Disable  string `gorm:"column:disable;size:1;not null;default:''"`
	Start    string `gorm:"column:start;size:10;not null;default:''"`
	Stop     string `gorm:"column:stop;size:10;not null;default:''"`
	// Groups holds the member group IDs as a JSON list of quoted IDs.
	Groups string `gorm:"column:groups;type:text"`
}

// TableName implements gorm's Tabler.
func (Member) TableName() string { return "tl_member" }

// User is a tl_user row.
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"column:username;uniqueIndex;size:64"`
	Name     string `gorm:"column:name;size:255"`
	Password string `gorm:"column:password;size:255"`
	Admin    string `gorm:"column:admin;size:1;not null;default:''"`
	Disable  string `gorm:"column:disable;size:1;not null;default:''"`
	// Amg lists the member groups the user may administer, encoded like
	// Member.Groups.
	Amg string `gorm:"column:amg;type:text"`
	// Modules lists the back end modules the user may open, as a JSON list.
	Modules string `gorm:"column:modules;type:text"`
}

// TableName implements gorm's Tabler.
func (User) TableName() string { return "tl_user" }

// Version is a tl_version row.
type Version struct {
	ID          uint   `gorm:"primaryKey"`
	Tstamp      int64  `gorm:"column:tstamp;index"`
	FromTable   string `gorm:"column:fromTable;size:255"`
	Pid         uint   `gorm:"column:pid"`
	Version     int    `gorm:"column:version"`
	Username    string `gorm:"column:username;size:64"`
	Description string `gorm:"column:description;size:255"`
	EditURL     string `gorm:"column:editUrl;type:text"`
}

// TableName implements gorm's Tabler.
func (Version) TableName() string { return "tl_version" }

// Models returns every model for auto-migration.
func Models() []interface{} {
	return []interface{}{&Member{}, &User{}, &Version{}}
}

// EncodeIDs encodes ids the way group lists are stored: ["1","3"].
func EncodeIDs(ids []int) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = strconv.Itoa(id)
	}
	b, _ := json.Marshal(quoted)
	return string(b)
}

// DecodeIDs reverses EncodeIDs. Non-numeric entries are skipped.
func DecodeIDs(s string) []int {
	if s == "" {
		return nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, r := range raw {
		if id, err := strconv.Atoi(r); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func decodeStrings(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}
