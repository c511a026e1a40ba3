package schema

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies one of the four per-user tables.
type Kind string

const (
	KindMemo         Kind = "memo"
	KindReminder     Kind = "reminder"
	KindAttachment   Kind = "attachment"
	KindMemoReminder Kind = "memo_reminder"
)

// Kinds is ordered by creation dependency: memo and reminder carry no foreign
// keys, attachment references memo, and the junction references both.
var Kinds = []Kind{KindMemo, KindReminder, KindAttachment, KindMemoReminder}

var ErrInvalidUserID = errors.New("user id must be a positive integer")

// ParseUserID validates an externally supplied user identifier. Table names
// embed the identifier verbatim, so anything but plain digits is rejected to
// close the name-injection surface.
func ParseUserID(s string) (uint, error) {
	if s == "" {
		return 0, ErrInvalidUserID
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidUserID
		}
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidUserID
	}
	return uint(id), nil
}

// TableName maps (user, kind) to the physical table name.
func TableName(userID uint, kind Kind) string {
	return fmt.Sprintf("user_%d_%s", userID, kind)
}

// Prefix returns the table-name prefix shared by a user's tables.
func Prefix(userID uint) string {
	return fmt.Sprintf("user_%d_", userID)
}

// TableSet is one user's four physical tables in a single backend.
type TableSet struct {
	Memo         string
	Reminder     string
	Attachment   string
	MemoReminder string
}

func NewTableSet(userID uint) TableSet {
	return TableSet{
		Memo:         TableName(userID, KindMemo),
		Reminder:     TableName(userID, KindReminder),
		Attachment:   TableName(userID, KindAttachment),
		MemoReminder: TableName(userID, KindMemoReminder),
	}
}

// All returns the tables in creation dependency order.
func (ts TableSet) All() []string {
	return []string{ts.Memo, ts.Reminder, ts.Attachment, ts.MemoReminder}
}

// DropOrder returns the tables ordered so foreign-key references are dropped
// before their targets.
func (ts TableSet) DropOrder() []string {
	return []string{ts.MemoReminder, ts.Attachment, ts.Reminder, ts.Memo}
}
