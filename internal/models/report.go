package models

import (
	"strings"
	"time"
)

type TargetType string

const (
	TargetTypeDmail     TargetType = "dmail"
	TargetTypeComment   TargetType = "comment"
	TargetTypeForumPost TargetType = "forum_post"
)

func (t TargetType) Valid() bool {
	switch t {
	case TargetTypeDmail, TargetTypeComment, TargetTypeForumPost:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusRejected ReportStatus = "rejected"
	ReportStatusHandled  ReportStatus = "handled"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusRejected, ReportStatusHandled:
		return true
	}
	return false
}

type ModerationReport struct {
	ID         int
	Reason     string
	TargetType TargetType   `db:"target_type"`
	TargetID   int          `db:"target_id"`
	CreatorID  int          `db:"creator_id"`
	Status     ReportStatus
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type ReportView struct {
	ID          int          `json:"id"`
	Reason      string       `json:"reason"`
	TargetType  TargetType   `db:"target_type" json:"target_type"`
	TargetID    int          `db:"target_id" json:"target_id"`
	CreatorID   int          `db:"creator_id" json:"creator_id"`
	CreatorName string       `db:"creator_name" json:"creator_name"`
	Status      ReportStatus `json:"status"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

type ReportReq struct {
	Reason     string
	TargetType TargetType
	TargetID   int
}

// Validate checks everything that doesn't need the database.
// Uniqueness is left to the reports table constraint.
func (r *ReportReq) Validate() error {
	if !r.TargetType.Valid() {
		return ErrBadTargetType
	}
	if strings.TrimSpace(r.Reason) == "" {
		return ErrEmptyReason
	}
	return nil
}

type ReportFilter struct {
	ID             *int
	CreatorID      *int
	TargetType     *TargetType
	TargetID       *int
	Status         *ReportStatus
	ReasonContains string
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
	UpdatedAfter   *time.Time
	UpdatedBefore  *time.Time
}
