package models

import "time"

type ActionTag string

const (
	ActionTagReportHandled  ActionTag = "modreport_handled"
	ActionTagReportRejected ActionTag = "modreport_rejected"
	ActionTagUserBanned     ActionTag = "user_banned"
)

// ModAction is one row of the moderation audit log.
type ModAction struct {
	ID        int       `json:"id"`
	ActorID   int       `db:"actor_id" json:"actor_id"`
	Message   string    `json:"message"`
	ActionTag ActionTag `db:"action_tag" json:"action_tag"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
