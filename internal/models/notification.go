package models

import "net/url"

type NotifType string

const (
	NotifTypeReportHandled NotifType = "report_handled"
	NotifTypeDmail         NotifType = "dmail"
)

type Notification struct {
	UserID    int
	NotifType NotifType
	Title     string
	Text      string
	ActionURL url.URL `db:"action_url"`
}

type NotifView struct {
	ID        int       `json:"id"`
	NotifType NotifType `db:"notif_type" json:"notif_type"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	ActionURL string    `db:"action_url" json:"action_url"`
}
