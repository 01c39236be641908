package models

import "time"

type BanMotivation string

const (
	BanMotivationSpam BanMotivation = "spam"
)

type Banned struct {
	UserID     int `db:"user_id"`
	Start      time.Time
	Motivation BanMotivation
}
