package models

import "time"

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserView struct {
	User
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
