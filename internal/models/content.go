package models

import (
	"fmt"
	"time"
)

type Dmail struct {
	ID         int       `json:"id"`
	FromUserID int       `db:"from_user_id" json:"from_user_id"`
	ToUserID   int       `db:"to_user_id" json:"to_user_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Comment struct {
	ID        int       `json:"id"`
	AuthorID  int       `db:"author_id" json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ForumTopic struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	CreatorID int       `db:"creator_id" json:"creator_id"`
	MinLevel  UserLevel `db:"min_level" json:"min_level"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ForumPost struct {
	ID        int       `json:"id"`
	TopicID   int       `db:"topic_id" json:"topic_id"`
	AuthorID  int       `db:"author_id" json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserLevel gates who may read a forum topic.
type UserLevel int

const (
	LevelMember    UserLevel = 0
	LevelModerator UserLevel = 50
)

// ReportedContent is the resolved view of a report target, whatever
// its concrete type. AuthorID is the comment/post author, or the
// dmail sender.
type ReportedContent struct {
	Type     TargetType
	ID       int
	Body     string
	AuthorID int
}

// Reference returns the short display link used inside forum notices.
func (c ReportedContent) Reference() string {
	switch c.Type {
	case TargetTypeDmail:
		return fmt.Sprintf("dmail #%d", c.ID)
	case TargetTypeComment:
		return fmt.Sprintf("comment #%d", c.ID)
	case TargetTypeForumPost:
		return fmt.Sprintf("forum #%d", c.ID)
	}
	return fmt.Sprintf("%s #%d", c.Type, c.ID)
}
