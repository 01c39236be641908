package db

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"gitlab.com/corvna/modboard/internal/models"
)

// Title of the well-known topic collecting report notices.
const ReportsTopicTitle = "Reports requiring moderation"

func (h *SiteH) CreateForumTopic(ctx context.Context, uH UserH, topic *models.ForumTopic) error {
	if strings.TrimSpace(topic.Title) == "" {
		return models.ErrInvalidFormat
	}
	topic.CreatorID = uH.id
	err := insertForumTopic(ctx, h.sharedDB, topic)
	if violatesConstraint(err, "forum_topics_title_key") {
		return models.ErrInvalidFormat
	}
	return err
}

func (h *SiteH) CreateForumPost(ctx context.Context, uH UserH, post *models.ForumPost) error {
	if strings.TrimSpace(post.Body) == "" {
		return models.ErrInvalidFormat
	}
	topic, err := readForumTopic(ctx, h.sharedDB, post.TopicID)
	if err != nil {
		return err
	}
	if topic.MinLevel > h.perms.Level() {
		return models.ErrPermDenied
	}
	post.AuthorID = uH.id
	return insertForumPost(ctx, h.sharedDB, post)
}

func (h *SiteH) ReadForumTopic(ctx context.Context, topicID int) (*models.ForumTopic, []models.ForumPost, error) {
	topic, err := readForumTopic(ctx, h.sharedDB, topicID)
	if err != nil {
		return nil, nil, err
	}
	if topic.MinLevel > h.perms.Level() {
		return nil, nil, models.ErrPermDenied
	}

	posts := []models.ForumPost{}
	sql, args, _ := psql.
		Select("id", "topic_id", "author_id", "body", "created_at").
		From("forum_posts").
		Where(sq.Eq{"topic_id": topicID}).
		OrderBy("id").
		ToSql()
	err = pgxscan.Select(ctx, h.sharedDB, &posts, sql, args...)
	if err != nil {
		return nil, nil, err
	}
	return topic, posts, nil
}

func insertForumTopic(ctx context.Context, db DBTX, topic *models.ForumTopic) error {
	sql, args, _ := psql.
		Insert("forum_topics").
		Columns("title", "creator_id", "min_level").
		Values(topic.Title, topic.CreatorID, topic.MinLevel).
		Suffix("RETURNING id").
		ToSql()
	row := db.QueryRow(ctx, sql, args...)
	return row.Scan(&topic.ID)
}

func insertForumPost(ctx context.Context, db DBTX, post *models.ForumPost) error {
	sql, args, _ := psql.
		Insert("forum_posts").
		Columns("topic_id", "author_id", "body").
		Values(post.TopicID, post.AuthorID, post.Body).
		Suffix("RETURNING id").
		ToSql()
	row := db.QueryRow(ctx, sql, args...)
	return row.Scan(&post.ID)
}

func readForumTopic(ctx context.Context, db DBTX, topicID int) (*models.ForumTopic, error) {
	topic := &models.ForumTopic{}
	sql, args, _ := psql.
		Select("id", "title", "creator_id", "min_level", "created_at").
		From("forum_topics").
		Where(sq.Eq{"id": topicID}).
		ToSql()
	err := pgxscan.Get(ctx, db, topic, sql, args...)
	if pgxscan.NotFound(err) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return topic, nil
}

// ensureReportsTopic finds or creates the moderator-only topic that
// collects report notices. The unique constraint on the title carries
// the creation race: a concurrent first report inserts nothing and
// reuses the existing topic.
func ensureReportsTopic(ctx context.Context, db DBTX, creatorID int) (*models.ForumTopic, error) {
	sql, args, _ := psql.
		Insert("forum_topics").
		Columns("title", "creator_id", "min_level").
		Values(ReportsTopicTitle, creatorID, models.LevelModerator).
		Suffix("ON CONFLICT (title) DO NOTHING").
		ToSql()
	_, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	topic := &models.ForumTopic{}
	sql, args, _ = psql.
		Select("id", "title", "creator_id", "min_level", "created_at").
		From("forum_topics").
		Where(sq.Eq{"title": ReportsTopicTitle}).
		ToSql()
	err = pgxscan.Get(ctx, db, topic, sql, args...)
	if err != nil {
		return nil, err
	}
	return topic, nil
}
