package db

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4"
	"gitlab.com/corvna/modboard/internal/models"
)

func (h *SiteH) CreateDmail(ctx context.Context, uH UserH, dmail *models.Dmail) error {
	if strings.TrimSpace(dmail.Body) == "" {
		return models.ErrInvalidFormat
	}
	dmail.FromUserID = uH.id
	sql, args, _ := psql.
		Insert("dmails").
		Columns("from_user_id", "to_user_id", "title", "body").
		Values(dmail.FromUserID, dmail.ToUserID, dmail.Title, dmail.Body).
		Suffix("RETURNING id").
		ToSql()
	row := h.sharedDB.QueryRow(ctx, sql, args...)
	return row.Scan(&dmail.ID)
}

func (h *SiteH) CreateComment(ctx context.Context, uH UserH, comment *models.Comment) error {
	if strings.TrimSpace(comment.Body) == "" {
		return models.ErrInvalidFormat
	}
	comment.AuthorID = uH.id
	sql, args, _ := psql.
		Insert("comments").
		Columns("author_id", "body").
		Values(comment.AuthorID, comment.Body).
		Suffix("RETURNING id").
		ToSql()
	row := h.sharedDB.QueryRow(ctx, sql, args...)
	return row.Scan(&comment.ID)
}

func (h *SiteH) ListDmails(ctx context.Context, uH UserH) ([]models.Dmail, error) {
	dmails := []models.Dmail{}
	sql, args, _ := psql.
		Select("id", "from_user_id", "to_user_id", "title", "body", "created_at").
		From("dmails").
		Where(sq.Eq{"to_user_id": uH.id}).
		OrderBy("id DESC").
		ToSql()
	err := pgxscan.Select(ctx, h.sharedDB, &dmails, sql, args...)
	if err != nil {
		return nil, err
	}
	return dmails, nil
}

// readReportedContent resolves a (targetType, targetID) pair to the
// reported content. The author is the comment/post author, or the
// dmail sender. Returns models.ErrNotFound when the row is missing.
func readReportedContent(ctx context.Context, db DBTX, targetType models.TargetType, targetID int) (*models.ReportedContent, error) {
	content := &models.ReportedContent{Type: targetType, ID: targetID}

	var sql string
	var args []interface{}
	switch targetType {
	case models.TargetTypeDmail:
		sql, args, _ = psql.
			Select("body", "from_user_id AS author_id").
			From("dmails").
			Where(sq.Eq{"id": targetID}).
			ToSql()
	case models.TargetTypeComment:
		sql, args, _ = psql.
			Select("body", "author_id").
			From("comments").
			Where(sq.Eq{"id": targetID}).
			ToSql()
	case models.TargetTypeForumPost:
		sql, args, _ = psql.
			Select("body", "author_id").
			From("forum_posts").
			Where(sq.Eq{"id": targetID}).
			ToSql()
	default:
		// Validation keeps unknown types out of the database, so
		// reaching this is a bug in the caller, not user input.
		return nil, fmt.Errorf("unreportable target type %q", targetType)
	}

	row := db.QueryRow(ctx, sql, args...)
	err := row.Scan(&content.Body, &content.AuthorID)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}
