package db

import (
	"context"

	"github.com/georgysavva/scany/pgxscan"
	"gitlab.com/corvna/modboard/internal/models"
)

type modLogService struct {
	db DBTX
}

func NewModLogService(db DBTX) *modLogService {
	return &modLogService{
		db,
	}
}

func (s *modLogService) Record(ctx context.Context, message string, tag models.ActionTag, actorID int) error {
	sql, args, _ := psql.
		Insert("mod_actions").
		Columns("actor_id", "message", "action_tag").
		Values(actorID, message, tag).
		ToSql()
	_, err := s.db.Exec(ctx, sql, args...)
	return err
}

func (s *modLogService) List(ctx context.Context) ([]models.ModAction, error) {
	actions := []models.ModAction{}
	sql, args, _ := psql.
		Select("id", "actor_id", "message", "action_tag", "created_at").
		From("mod_actions").
		OrderBy("id DESC").
		ToSql()

	err := pgxscan.Select(ctx, s.db, &actions, sql, args...)
	if err != nil {
		return nil, err
	}
	return actions, nil
}
