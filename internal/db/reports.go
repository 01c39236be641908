package db

import (
	"context"
	"fmt"
	"net/url"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"gitlab.com/corvna/modboard/internal/models"
	"gitlab.com/corvna/modboard/internal/utils"
)

func selectReportView() sq.SelectBuilder {
	return psql.
		Select(
			"moderation_reports.id",
			"moderation_reports.reason",
			"moderation_reports.target_type",
			"moderation_reports.target_id",
			"moderation_reports.creator_id",
			"users.name AS creator_name",
			"moderation_reports.status",
			"moderation_reports.created_at",
			"moderation_reports.updated_at",
		).
		From("moderation_reports").
		Join("users ON users.id = moderation_reports.creator_id").
		OrderBy("moderation_reports.created_at DESC", "moderation_reports.id DESC")
}

// CreateReport validates and persists a report, then runs the
// post-create effects (forum notice, autoban check). The report row is
// the primary value: effect failures are logged and never surface to
// the caller.
func (h *SiteH) CreateReport(ctx context.Context, uH UserH, req models.ReportReq) (*models.ReportView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	content, err := readReportedContent(ctx, h.sharedDB, req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	report := models.ModerationReport{
		Reason:     req.Reason,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		CreatorID:  uH.id,
		Status:     models.ReportStatusPending,
	}
	err = insertReport(ctx, h.sharedDB, &report)
	if violatesConstraint(err, "moderation_reports_creator_target_key") {
		return nil, models.ErrDuplicateReport
	}
	if err != nil {
		return nil, err
	}

	// Post-create effects, in order, after the row is committed.
	if err := h.postReportNotice(ctx, &report, content); err != nil {
		h.logger.Error().Err(err).Int("report_id", report.ID).
			Msg("Failed to post the report notice")
	}
	if err := h.autobanCheck(ctx, content.AuthorID); err != nil {
		h.logger.Error().Err(err).Int("user_id", content.AuthorID).
			Msg("Autoban check failed")
	}

	return readReportView(ctx, h.sharedDB, report.ID)
}

func insertReport(ctx context.Context, db DBTX, report *models.ModerationReport) error {
	sql, args, _ := psql.
		Insert("moderation_reports").
		Columns("reason", "target_type", "target_id", "creator_id", "status").
		Values(report.Reason, report.TargetType, report.TargetID, report.CreatorID, report.Status).
		Suffix("RETURNING id").
		ToSql()
	row := db.QueryRow(ctx, sql, args...)
	return row.Scan(&report.ID)
}

// reportNoticeBody formats the forum post appended for every new
// report: id, reporter, a reference to the content, the reason and a
// quoted excerpt of the offending body.
func reportNoticeBody(report *models.ModerationReport, reporterName string, content *models.ReportedContent) string {
	return fmt.Sprintf(
		"modreport #%d by %s against %s\n\nreason: %s\n\n%s",
		report.ID,
		reporterName,
		content.Reference(),
		report.Reason,
		utils.Quote(utils.Excerpt(content.Body, LimitNoticeExcerptLen)),
	)
}

func (h *SiteH) postReportNotice(ctx context.Context, report *models.ModerationReport, content *models.ReportedContent) error {
	reporter, err := readPublicUser(ctx, h.sharedDB, report.CreatorID)
	if err != nil {
		return err
	}
	topic, err := ensureReportsTopic(ctx, h.sharedDB, h.config.SystemUserID)
	if err != nil {
		return err
	}
	post := models.ForumPost{
		TopicID:  topic.ID,
		AuthorID: h.config.SystemUserID,
		Body:     reportNoticeBody(report, reporter.Name, content),
	}
	return insertForumPost(ctx, h.sharedDB, &post)
}

func (h *SiteH) autobanCheck(ctx context.Context, reportedUserID int) error {
	spammer, err := h.spam.IsSpammer(ctx, reportedUserID)
	if err != nil || !spammer {
		return err
	}
	err = h.spam.BanSpammer(ctx, reportedUserID)
	if err != nil {
		return err
	}
	return h.modLog.Record(ctx,
		fmt.Sprintf("autobanned user #%d as spammer", reportedUserID),
		models.ActionTagUserBanned,
		h.config.SystemUserID)
}

type statusEffects struct {
	NotifyCreator bool
	LogTag        models.ActionTag
}

// effectsForTransition decides which side effects a status write
// fires. A same-value write and a transition into pending fire
// nothing; the creator is only thanked once, on the transition into
// handled, and never when the creator is the system account.
func effectsForTransition(prev, next models.ReportStatus, creatorID, systemUserID int) statusEffects {
	effects := statusEffects{}
	if next == prev {
		return effects
	}
	switch next {
	case models.ReportStatusHandled:
		effects.LogTag = models.ActionTagReportHandled
		if creatorID != systemUserID {
			effects.NotifyCreator = true
		}
	case models.ReportStatusRejected:
		effects.LogTag = models.ActionTagReportRejected
	}
	return effects
}

func (t statusEffects) logMessage(reportID int) string {
	switch t.LogTag {
	case models.ActionTagReportHandled:
		return fmt.Sprintf("handled modreport #%d", reportID)
	case models.ActionTagReportRejected:
		return fmt.Sprintf("rejected modreport #%d", reportID)
	}
	return ""
}

// UpdateReportStatus writes a new status as the acting moderator uH.
// On a genuine transition it notifies the reporter (handled only) and
// records a mod action; repeated identical writes are no-ops.
func (h *SiteH) UpdateReportStatus(ctx context.Context, uH UserH, reportID int, newStatus models.ReportStatus) (*models.ReportView, error) {
	if !h.perms.HandleReport {
		return nil, models.ErrPermDenied
	}
	if !newStatus.Valid() {
		return nil, models.ErrInvalidFormat
	}

	var effects statusEffects
	var creatorID int
	err := execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		var prev models.ReportStatus
		sql, args, _ := psql.
			Select("status", "creator_id").
			From("moderation_reports").
			Where(sq.Eq{"id": reportID}).
			Suffix("FOR UPDATE").
			ToSql()
		row := tx.QueryRow(ctx, sql, args...)
		err := row.Scan(&prev, &creatorID)
		if pgxscan.NotFound(err) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		effects = effectsForTransition(prev, newStatus, creatorID, h.config.SystemUserID)
		if newStatus == prev {
			return nil
		}

		sql, args, _ = psql.
			Update("moderation_reports").
			Set("status", newStatus).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": reportID}).
			ToSql()
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, err
	}

	if effects.NotifyCreator {
		actionURL, _ := url.Parse(fmt.Sprintf("/reports/%d", reportID))
		err := h.notifService.Send(ctx, &models.Notification{
			NotifType: models.NotifTypeReportHandled,
			Title:     "Your report was handled",
			Text:      "Thank you for reporting. Action was taken against the content you reported.",
			ActionURL: *actionURL,
		}, creatorID)
		if err != nil {
			h.logger.Error().Err(err).Int("report_id", reportID).
				Msg("Failed to notify the reporter")
		}
	}
	if msg := effects.logMessage(reportID); msg != "" {
		err := h.modLog.Record(ctx, msg, effects.LogTag, uH.id)
		if err != nil {
			h.logger.Error().Err(err).Int("report_id", reportID).
				Msg("Failed to record the mod action")
		}
	}

	return readReportView(ctx, h.sharedDB, reportID)
}

// ListReports returns every report for moderators, and only the
// caller's own reports for everyone else.
func (h *SiteH) ListReports(ctx context.Context, uH *UserH) ([]models.ReportView, error) {
	query := selectReportView()
	if !h.perms.ViewAllReports {
		if uH == nil {
			return nil, models.ErrPermDenied
		}
		query = query.Where(sq.Eq{"moderation_reports.creator_id": uH.id})
	}
	sql, args, _ := query.ToSql()

	reports := []models.ReportView{}
	err := pgxscan.Select(ctx, h.sharedDB, &reports, sql, args...)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// SearchReports applies filter on top of the caller's visibility.
func (h *SiteH) SearchReports(ctx context.Context, uH *UserH, filter models.ReportFilter) ([]models.ReportView, error) {
	query := selectReportView()
	if !h.perms.ViewAllReports {
		if uH == nil {
			return nil, models.ErrPermDenied
		}
		query = query.Where(sq.Eq{"moderation_reports.creator_id": uH.id})
	}

	if filter.ID != nil {
		query = query.Where(sq.Eq{"moderation_reports.id": *filter.ID})
	}
	if filter.CreatorID != nil {
		query = query.Where(sq.Eq{"moderation_reports.creator_id": *filter.CreatorID})
	}
	if filter.TargetType != nil {
		query = query.Where(sq.Eq{"moderation_reports.target_type": *filter.TargetType})
	}
	if filter.TargetID != nil {
		query = query.Where(sq.Eq{"moderation_reports.target_id": *filter.TargetID})
	}
	if filter.Status != nil {
		query = query.Where(sq.Eq{"moderation_reports.status": *filter.Status})
	}
	if filter.ReasonContains != "" {
		query = query.Where("moderation_reports.reason ILIKE ?",
			fmt.Sprintf("%%%s%%", filter.ReasonContains))
	}
	if filter.CreatedAfter != nil {
		query = query.Where(sq.GtOrEq{"moderation_reports.created_at": *filter.CreatedAfter})
	}
	if filter.CreatedBefore != nil {
		query = query.Where(sq.LtOrEq{"moderation_reports.created_at": *filter.CreatedBefore})
	}
	if filter.UpdatedAfter != nil {
		query = query.Where(sq.GtOrEq{"moderation_reports.updated_at": *filter.UpdatedAfter})
	}
	if filter.UpdatedBefore != nil {
		query = query.Where(sq.LtOrEq{"moderation_reports.updated_at": *filter.UpdatedBefore})
	}

	sql, args, _ := query.ToSql()
	reports := []models.ReportView{}
	err := pgxscan.Select(ctx, h.sharedDB, &reports, sql, args...)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func readReportView(ctx context.Context, db DBTX, reportID int) (*models.ReportView, error) {
	view := &models.ReportView{}
	sql, args, _ := selectReportView().
		Where(sq.Eq{"moderation_reports.id": reportID}).
		ToSql()
	err := pgxscan.Get(ctx, db, view, sql, args...)
	if pgxscan.NotFound(err) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return view, nil
}
