package db

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/corvna/modboard/internal/models"
)

// SiteH is the site-wide handle. It carries the caller's derived
// permissions and the collaborator services used by report side
// effects.
type SiteH struct {
	sharedDB     DBTX
	config       *models.EnvConfig
	logger       zerolog.Logger
	perms        models.Perms
	notifService *notificationService
	modLog       *modLogService
	spam         *spamDetector
}

func (sdb *SharedDB) GetSiteH(ctx context.Context, uH *UserH) (*SiteH, error) {
	perms := models.Perms{}
	if uH != nil {
		roles, err := listUserRoles(ctx, sdb.db, uH.id)
		if err != nil {
			return nil, err
		}
		perms = models.PermsForRoles(roles)
	}

	return &SiteH{
		sharedDB:     sdb.db,
		config:       sdb.config,
		logger:       sdb.logger,
		perms:        perms,
		notifService: NewNotificationService(sdb.db),
		modLog:       NewModLogService(sdb.db),
		spam:         NewSpamDetector(sdb.db),
	}, nil
}

func (h *SiteH) Perms() models.Perms {
	return h.perms
}

func (h *SiteH) ReadPublicUser(ctx context.Context, userID int) (*models.UserView, error) {
	return readPublicUser(ctx, h.sharedDB, userID)
}

func (h *SiteH) ListNotifs(ctx context.Context, userH *UserH) ([]models.NotifView, error) {
	if !userH.perms.Read {
		return nil, models.ErrPermDenied
	}
	return h.notifService.List(ctx, userH.id)
}

func (h *SiteH) DeleteNotif(ctx context.Context, userH *UserH, notifID int) error {
	if !userH.perms.Read {
		return models.ErrPermDenied
	}
	return h.notifService.Delete(ctx, userH.id, notifID)
}

func (h *SiteH) ListModActions(ctx context.Context) ([]models.ModAction, error) {
	if !h.perms.ViewAllReports {
		return nil, models.ErrPermDenied
	}
	return h.modLog.List(ctx)
}
