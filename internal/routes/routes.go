package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/corvna/modboard/internal/db"
	"gitlab.com/corvna/modboard/internal/models"
)

type ctxKey int

const (
	UserHCtxKey ctxKey = iota
	SiteHCtxKey
)

type Routes struct {
	envConfig *models.EnvConfig
	db        *db.SharedDB
	logger    zerolog.Logger
}

func NewRouter(config *models.EnvConfig, database *db.SharedDB, logger zerolog.Logger) chi.Router {
	routes := &Routes{
		envConfig: config,
		db:        database,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(logger))
	r.Use(routes.AuthCtx)
	r.Use(routes.SiteCtx)

	r.Post("/signup", routes.AppHandler(routes.PostSignup))
	r.Post("/login", routes.AppHandler(routes.PostLogin))
	r.With(routes.EnforceCtx(UserHCtxKey)).Post("/signout", routes.AppHandler(routes.PostSignout))

	r.Route("/reports", routes.ReportsRouter)
	r.Route("/dmails", routes.DmailsRouter)
	r.Route("/comments", routes.CommentsRouter)
	r.Route("/forum", routes.ForumRouter)

	r.With(routes.EnforceCtx(UserHCtxKey)).Get("/notifications", routes.AppHandler(routes.GetNotifications))
	r.With(routes.EnforceCtx(UserHCtxKey)).Get("/modlog", routes.AppHandler(routes.GetModLog))
	return r
}

type AppError interface {
	error
	Code() int
}

type ErrInternal struct {
	Message string
	Cause   error
}

func (e *ErrInternal) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "internal server error"
}
func (e *ErrInternal) Code() int { return http.StatusInternalServerError }
func (e *ErrInternal) Unwrap() error { return e.Cause }

type ErrBadRequest struct {
	Cause error
}

func (e *ErrBadRequest) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "bad request"
}
func (e *ErrBadRequest) Code() int { return http.StatusBadRequest }
func (e *ErrBadRequest) Unwrap() error { return e.Cause }

type ErrNotFound struct {
	Thing string
	Cause error
}

func (e *ErrNotFound) Error() string { return e.Thing + " not found" }
func (e *ErrNotFound) Code() int     { return http.StatusNotFound }
func (e *ErrNotFound) Unwrap() error { return e.Cause }

type ErrForbidden struct {
	Cause error
}

func (e *ErrForbidden) Error() string { return "not enough permissions" }
func (e *ErrForbidden) Code() int     { return http.StatusForbidden }
func (e *ErrForbidden) Unwrap() error { return e.Cause }

type ErrMustLogin struct{}

func (e *ErrMustLogin) Error() string { return "you must login first" }
func (e *ErrMustLogin) Code() int     { return http.StatusUnauthorized }

func (routes *Routes) AppHandler(handler func(w http.ResponseWriter, r *http.Request) AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}
		renderJSON(w, err.Code(), struct {
			Error string `json:"error"`
		}{err.Error()})

		hlog.FromRequest(r).
			Error().
			Str("request_id", middleware.GetReqID(r.Context())).
			Err(err).
			Msg(err.Error())
	}
}

// mapDBErr turns db layer sentinels into the matching AppError.
func mapDBErr(err error) AppError {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return &ErrNotFound{Thing: "resource", Cause: err}
	case errors.Is(err, models.ErrPermDenied):
		return &ErrForbidden{Cause: err}
	case errors.Is(err, models.ErrEmptyReason),
		errors.Is(err, models.ErrBadTargetType),
		errors.Is(err, models.ErrDuplicateReport),
		errors.Is(err, models.ErrInvalidFormat),
		errors.Is(err, models.ErrEmailAlreadyUsed),
		errors.Is(err, models.ErrWeakPasswd),
		errors.Is(err, models.ErrBanned):
		return &ErrBadRequest{Cause: err}
	}
	return &ErrInternal{Cause: err}
}

func renderJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// AuthCtx resolves the token cookie into a *db.UserH. A missing or
// stale token is not an error: the request just runs anonymous.
func (routes *Routes) AuthCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("token")
		if err == nil {
			userH, err := routes.db.GetUserH(r.Context(), cookie.Value)
			if err == nil {
				ctx := context.WithValue(r.Context(), UserHCtxKey, &userH)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (routes *Routes) SiteCtx(next http.Handler) http.Handler {
	return routes.AppHandler(func(w http.ResponseWriter, r *http.Request) AppError {
		userH, _ := r.Context().Value(UserHCtxKey).(*db.UserH)
		siteH, err := routes.db.GetSiteH(r.Context(), userH)
		if err != nil {
			return &ErrInternal{Cause: err}
		}
		ctx := context.WithValue(r.Context(), SiteHCtxKey, siteH)
		next.ServeHTTP(w, r.WithContext(ctx))
		return nil
	})
}

// EnforceCtx rejects requests missing the given context value.
func (routes *Routes) EnforceCtx(key ctxKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return routes.AppHandler(func(w http.ResponseWriter, r *http.Request) AppError {
			if r.Context().Value(key) == nil {
				return &ErrMustLogin{}
			}
			next.ServeHTTP(w, r)
			return nil
		})
	}
}

func GetUserH(r *http.Request) *db.UserH {
	userH, _ := r.Context().Value(UserHCtxKey).(*db.UserH)
	return userH
}

func GetSiteH(r *http.Request) *db.SiteH {
	siteH, _ := r.Context().Value(SiteHCtxKey).(*db.SiteH)
	return siteH
}
