package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gitlab.com/corvna/modboard/internal/models"
)

func (routes *Routes) ReportsRouter(r chi.Router) {
	r.Get("/", routes.AppHandler(routes.GetReports))
	r.Get("/search", routes.AppHandler(routes.SearchReports))
	r.With(routes.EnforceCtx(UserHCtxKey)).Post("/", routes.AppHandler(routes.PostReport))
	r.With(routes.EnforceCtx(UserHCtxKey)).Put("/{reportID}/status", routes.AppHandler(routes.PutReportStatus))
}

func (routes *Routes) PostReport(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	siteH := GetSiteH(r)

	req := struct {
		Reason     string `json:"reason"`
		TargetType string `json:"target_type"`
		TargetID   int    `json:"target_id"`
	}{}
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}

	report, err := siteH.CreateReport(r.Context(), *userH, models.ReportReq{
		Reason:     req.Reason,
		TargetType: models.TargetType(req.TargetType),
		TargetID:   req.TargetID,
	})
	if err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusCreated, report)
	return nil
}

func (routes *Routes) PutReportStatus(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	siteH := GetSiteH(r)

	reportID, err := strconv.Atoi(chi.URLParam(r, "reportID"))
	if err != nil {
		return &ErrBadRequest{Cause: err}
	}
	req := struct {
		Status string `json:"status"`
	}{}
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}

	report, err := siteH.UpdateReportStatus(r.Context(), *userH, reportID, models.ReportStatus(req.Status))
	if err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusOK, report)
	return nil
}

func (routes *Routes) GetReports(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	siteH := GetSiteH(r)

	reports, err := siteH.ListReports(r.Context(), userH)
	if err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusOK, reports)
	return nil
}

func (routes *Routes) SearchReports(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	siteH := GetSiteH(r)

	filter, appErr := reportFilterFromQuery(r)
	if appErr != nil {
		return appErr
	}
	reports, err := siteH.SearchReports(r.Context(), userH, filter)
	if err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusOK, reports)
	return nil
}

func reportFilterFromQuery(r *http.Request) (models.ReportFilter, AppError) {
	filter := models.ReportFilter{}
	q := r.URL.Query()

	intParam := func(name string) (*int, error) {
		if q.Get(name) == "" {
			return nil, nil
		}
		v, err := strconv.Atoi(q.Get(name))
		return &v, err
	}
	timeParam := func(name string) (*time.Time, error) {
		if q.Get(name) == "" {
			return nil, nil
		}
		v, err := time.Parse(time.RFC3339, q.Get(name))
		return &v, err
	}

	var err error
	if filter.ID, err = intParam("id"); err != nil {
		return filter, &ErrBadRequest{Cause: err}
	}
	if filter.CreatorID, err = intParam("creator_id"); err != nil {
		return filter, &ErrBadRequest{Cause: err}
	}
	if filter.TargetID, err = intParam("target_id"); err != nil {
		return filter, &ErrBadRequest{Cause: err}
	}
	if t := q.Get("target_type"); t != "" {
		targetType := models.TargetType(t)
		if !targetType.Valid() {
			return filter, &ErrBadRequest{Cause: models.ErrBadTargetType}
		}
		filter.TargetType = &targetType
	}
	if s := q.Get("status"); s != "" {
		status := models.ReportStatus(s)
		if !status.Valid() {
			return filter, &ErrBadRequest{Cause: models.ErrInvalidFormat}
		}
		filter.Status = &status
	}
	filter.ReasonContains = q.Get("reason")
	if filter.CreatedAfter, err = timeParam("created_after"); err != nil {
		return filter, &ErrBadRequest{Cause: err}
	}
	if filter.CreatedBefore, err = timeParam("created_before"); err != nil {
		return filter, &ErrBadRequest{Cause: err}
	}
	if filter.UpdatedAfter, err = timeParam("updated_after"); err != nil {
		return filter, &ErrBadRequest{Cause: err}
	}
	if filter.UpdatedBefore, err = timeParam("updated_before"); err != nil {
		return filter, &ErrBadRequest{Cause: err}
	}
	return filter, nil
}
