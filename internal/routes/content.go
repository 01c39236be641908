package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gitlab.com/corvna/modboard/internal/models"
	"gitlab.com/corvna/modboard/internal/render"
)

func (routes *Routes) DmailsRouter(r chi.Router) {
	r.Use(routes.EnforceCtx(UserHCtxKey))
	r.Get("/", routes.AppHandler(routes.GetDmails))
	r.Post("/", routes.AppHandler(routes.PostDmail))
}

func (routes *Routes) CommentsRouter(r chi.Router) {
	r.With(routes.EnforceCtx(UserHCtxKey)).Post("/", routes.AppHandler(routes.PostComment))
}

func (routes *Routes) ForumRouter(r chi.Router) {
	r.Get("/topics/{topicID}", routes.AppHandler(routes.GetForumTopic))
	r.With(routes.EnforceCtx(UserHCtxKey)).Post("/topics", routes.AppHandler(routes.PostForumTopic))
	r.With(routes.EnforceCtx(UserHCtxKey)).Post("/topics/{topicID}/posts", routes.AppHandler(routes.PostForumPost))
}

func (routes *Routes) PostDmail(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	siteH := GetSiteH(r)

	req := struct {
		ToUserID int    `json:"to_user_id"`
		Title    string `json:"title"`
		Body     string `json:"body"`
	}{}
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}

	dmail := models.Dmail{ToUserID: req.ToUserID, Title: req.Title, Body: req.Body}
	if err := siteH.CreateDmail(r.Context(), *userH, &dmail); err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusCreated, dmail)
	return nil
}

func (routes *Routes) GetDmails(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	siteH := GetSiteH(r)

	dmails, err := siteH.ListDmails(r.Context(), *userH)
	if err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusOK, dmails)
	return nil
}

func (routes *Routes) PostComment(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	siteH := GetSiteH(r)

	req := struct {
		Body string `json:"body"`
	}{}
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}

	comment := models.Comment{Body: req.Body}
	if err := siteH.CreateComment(r.Context(), *userH, &comment); err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusCreated, comment)
	return nil
}

func (routes *Routes) PostForumTopic(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	siteH := GetSiteH(r)

	req := struct {
		Title string `json:"title"`
	}{}
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}

	topic := models.ForumTopic{Title: req.Title, MinLevel: models.LevelMember}
	if err := siteH.CreateForumTopic(r.Context(), *userH, &topic); err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusCreated, topic)
	return nil
}

func (routes *Routes) PostForumPost(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	siteH := GetSiteH(r)

	topicID, err := strconv.Atoi(chi.URLParam(r, "topicID"))
	if err != nil {
		return &ErrBadRequest{Cause: err}
	}
	req := struct {
		Body string `json:"body"`
	}{}
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}

	post := models.ForumPost{TopicID: topicID, Body: req.Body}
	if err := siteH.CreateForumPost(r.Context(), *userH, &post); err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusCreated, post)
	return nil
}

type forumPostView struct {
	models.ForumPost
	BodyHTML string `json:"body_html"`
}

func (routes *Routes) GetForumTopic(w http.ResponseWriter, r *http.Request) AppError {
	siteH := GetSiteH(r)

	topicID, err := strconv.Atoi(chi.URLParam(r, "topicID"))
	if err != nil {
		return &ErrBadRequest{Cause: err}
	}
	topic, posts, err := siteH.ReadForumTopic(r.Context(), topicID)
	if err != nil {
		return mapDBErr(err)
	}

	postViews := make([]forumPostView, 0, len(posts))
	for _, p := range posts {
		postViews = append(postViews, forumPostView{
			ForumPost: p,
			BodyHTML:  render.Markdown(p.Body),
		})
	}
	renderJSON(w, http.StatusOK, struct {
		Topic *models.ForumTopic `json:"topic"`
		Posts []forumPostView    `json:"posts"`
	}{topic, postViews})
	return nil
}

func (routes *Routes) GetNotifications(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	siteH := GetSiteH(r)

	notifs, err := siteH.ListNotifs(r.Context(), userH)
	if err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusOK, notifs)
	return nil
}

func (routes *Routes) GetModLog(w http.ResponseWriter, r *http.Request) AppError {
	siteH := GetSiteH(r)

	actions, err := siteH.ListModActions(r.Context())
	if err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusOK, actions)
	return nil
}
