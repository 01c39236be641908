package routes

import (
	"net/http"

	"gitlab.com/corvna/modboard/internal/models"
)

func (routes *Routes) PostSignup(w http.ResponseWriter, r *http.Request) AppError {
	req := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}

	user := models.User{Name: req.Name, Email: req.Email}
	_, err := routes.db.CreateUser(r.Context(), &user, req.Password)
	if err != nil {
		return mapDBErr(err)
	}
	renderJSON(w, http.StatusCreated, user)
	return nil
}

func (routes *Routes) PostLogin(w http.ResponseWriter, r *http.Request) AppError {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}

	token, err := routes.db.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return mapDBErr(err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	renderJSON(w, http.StatusOK, struct {
		Token string `json:"token"`
	}{token})
	return nil
}

func (routes *Routes) PostSignout(w http.ResponseWriter, r *http.Request) AppError {
	cookie, err := r.Cookie("token")
	if err != nil {
		return &ErrMustLogin{}
	}
	if err := routes.db.Signout(r.Context(), cookie.Value); err != nil {
		return &ErrInternal{Cause: err}
	}
	http.SetCookie(w, &http.Cookie{Name: "token", Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
	return nil
}
