package auth

import (
	"errors"
	"log/slog"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/api"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (m *Manager) registerHandler(ctx *fasthttp.RequestCtx) {
	var creds credentials
	if err := api.ReadJSON(ctx, &creds); err != nil {
		api.Failure(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if creds.Username == "" || creds.Password == "" {
		api.Failure(ctx, fasthttp.StatusBadRequest, "username and password are required")
		return
	}

	hash, err := m.HashPassword(creds.Password)
	if err != nil {
		slog.Error("Failed to hash password",
			"error", err.Error())
		api.Failure(ctx, fasthttp.StatusInternalServerError, "registration failed")
		return
	}

	userID, err := createUser(creds.Username, hash)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			api.Failure(ctx, fasthttp.StatusConflict, ErrUsernameTaken.Error())
			return
		}
		slog.Error("Failed to create user",
			"username", creds.Username,
			"error", err.Error())
		api.Failure(ctx, fasthttp.StatusInternalServerError, "registration failed")
		return
	}

	api.Success(ctx, map[string]any{"user_id": userID})
}

func (m *Manager) loginHandler(ctx *fasthttp.RequestCtx) {
	var creds credentials
	if err := api.ReadJSON(ctx, &creds); err != nil {
		api.Failure(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	userID, hash, err := getUser(creds.Username)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			api.Failure(ctx, fasthttp.StatusUnauthorized, ErrBadCredentials.Error())
			return
		}
		slog.Error("Failed to load user",
			"username", creds.Username,
			"error", err.Error())
		api.Failure(ctx, fasthttp.StatusInternalServerError, "login failed")
		return
	}

	if !m.CheckPassword(hash, creds.Password) {
		api.Failure(ctx, fasthttp.StatusUnauthorized, ErrBadCredentials.Error())
		return
	}

	token := m.IssueToken(userID)

	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey("session")
	cookie.SetValue(token)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	ctx.Response.Header.SetCookie(cookie)

	api.Success(ctx, map[string]any{"token": token, "user_id": userID})
}

func Load(r *router.Router, m *Manager) {
	r.POST("/api/register", m.registerHandler)
	r.POST("/api/login", m.loginHandler)
}
