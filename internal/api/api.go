// Package api holds the JSON envelope and the middleware shared by
// every endpoint, so CORS and session plumbing live in exactly one
// place.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/valyala/fasthttp"
)

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Success(ctx *fasthttp.RequestCtx, data any) {
	writeJSON(ctx, fasthttp.StatusOK, Response{Success: true, Data: data})
}

func Failure(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, Response{Success: false, Error: message})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json; charset=utf-8")
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		slog.Error("Failed to encode response",
			"error", err.Error())
	}
}

var ErrBadRequestBody = errors.New("invalid request body")

func ReadJSON(ctx *fasthttp.RequestCtx, v any) error {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		return ErrBadRequestBody
	}
	return nil
}

func CORS(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
		ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}
		next(ctx)
	}
}

const userIDKey = "user_id"

// VerifyFunc resolves a session token to a user id.
type VerifyFunc func(token string) (int64, error)

// RequireAuth accepts the session either as a cookie or as a bearer
// token and stores the resolved user id on the request context.
func RequireAuth(verify VerifyFunc, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		token := string(ctx.Request.Header.Cookie("session"))
		if token == "" {
			header := string(ctx.Request.Header.Peek("Authorization"))
			token = strings.TrimPrefix(header, "Bearer ")
		}
		if token == "" {
			Failure(ctx, fasthttp.StatusUnauthorized, "not logged in")
			return
		}

		userID, err := verify(token)
		if err != nil {
			Failure(ctx, fasthttp.StatusUnauthorized, "invalid or expired session")
			return
		}

		ctx.SetUserValue(userIDKey, userID)
		next(ctx)
	}
}

func UserID(ctx *fasthttp.RequestCtx) int64 {
	if id, ok := ctx.UserValue(userIDKey).(int64); ok {
		return id
	}
	return 0
}
