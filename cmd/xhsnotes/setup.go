package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/config"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/database"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/database/cache"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/utils"
)

func initializeServices() error {
	utils.SetSocksProxy(config.Socks5Proxy)

	if err := database.Open(config.DatabaseFile); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.CreateTables(); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	// The note cache is an optimization, not a dependency.
	if err := cache.Connect(config.RedisAddr, "", 0); err != nil {
		slog.Warn("Redis cache is unavailable, running without it",
			"address", config.RedisAddr,
			"error", err.Error())
	}

	return nil
}

type colorHandler struct {
	handler slog.Handler
	out     io.Writer
	opts    *slog.HandlerOptions
	colors  map[slog.Level]string
}

func newColorHandler(out io.Writer, opts *slog.HandlerOptions) *colorHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &colorHandler{
		handler: slog.NewTextHandler(out, opts),
		out:     out,
		opts:    opts,
		colors: map[slog.Level]string{
			slog.LevelError: "\033[0;31m", // red
			slog.LevelWarn:  "\033[0;33m", // yellow
			slog.LevelInfo:  "\033[0;36m", // cyan
			slog.LevelDebug: "\033[0;32m", // green
		},
	}
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	colorCode, ok := h.colors[r.Level]
	if !ok {
		colorCode = "\033[0m"
	}

	var attrs strings.Builder
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&attrs, " %s=%v", a.Key, a.Value.Any())
		return true
	})

	_, err := fmt.Fprintf(h.out, "\033[90m%s %s%s\033[1;37m: %s\033[0m%s\n",
		r.Time.Format("[01/02 15:04]"),
		colorCode,
		r.Level.String(),
		r.Message,
		attrs.String(),
	)
	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorHandler{
		handler: h.handler.WithAttrs(attrs),
		out:     h.out,
		opts:    h.opts,
		colors:  h.colors,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	return &colorHandler{
		handler: h.handler.WithGroup(name),
		out:     h.out,
		opts:    h.opts,
		colors:  h.colors,
	}
}

func (h *colorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
