package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/api"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/config"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/database"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/ai"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/auth"
	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/notes/xiaohongshu"
)

func main() {
	logger := slog.New(newColorHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := initializeServices(); err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	extractor := xiaohongshu.New(config.Cookie, config.UserAgent, config.FetchTimeout)
	manager := auth.New(config.SessionSecret, config.SessionTTL)

	var aiClient *ai.Client
	if config.OpenAIKey != "" {
		prompts, err := ai.LoadPrompts(config.PromptsFile)
		if err != nil {
			log.Fatal(err)
		}
		aiClient = ai.New(config.OpenAIKey, config.OpenAIBaseURL, config.OpenAIModel, prompts)
	} else {
		slog.Warn("OPENAI_API_KEY not set, rewrite and story endpoints are disabled")
	}

	r := router.New()
	modules.Load(r, manager, extractor, aiClient)

	server := &fasthttp.Server{
		Name:    "xhsnotes",
		Handler: api.CORS(r.Handler),
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		slog.Info("Received stop signal, shutting down")
		if err := server.Shutdown(); err != nil {
			slog.Error("Server shutdown failed",
				"error", err.Error())
		}
	}()

	addr := fmt.Sprintf(":%d", config.HTTPPort)
	slog.Info("Server listening",
		"address", addr)
	if err := server.ListenAndServe(addr); err != nil {
		log.Fatal(err)
	}
}
