package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	Cookie        string
	UserAgent     string
	LogLevel      slog.Leveler
	DatabaseFile  string
	RedisAddr     string
	HTTPPort      int
	SessionSecret string
	SessionTTL    time.Duration
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	PromptsFile   string
	FetchTimeout  time.Duration
	Socks5Proxy   string
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded",
			"error", err.Error())
	}

	Cookie = os.Getenv("XHS_COOKIE")
	if Cookie == "" {
		slog.Error(`You need to set the "XHS_COOKIE" in the .env file!`)
		os.Exit(1)
	}

	SessionSecret = os.Getenv("SESSION_SECRET")
	if SessionSecret == "" {
		slog.Error(`You need to set the "SESSION_SECRET" in the .env file!`)
		os.Exit(1)
	}

	UserAgent = os.Getenv("USER_AGENT")
	if UserAgent == "" {
		UserAgent = defaultUserAgent
	}

	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "INFO"
	}
	LogLevel = parseLogLevel(logLevelStr)

	DatabaseFile = os.Getenv("DATABASE_FILE")
	if DatabaseFile == "" {
		DatabaseFile = "xhsnotes.db"
	}

	RedisAddr = os.Getenv("REDIS_ADDR")
	if RedisAddr == "" {
		RedisAddr = "localhost:6379"
	}

	HTTPPort, _ = strconv.Atoi(os.Getenv("HTTP_PORT"))
	if HTTPPort == 0 {
		HTTPPort = 8080
	}

	sessionHours, _ := strconv.Atoi(os.Getenv("SESSION_TTL_HOURS"))
	if sessionHours == 0 {
		sessionHours = 72
	}
	SessionTTL = time.Duration(sessionHours) * time.Hour

	OpenAIKey = os.Getenv("OPENAI_API_KEY")
	OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	OpenAIModel = os.Getenv("OPENAI_MODEL")
	if OpenAIModel == "" {
		OpenAIModel = "gpt-4o-mini"
	}

	PromptsFile = os.Getenv("PROMPTS_FILE")
	if PromptsFile == "" {
		PromptsFile = "internal/modules/ai/prompts.yaml"
	}

	fetchSeconds, _ := strconv.Atoi(os.Getenv("FETCH_TIMEOUT_SECONDS"))
	if fetchSeconds == 0 {
		fetchSeconds = 20
	}
	FetchTimeout = time.Duration(fetchSeconds) * time.Second

	Socks5Proxy = os.Getenv("SOCKS5_PROXY")
}

func parseLogLevel(level string) slog.Leveler {
	levels := map[string]slog.Level{
		"ERROR":   slog.LevelError,
		"INFO":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"WARN":    slog.LevelWarn,
	}

	l, ok := levels[level]
	if !ok {
		l = slog.LevelInfo
	}

	return l
}
