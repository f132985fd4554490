package logger

import (
	"io"
	"os"

	"golang.org/x/exp/slog"

	"concursync/internal/config"
	"concursync/internal/utils/logger/slogpretty"
)

// New создает логгер под окружение: local цветной, dev и prod в JSON.
// Непустой level заменяет уровень окружения.
func New(env, level string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		log = setupPrettySlog(parseLevel(level, slog.LevelDebug))
	case config.EnvDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level, slog.LevelDebug)}))
	case config.EnvProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level, slog.LevelInfo)}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level, slog.LevelInfo)}))
	}

	return log
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: level},
	}
	return slog.New(opts.NewPrettyHandler(os.Stdout))
}

// parseLevel уровень из строки вида "debug", "WARN", "info+2"; пустая или неверная строка дает fallback
func parseLevel(level string, fallback slog.Level) slog.Level {
	if level == "" {
		return fallback
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fallback
	}
	return l
}

// Discard логгер для тестов и тихого режима CLI
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
