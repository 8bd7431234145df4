package main

import (
	"SchoolDesk/bot"
	"SchoolDesk/impl/core"
	"SchoolDesk/internal/config"
	"SchoolDesk/internal/database"
	"SchoolDesk/internal/http-server/api"
	"SchoolDesk/internal/lib/logger"
	"SchoolDesk/internal/lib/sl"
	"SchoolDesk/internal/ws"
	"context"
	"flag"
	"log/slog"
	"time"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	if conf.Telegram.Enabled {
		tgBot, err := bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			var level slog.Level
			if err = level.UnmarshalText([]byte(conf.Telegram.MinLevel)); err != nil {
				level = slog.LevelError
			}
			lg = logger.SetupTelegramHandler(lg, tgBot, level)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
				slog.String("min_level", level.String()),
			).Info("telegram alerts enabled")
		}
	}

	lg.Info("starting schooldesk", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(conf, lg)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		handler.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	} else {
		handler.SetRepository(repository.NewMemory())
		lg.Warn("mongo disabled, sessions kept in memory")
	}

	lg.With(
		slog.String("url", conf.SchoolApi.BaseURL),
		slog.Duration("timeout", conf.SchoolApi.Timeout),
	).Info("school api configured")

	hub := ws.NewHub(lg.With(sl.Module("ws")))
	hub.SetHandler(handler)
	handler.SetNotifier(hub)
	go hub.Run()

	go handler.RunCleanup(context.Background(), time.Hour)

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
