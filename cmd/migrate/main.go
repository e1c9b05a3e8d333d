package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/iliyamo/tattler/internal/config"
	"github.com/iliyamo/tattler/internal/database"
	"github.com/iliyamo/tattler/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|up-to|down-to|redo|reset")
	target := flag.String("version", "", "target version for up-to and down-to")
	flag.Parse()

	log := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	cfg, err := config.Load()
	requireResource(ctx, log, "config", err)

	log = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
	ctx = log.WithFields(ctx, map[string]any{"env": cfg.Env, "cmd": *cmd})

	var args []string
	switch *cmd {
	case "up", "down", "status", "version", "redo", "reset":
	case "up-to", "down-to":
		if *target == "" {
			fmt.Fprintf(os.Stderr, "missing -version for %s\n", *cmd)
			os.Exit(1)
		}
		args = append(args, *target)
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	requireResource(ctx, log, "database", err)
	defer db.Close()

	if err := database.Migrate(ctx, db, *cmd, args...); err != nil {
		log.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	log.Info(ctx, "migration finished")
}

func requireResource(ctx context.Context, log *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	log.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
