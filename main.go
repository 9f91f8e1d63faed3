// apps/go-server/main.go
//
// Entry point of the Net Breach game server.
// Loads .env, configures logging, opens the SQLite database (migrations
// applied), loads the host-name flavor lists and serves HTTP until SIGINT or
// SIGTERM.
//
// Environment:
//   PORT (5175), LOG_LEVEL (info), DB_PATH (./data/app.db), TICK_MS (50),
//   CLIENT_ORIGIN, JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME, DAILY_SALT,
//   SESSION_IDLE_MIN (30), SESSION_ENDED_MIN (5).

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/netbreach/apps/go-server/internal/database"
	"github.com/robalobadob/netbreach/apps/go-server/internal/flavor"
	"github.com/robalobadob/netbreach/apps/go-server/internal/httpserver"
	"github.com/robalobadob/netbreach/apps/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := flavor.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load host name lists")
	}

	db, err := database.OpenMigrated(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(store.NewMemoryStore(), db)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting go-server")
	if err := srv.Start(ctx, ":"+port); err != nil {
		log.Error().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
