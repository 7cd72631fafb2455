package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/saeidalz13/battleship-placement/api"
	"github.com/saeidalz13/battleship-placement/db"
	"github.com/saeidalz13/battleship-placement/db/sqlc"
	"github.com/saeidalz13/battleship-placement/internal/config"
	"github.com/saeidalz13/battleship-placement/internal/logger"
	mb "github.com/saeidalz13/battleship-placement/models/battleship"
	mc "github.com/saeidalz13/battleship-placement/models/connection"
)

func main() {
	if os.Getenv("STAGE") != config.StageProd {
		if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
			panic(err)
		}
	}

	cfg, err := config.Load(viper.New())
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.Stage, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []api.Option{api.WithLogger(log)}
	if cfg.Stage == config.StageProd {
		opts = append(opts, api.WithAllowedOrigins(cfg.AllowedOrigins))
	}

	if cfg.PersistenceEnabled() {
		database := db.MustConnectToDb(cfg.DatabaseUrl, cfg.MigrationDir, log)
		defer database.Close()

		serverInet, err := api.ServerInet()
		if err != nil {
			panic(err)
		}
		opts = append(opts, api.WithFleetSubmitter(sqlc.NewFleetManager(sqlc.New(database), serverInet, log)))
	} else {
		log.Warn().Msg("DATABASE_URL is empty; submitted fleets are kept in memory")
	}

	sessionManager := mc.NewBattleshipSessionManager(cfg.SessionCleanupInterval, log)
	go sessionManager.CleanupPeriodically(ctx)

	rp := api.NewRequestProcessor(sessionManager, mb.NewBattleshipPlacementManager(), opts...)

	mux := http.NewServeMux()
	mux.Handle("GET /placement", rp)

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", cfg.Port).Str("stage", cfg.Stage).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
