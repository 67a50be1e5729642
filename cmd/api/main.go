package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"roster/backend/foundation/logger"
	"roster/backend/foundation/web"
	"roster/backend/internal/auth"
	"roster/backend/internal/commands"
	"roster/backend/internal/pkg/config"
	"roster/backend/internal/pkg/repository/postgresql"
	"roster/backend/internal/router"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, uerr := config.Usage(&config.Config{})
			if uerr != nil {
				fmt.Println("generating config usage:", uerr)
				os.Exit(1)
			}
			fmt.Println(usage)
			return
		}
		fmt.Println("parsing config:", err)
		os.Exit(1)
	}

	log, err := logger.New("ROSTER-API", cfg.Debug)
	if err != nil {
		fmt.Println("constructing logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log, cfg); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger, cfg *config.Config) error {
	ctx := context.Background()

	db, err := postgresql.New(postgresql.Config{
		User:       cfg.DB.Username,
		Password:   cfg.DB.Password,
		Host:       cfg.DB.Host,
		Name:       cfg.DB.Name,
		DisableTLS: cfg.DB.DisableTLS,
		Debug:      cfg.DB.Debug,
	})
	if err != nil {
		return errors.Wrap(err, "connecting to db")
	}
	defer db.Close()

	if err := db.StatusCheck(ctx); err != nil {
		return errors.Wrap(err, "checking db")
	}

	if err := commands.MigrateUP(ctx, db, log); err != nil {
		return errors.Wrap(err, "migrating db")
	}

	// The migrate subcommand stops once the schema is current.
	if cfg.Args.Num(0) == "migrate" {
		log.Infow("migrations complete")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "connecting to redis")
	}

	a, err := auth.New(cfg.Auth.JWTKey, cfg.Auth.TokenTTL)
	if err != nil {
		return errors.Wrap(err, "constructing auth")
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	app := web.NewApp(log)
	router.NewRouter(app, db, rdb, a, log, router.Config{
		AllowedOrigins: cfg.Web.AllowedOrigins,
		UploadBaseDir:  cfg.Upload.BaseDir,
		FlashTTL:       cfg.Redis.FlashTTL,
	}).Init()

	api := http.Server{
		Addr:         cfg.Web.Port,
		Handler:      app,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("api listening", "addr", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")

	case sig := <-shutdown:
		log.Infow("shutdown started", "signal", sig)
		defer log.Infow("shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return errors.Wrap(err, "could not stop server gracefully")
		}
	}

	return nil
}
