package main

import (
	"context"
	"flag"
	"os"

	"github.com/damoang/angple-moderation/internal/config"
	"github.com/damoang/angple-moderation/internal/database"
	"github.com/damoang/angple-moderation/internal/migration"
	"github.com/damoang/angple-moderation/internal/repository"
	pkglogger "github.com/damoang/angple-moderation/pkg/logger"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv()
	pkglogger.InitStructured(os.Getenv("APP_ENV"))
	log := pkglogger.GetLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}
	db, err := database.Open(cfg.Database, logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	policies, err := repository.NewPolicyRepository(db).FindAll(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read policies")
	}
	for _, p := range policies {
		log.Info().Str("content_type", string(p.ContentType)).Bool("active", p.IsActive).Msg("policy")
	}
	log.Info().Int("tables", len(migration.Models())).Msg("migration completed")
}
