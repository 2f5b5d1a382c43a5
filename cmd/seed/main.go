// Command seed provisions the default secretary and resident accounts in a
// development database. It never runs as part of request handling.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/hyperlocal/community/internal/core/service"
	"github.com/hyperlocal/community/internal/infrastructure/db/mongo"
	"github.com/hyperlocal/community/internal/pkg/config"
	"github.com/hyperlocal/community/pkg/logger"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	secEmail := pflag.String("secretary-email", "", "secretary account email (default SEED_SECRETARY_EMAIL)")
	secPass := pflag.String("secretary-password", "", "secretary account password (default SEED_SECRETARY_PASSWORD)")
	resEmail := pflag.String("resident-email", "", "sample resident email (default SEED_RESIDENT_EMAIL)")
	resPass := pflag.String("resident-password", "", "sample resident password (default SEED_RESIDENT_PASSWORD)")
	skipIndexes := pflag.Bool("skip-indexes", false, "do not create collection indexes")
	pflag.Parse()

	_ = godotenv.Load(*envFile)
	cfg := config.Load()

	orDefault(secEmail, cfg.Seed.SecretaryEmail)
	orDefault(secPass, cfg.Seed.SecretaryPassword)
	orDefault(resEmail, cfg.Seed.ResidentEmail)
	orDefault(resPass, cfg.Seed.ResidentPassword)

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, App: "seed", Version: cfg.AppVersion})

	if !cfg.IsDevelopment() {
		fmt.Fprintln(os.Stderr, "seed: refusing to install well-known credentials outside ENV=development")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongo")
	}
	defer client.Disconnect(context.Background())

	if _, err := mongo.NormalizeUserEmails(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("normalizing emails")
	}
	if !*skipIndexes {
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("creating indexes")
		}
	}

	accounts := service.DefaultAccounts(*secEmail, *secPass, *resEmail, *resPass)
	n, err := service.NewSeeder(mongo.NewUserRepository(db), accounts, log).EnsureDefaults(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding accounts")
	}
	log.Info().Int("created", n).Int("configured", len(accounts)).Msg("seed complete")
}

func orDefault(flag *string, fallback string) {
	if *flag == "" {
		*flag = fallback
	}
}
