// Command seed imports users exported by upstream systems into the configured
// MongoDB database.
//
//	seed -file users.json [-dry-run]
//
// The file holds a JSON array of records; attribute aliases such as full_name
// or orders_count are accepted. Records without an id receive a random one.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/profilehub/membership-service/internal/core/domain"
	"github.com/profilehub/membership-service/internal/core/ports"
	"github.com/profilehub/membership-service/internal/infrastructure/config"
	"github.com/profilehub/membership-service/internal/infrastructure/db/mongo"
	"github.com/profilehub/membership-service/pkg/logger"
)

func main() {
	file := flag.String("file", "users.json", "path to a JSON array of user records")
	dryRun := flag.Bool("dry-run", false, "validate records without writing them")
	flag.Parse()

	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "membership-seed"})

	records, err := readRecords(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to read records")
	}

	var repo ports.UserRepository
	if !*dryRun {
		if cfg.Storage.Driver != config.StorageMongo {
			log.Fatal().Str("driver", cfg.Storage.Driver).Msg("seeding requires STORAGE_DRIVER=mongo; use -dry-run to only validate")
		}
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		users := mongo.NewUserRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure indexes")
		}
		repo = users
	}

	imported, failed := importRecords(ctx, repo, records, time.Now().UTC(), log)
	log.Info().Int("imported", imported).Int("failed", failed).Bool("dry_run", *dryRun).Msg("seed finished")
	if failed > 0 {
		os.Exit(1)
	}
}

func readRecords(path string) ([]domain.ExternalUserRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []domain.ExternalUserRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

// importRecords converts and stores every record, logging and counting the
// ones that fail. A nil repo only validates.
func importRecords(ctx context.Context, repo ports.UserRepository, records []domain.ExternalUserRecord, now time.Time, log zerolog.Logger) (imported, failed int) {
	for i, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}

		user, err := domain.UserFromExternal(rec, now)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Str("email", rec.Email).Msg("skipping invalid record")
			failed++
			continue
		}

		if repo != nil {
			if err := repo.Save(ctx, user); err != nil {
				log.Error().Err(err).Int("index", i).Str("user_id", user.ID()).Msg("failed to store user")
				failed++
				continue
			}
		}
		imported++
	}
	return imported, failed
}
