// Command seed fills the mention store with sample data for local demos.
//
//	seed -brand Tesla -count 10
//	SEED_CLEAR=1 seed -brand Apple
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/brand-mentions/internal/repo"
	"github.com/tbourn/brand-mentions/internal/services"
	"github.com/tbourn/brand-mentions/internal/sysutil"
)

func main() {
	_ = godotenv.Load()
	level := sysutil.SetLogLevel(os.Getenv("LOG_LEVEL"))

	dbPath := flag.String("db", sysutil.FirstNonEmpty(os.Getenv("DB_PATH"), "./brand_tracker.db"), "path to sqlite database")
	brands := flag.String("brand", sysutil.FirstNonEmpty(os.Getenv("SEED_BRAND"), "Tesla"), "comma-separated brands to seed")
	count := flag.Int("count", 10, "mentions per brand")
	wipe := flag.Bool("clear", sysutil.IsTruthy(os.Getenv("SEED_CLEAR")), "delete existing mentions first")
	flag.Parse()
	log.Debug().Str("level", level.String()).Str("db", *dbPath).Msg("seed starting")

	db, err := repo.OpenSQLite(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("open database")
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	ctx := context.Background()
	if *wipe {
		n, err := repo.DeleteAllMentions(ctx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("clear mentions")
		}
		log.Info().Int64("deleted", n).Msg("cleared mentions")
	}

	demo := &services.DemoService{DB: db}
	for _, b := range sysutil.SplitCSV(*brands) {
		rows, err := demo.Seed(ctx, b, *count)
		if err != nil {
			log.Fatal().Err(err).Str("brand", b).Msg("seed")
		}
		log.Info().Str("brand", b).Int("inserted", len(rows)).Msg("seeded mentions")
	}
}
