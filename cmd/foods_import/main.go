package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/2beens/fitledger/internal/config"
	"github.com/2beens/fitledger/internal/db"
	"github.com/2beens/fitledger/internal/foods"
	"github.com/2beens/fitledger/internal/logging"

	log "github.com/sirupsen/logrus"
)

// foods_import seeds the postgres food_item table from a TOML foods file.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	foodsPath := flag.String("foods", "", "foods TOML file (defaults to foods_path from config)")
	overwrite := flag.Bool("overwrite", false, "overwrite foods that already exist")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	if *foodsPath == "" {
		*foodsPath = cfg.FoodsPath
	}
	table, err := foods.LoadTable(*foodsPath)
	if err != nil {
		log.Fatalf("load foods: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBPassword: os.Getenv("FITLEDGER_POSTGRES_PASS"),
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	imported, skipped, err := importFoods(ctx, foods.NewRepo(dbPool), table.All(), *overwrite)
	if err != nil {
		log.Errorf("import stopped after %d foods: %s", imported, err)
		return
	}
	log.Infof("foods imported: %d, skipped (already present): %d", imported, skipped)
}

type foodWriter interface {
	Insert(ctx context.Context, item foods.FoodItem) error
	Upsert(ctx context.Context, item foods.FoodItem) error
}

func importFoods(ctx context.Context, repo foodWriter, items []foods.FoodItem, overwrite bool) (imported, skipped int, err error) {
	for _, item := range items {
		if overwrite {
			err = repo.Upsert(ctx, item)
		} else {
			err = repo.Insert(ctx, item)
		}

		switch {
		case err == nil:
			imported++
			log.Debugf("imported food [%s] %s", item.ID, item.Name)
		case errors.Is(err, foods.ErrFoodExists):
			skipped++
		default:
			return imported, skipped, err
		}
	}
	return imported, skipped, nil
}
