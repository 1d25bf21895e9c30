package main

import (
	"context"
	"os"

	"zoovio-backend/config"
	"zoovio-backend/internal/database"
	"zoovio-backend/internal/logger"
	"zoovio-backend/internal/migrate"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDBForMigration(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	if err := migrate.MigrateStoreDB(context.Background(), db, log, migrate.DefaultMigrateOptions()); err != nil {
		log.Fatal("Миграция завершилась с ошибкой", zap.Error(err))
	}
	log.Info("Миграция выполнена успешно")
}
