package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"styledeco/internal/config"
	"styledeco/internal/database"
	"styledeco/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: .env not loaded, using process environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("migrate: config: %v", err)
	}
	if !database.IsPostgres(cfg.DatabaseURL) {
		log.Fatal("migrate: DATABASE_URL must point at Postgres; SQLite schemas are created on startup")
	}

	flag.Parse()
	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command, args := arguments[0], arguments[1:]

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("migrate: open: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("migrate: close: %v", err)
		}
	}()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if err := goose.Run(command, db, ".", args...); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}
	fmt.Printf("goose %s success\n", command)
}
