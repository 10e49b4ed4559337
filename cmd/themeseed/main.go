// Command themeseed loads a newline-delimited themes file into the theme
// database, replacing whatever list was stored before.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/botornot/api/internal/adapters/repository/postgres"
	"github.com/botornot/api/internal/adapters/repository/themefile"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var dbHost, dbPort, dbUser, dbPass, dbName, themesPath string

	flag.StringVar(&dbHost, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	flag.StringVar(&dbPort, "db-port", os.Getenv("POSTGRES_PORT"), "Database port")
	flag.StringVar(&dbUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	flag.StringVar(&dbPass, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	flag.StringVar(&dbName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	flag.StringVar(&themesPath, "themes", "themes.txt", "Path to the themes file")
	flag.Parse()

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	themes, err := themefile.NewThemeRepository(themesPath).ListThemes(ctx)
	if err != nil {
		log.Fatalf("Error reading themes file: %v", err)
	}
	if len(themes) == 0 {
		log.Fatal("Themes file contains no themes")
	}

	if err := postgres.SaveThemes(ctx, db, themes); err != nil {
		log.Fatalf("Error seeding themes: %v", err)
	}

	log.Printf("Seeded %d themes successfully.", len(themes))
}
