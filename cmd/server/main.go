package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/botornot/api/internal/adapters/decoy/ai21"
	httphandler "github.com/botornot/api/internal/adapters/handler/http"
	"github.com/botornot/api/internal/adapters/notifier/webhook"
	"github.com/botornot/api/internal/adapters/repository/memory"
	"github.com/botornot/api/internal/adapters/repository/postgres"
	"github.com/botornot/api/internal/adapters/repository/themefile"
	"github.com/botornot/api/internal/adapters/scheduler"
	"github.com/botornot/api/internal/config"
	"github.com/botornot/api/internal/core/domain"
	"github.com/botornot/api/internal/core/ports"
	"github.com/botornot/api/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("failed to load theme catalog: %v", err)
	}
	log.Printf("loaded %d themes", catalog.Len())

	decoyProvider := ai21.NewClient(cfg.AI21APIKey,
		ai21.WithBaseURL(cfg.AI21BaseURL),
		ai21.WithModel(cfg.AI21Model),
	)

	store := memory.NewSessionStore()
	gameService := services.NewGameService(store, catalog, decoyProvider)

	sched := scheduler.New()
	notifier := webhook.NewNotifier(cfg.CallbackURLTemplate)

	gameHandler := httphandler.NewGameHandler(gameService, sched, notifier, cfg.PhaseTimeout)
	themeHandler := httphandler.NewThemeHandler(gameService)
	handler := httphandler.NewHandler(gameHandler, themeHandler)

	server := &stdhttp.Server{Addr: "0.0.0.0:" + cfg.Port, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

// loadCatalog prefers the theme database, then the themes file, then a
// built-in placeholder list. An empty catalog from any source aborts
// startup.
func loadCatalog(cfg *config.Config) (*domain.ThemeCatalog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo ports.ThemeRepository
	if cfg.PostgresConfigured() {
		db, err := sql.Open("postgres", cfg.PostgresConnString())
		if err != nil {
			return nil, err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return nil, err
		}
		repo = postgres.NewThemeRepository(db)
	} else {
		repo = themefile.NewThemeRepository(cfg.ThemesFile)
	}

	themes, err := repo.ListThemes(ctx)
	if err != nil {
		log.Printf("theme source unavailable, using fallback list: %v", err)
		themes = themefile.Fallback(100)
	}

	return domain.NewThemeCatalog(themes)
}
