package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"parakeet/internal/config"
	"parakeet/internal/repository/jsonstore"
	"parakeet/internal/service"
	"parakeet/internal/store"

	"github.com/joho/godotenv"
)

// Seeds a starter PARA workspace so the frontend has something to show
// on first run. Safe to re-run only with --fresh, which wipes the store.
func main() {
	fresh := flag.Bool("fresh", false, "Wipe the store before seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "prod" && *fresh {
		log.Fatalf("Refusing to wipe the store in production")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	var dataStore store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open Postgres store: %v", err)
		}
		defer pg.Close()
		dataStore = pg
	} else {
		jf, err := store.NewJSONFile(cfg.DataFile)
		if err != nil {
			log.Fatalf("Failed to open JSON store: %v", err)
		}
		dataStore = jf
	}

	if *fresh {
		if err := dataStore.Update(ctx, func(d *store.Data) error {
			*d = store.Data{}
			return nil
		}); err != nil {
			log.Fatalf("Failed to wipe store: %v", err)
		}
		logger.Info("store wiped")
	}

	paraRepo := jsonstore.NewParaRepository(dataStore, logger)
	para := service.NewParaService(paraRepo, logger)

	project, err := para.CreateProject(ctx, service.CreateProjectRequest{
		Title:    "Thesis draft",
		Goal:     "Submit chapter 1 for review",
		Deadline: "2026-10-15",
	})
	if err != nil {
		log.Fatalf("Failed to seed project: %v", err)
	}

	area, err := para.CreateArea(ctx, service.CreateAreaRequest{
		Title:     "Literature review",
		ProjectID: &project.ID,
	})
	if err != nil {
		log.Fatalf("Failed to seed area: %v", err)
	}

	if _, err := para.CreateArea(ctx, service.CreateAreaRequest{Title: "Health"}); err != nil {
		log.Fatalf("Failed to seed standalone area: %v", err)
	}

	if _, err := para.CreateResource(ctx, service.CreateResourceRequest{
		Title: "PARA method overview",
		URL:   "https://fortelabs.com/blog/para/",
		Notes: "Reference for the organizing model",
	}); err != nil {
		log.Fatalf("Failed to seed resource: %v", err)
	}

	tasks := []service.CreateTaskRequest{
		{Title: "Outline chapter 1", Priority: "high", ParentType: "project", ParentID: project.ID},
		{Title: "Collect citations", Priority: "medium", ParentType: "area", ParentID: area.ID},
		{Title: "Skim related surveys", Priority: "low", ParentType: "area", ParentID: area.ID},
	}
	for _, req := range tasks {
		if _, err := para.CreateTask(ctx, req); err != nil {
			log.Fatalf("Failed to seed task %q: %v", req.Title, err)
		}
	}

	logger.Info("seed complete",
		"projects", 1,
		"areas", 2,
		"resources", 1,
		"tasks", len(tasks),
	)
}
