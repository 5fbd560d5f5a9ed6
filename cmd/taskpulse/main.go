// Command taskpulse runs the analytics pipeline against the local task
// store and prints the result. It doubles as an end-to-end smoke check
// of the wiring in internal/di.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"taskpulse/internal/config"
	"taskpulse/internal/di"
	"taskpulse/internal/domain/entities"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	userID := flag.String("user", "", "user to analyze")
	period := flag.String("period", "week", "analysis period: week, month or year")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer func() {
		if err := container.Shutdown(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	ctx := context.Background()

	if *userID == "" {
		users, err := container.TaskStore.ListUsers(ctx)
		if err != nil {
			log.Fatalf("failed to list users: %v", err)
		}
		if len(users) == 0 {
			fmt.Println("no task data yet")
			return
		}
		*userID = users[0]
	}

	out, err := container.Analytics.ExportAnalytics(ctx, *userID, entities.Period(*period))
	if err != nil {
		log.Fatalf("failed to generate analytics: %v", err)
	}

	fmt.Fprintln(os.Stdout, out)
}
