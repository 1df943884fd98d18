// Command seed loads project fixtures from a JSON file into the store.
//
// usage: seed <fixtures.json>
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/patchwork-crafts/patchwork-backend/config"
	"github.com/patchwork-crafts/patchwork-backend/internal/bootstrap"
	"github.com/patchwork-crafts/patchwork-backend/internal/projects/domain"
	"github.com/patchwork-crafts/patchwork-backend/internal/projects/repository"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: seed <fixtures.json>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("read fixtures: %v", err)
	}

	var projects []domain.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		log.Fatalf("parse fixtures: %v", err)
	}

	ctx := context.Background()
	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	defer rdb.Close()

	store := repository.NewStore(rdb)
	for _, p := range projects {
		if err := store.Insert(ctx, p); err != nil {
			log.Fatalf("insert project %s: %v", p.ID, err)
		}
	}

	log.Printf("seeded %d projects", len(projects))
}
