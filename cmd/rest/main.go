package main

import (
	"context"
	"log"
	"time"

	"docbuilder-be/internal/bootstrap"
	"docbuilder-be/internal/config"
	"docbuilder-be/internal/server"
	"docbuilder-be/internal/tracer"
	"docbuilder-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Background expiry sweep for sent/viewed documents past their deadline
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			expired, err := container.DocumentService.ExpireOverdue(context.Background())
			if err != nil {
				log.Printf("Background expiry sweep error: %v", err)
				continue
			}
			if expired > 0 {
				log.Printf("Expired %d overdue documents", expired)
			}
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
