package main

import (
	"context"
	"log"

	"paintpro/internal/config"
	"paintpro/internal/db"
	"paintpro/internal/gateway"
	"paintpro/internal/gateway/document"
	pggateway "paintpro/internal/gateway/postgres"
	"paintpro/internal/model"
	"paintpro/internal/service"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	gw, err := openGateway(cfg)
	if err != nil {
		log.Fatalf("Failed to open gateway: %v", err)
	}
	log.Printf("Connected to %s backend", cfg.GatewayBackend)

	ctx := context.Background()

	profileID, created, err := seedDefaultProfile(ctx, gw)
	if err != nil {
		log.Fatalf("Failed to seed profile: %v", err)
	}
	if created {
		log.Printf("Created default profile (id %d)", profileID)
	} else {
		log.Printf("Default profile already present (id %d)", profileID)
	}

	seeded, err := seedSampleJobs(ctx, gw, profileID)
	if err != nil {
		log.Fatalf("Failed to seed jobs: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Sample jobs created: %d", seeded)
}

func openGateway(cfg *config.Config) (gateway.Gateway, error) {
	switch cfg.GatewayBackend {
	case config.BackendDocument:
		return document.Open(cfg.DocumentDBPath)
	default:
		gormDB, err := db.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		gw := pggateway.New(gormDB)
		if err := gw.Migrate(); err != nil {
			return nil, err
		}
		return gw, nil
	}
}

// seedDefaultProfile creates the default profile unless a roster already
// exists, in which case its first entry is reused as the sample-data owner.
func seedDefaultProfile(ctx context.Context, gw gateway.Gateway) (int64, bool, error) {
	existing, err := gw.Profiles().List(ctx)
	if err != nil {
		return 0, false, err
	}
	if len(existing) > 0 {
		return existing[0].ID, false, nil
	}

	profile := model.DefaultProfile()
	profile.ID = 0 // let the backend assign it
	if err := gw.Profiles().Insert(ctx, &profile); err != nil {
		return 0, false, err
	}
	return profile.ID, true, nil
}

// seedSampleJobs inserts the demo ledger, skipping job numbers that already
// exist so the script stays re-runnable.
func seedSampleJobs(ctx context.Context, gw gateway.Gateway, ownerID int64) (int, error) {
	existing, err := gw.Jobs().ListByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	present := make(map[string]struct{}, len(existing))
	for _, j := range existing {
		present[j.JobNumber] = struct{}{}
	}

	seeded := 0
	for _, job := range service.SampleJobs(ownerID) {
		if _, ok := present[job.JobNumber]; ok {
			continue
		}
		job.ID = 0 // let the backend assign it
		if err := gw.Jobs().Insert(ctx, &job); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
