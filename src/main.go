package main

import (
	"context"
	"log"
	"net/http"

	"horizon-server/src/api"
	"horizon-server/src/config"
	"horizon-server/src/db"
	sql "horizon-server/src/db/sql"
	"horizon-server/src/identity"
	"horizon-server/src/plaid"
	"horizon-server/src/processor"
	"horizon-server/src/workflow"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("DB migration failed: %v", err)
	}

	db.InitCache()

	// External service clients
	identityClient := identity.NewClient(cfg.IdentityEndpoint, cfg.IdentityProject, cfg.IdentityAPIKey)
	processorClient := processor.NewClient(cfg.ProcessorEndpoint, cfg.ProcessorAPIKey)
	plaidAPI := plaid.NewPlaidClient(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnv)

	orc := workflow.NewOrchestrator(
		identityClient,
		processorClient,
		plaid.NewLinkClient(plaidAPI),
		sql.NewStore(pool),
		cfg.SharableIDSecret,
		cfg.RecordSealKey,
	)

	// Router
	router := api.NewRouter(orc, plaid.NewWebhookVerifier(plaidAPI), pool, cfg.IsDemo)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
