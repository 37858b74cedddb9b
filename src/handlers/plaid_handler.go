package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"horizon-server/src/db"
	sql "horizon-server/src/db/sql"
	"horizon-server/src/metrics"
	"horizon-server/src/models"
	"horizon-server/src/plaid"
	"horizon-server/src/workflow"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateLinkToken(orc *workflow.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.Context().Value("user").(*models.User)

		linkToken, err := orc.CreateLinkToken(r.Context(), user)
		if err != nil {
			log.Printf("ERROR: Link token creation failed for user %s: %v", user.ID, err)
			writeWorkflowError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"link_token": linkToken,
		})
	}
}

func ExchangePublicToken(orc *workflow.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.Context().Value("user").(*models.User)

		var req struct {
			PublicToken string `json:"public_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode exchange public token request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.PublicToken == "" {
			http.Error(w, "public_token is required", http.StatusBadRequest)
			return
		}

		if err := orc.CompleteBankLink(r.Context(), req.PublicToken, user); err != nil {
			log.Printf("ERROR: Bank link failed for user %s: %v", user.ID, err)
			metrics.BankLinks.WithLabelValues(outcomeLabel(err)).Inc()
			writeWorkflowError(w, err)
			return
		}
		metrics.BankLinks.WithLabelValues("success").Inc()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"publicTokenExchange": "complete",
		})
	}
}

func GetBanks(orc *workflow.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.Context().Value("user").(*models.User)

		banks, err := orc.ListBanks(r.Context(), user)
		if err != nil {
			log.Printf("ERROR: Failed to list banks for user %s: %v", user.ID, err)
			writeWorkflowError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(banks)
	}
}

func GetBalances(orc *workflow.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.Context().Value("user").(*models.User)

		summary, err := orc.Balances(r.Context(), user)
		if err != nil {
			log.Printf("ERROR: Failed to aggregate balances for user %s: %v", user.ID, err)
			writeWorkflowError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}

// PlaidWebhook verifies the aggregator's webhook signature and drops
// cached views for the user whose item changed balance-relevant state.
func PlaidWebhook(verifier *plaid.WebhookVerifier, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := verifier.Verify(r.Context(), body, r.Header); err != nil {
			log.Printf("ERROR: Webhook verification failed: %v", err)
			http.Error(w, "unverified webhook", http.StatusUnauthorized)
			return
		}

		var payload struct {
			WebhookType string `json:"webhook_type"`
			WebhookCode string `json:"webhook_code"`
			ItemID      string `json:"item_id"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		log.Printf("INFO: Plaid webhook %s/%s for item %s", payload.WebhookType, payload.WebhookCode, payload.ItemID)
		if payload.ItemID != "" {
			userID, err := sql.GetUserIDForBankItem(r.Context(), pool, payload.ItemID)
			if err != nil {
				log.Printf("ERROR: Failed to resolve item %s to a user: %v", payload.ItemID, err)
			} else if userID != "" {
				db.InvalidateBankViews(userID)
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}
