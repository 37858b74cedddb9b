package api

import (
	"net/http"

	"horizon-server/src/handlers"
	"horizon-server/src/metrics"
	"horizon-server/src/middleware"
	"horizon-server/src/plaid"
	"horizon-server/src/workflow"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRouter(orc *workflow.Orchestrator, verifier *plaid.WebhookVerifier, pool *pgxpool.Pool, isDemo bool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.DemoModeMiddleware(isDemo))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	authLimiter := middleware.NewAuthRateLimiter(10)

	r.Route("/api", func(r chi.Router) {
		r.With(authLimiter.Middleware).Post("/sign-up", handlers.SignUp(orc))
		r.With(authLimiter.Middleware).Post("/sign-in", handlers.SignIn(orc))
		r.Post("/logout", handlers.Logout(orc))
		r.Get("/me", handlers.Me(orc))
		r.Post("/plaid/webhook", handlers.PlaidWebhook(verifier, pool))

		// Protected routes
		r.With(middleware.SessionAuthMiddleware(orc)).Group(func(r chi.Router) {
			r.Post("/plaid/create-link-token", handlers.CreateLinkToken(orc))
			r.Post("/plaid/exchange-public-token", handlers.ExchangePublicToken(orc))
			r.Get("/banks", handlers.GetBanks(orc))
			r.Get("/banks/balances", handlers.GetBalances(orc))
		})
	})

	return r
}
