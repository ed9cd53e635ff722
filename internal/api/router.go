package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "ddsync/internal/api/context"
	"ddsync/internal/api/handlers"
	"ddsync/internal/api/middleware"
)

type Dependencies struct {
	WebhookHandler  *handlers.WebhookHandler
	CheckoutHandler *handlers.CheckoutHandler
	AuthHandler     *handlers.AuthHandler
	BillingHandler  *handlers.BillingHandler
	HealthHandler   *handlers.HealthHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	// Provider-facing webhook endpoint
	router.POST("/webhook", wrap(deps.WebhookHandler.Handle))

	// Checkout flow
	router.POST("/api/v1/checkout/flows", wrap(deps.CheckoutHandler.Begin))
	router.POST("/api/v1/checkout/flows/:flow_id/complete", wrap(deps.CheckoutHandler.Complete))

	// Operator API
	router.POST("/api/v1/auth/login", wrap(deps.AuthHandler.Login))

	authMid := deps.AuthMiddleware
	router.GET("/api/v1/recurring/:trxn_id",
		chain(deps.BillingHandler.GetRecurring, authMid.Handle))
	router.GET("/api/v1/deliveries",
		chain(deps.BillingHandler.ListDeliveries, authMid.Handle))

	router.GET("/health", wrap(deps.HealthHandler.Check))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
