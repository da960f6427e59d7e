package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/rentora/rentora/internal/api/v1"
	"github.com/rentora/rentora/internal/api/ws"
	"github.com/rentora/rentora/internal/store/postgres"
)

func registerAPIRoutes(api huma.API, store *postgres.Store, leaseSvc v1.LeaseService, billingSvc v1.BillingService, chatSvc v1.ChatService) {
	v1.RegisterLeaseRoutes(api, store, leaseSvc)
	v1.RegisterBillingRoutes(api, store, billingSvc)
	v1.RegisterNotificationRoutes(api, store)
	v1.RegisterChatRoutes(api, chatSvc)
}

func registerWSRoutes(r chi.Router, handler *ws.Handler) {
	r.Get("/", handler.Serve)
}
