package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	httpapi "github.com/yourorg/property-api/http"
	"github.com/yourorg/property-api/internal/config"
	"github.com/yourorg/property-api/internal/enrich"
	"github.com/yourorg/property-api/internal/logger"
	"github.com/yourorg/property-api/mls"
	"github.com/yourorg/property-api/supabase"
)

func BuildRouter(cfg config.Config, log *slog.Logger, mlsClient *mls.Client, store *supabase.RowStore, auth *supabase.AuthClient) http.Handler {
	enricher := enrich.New(mlsClient, enrich.DefaultConcurrency)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logger.Middleware(log))
	r.Use(httprate.LimitByIP(100, 1*time.Minute)) // protect upstream quota
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	r.Route("/api", func(api chi.Router) {
		httpapi.RegisterProperties(api, httpapi.PropertiesDeps{
			MLS: mlsClient, Enricher: enricher, DefaultLimit: cfg.DefaultLimit, Log: log,
		})
		httpapi.RegisterCollections(api, httpapi.CollectionsDeps{
			Store: store, Verifier: auth, Log: log,
		})
		httpapi.RegisterAuth(api, httpapi.AuthDeps{
			Auth: auth, Verifier: auth, Store: store, Log: log,
		})
		httpapi.RegisterHome(api, httpapi.HomeDeps{
			MLS: mlsClient, Enricher: enricher, Store: store, Verifier: auth,
			DefaultLimit: cfg.DefaultLimit, Log: log,
		})
	})

	return r
}
