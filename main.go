package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/yourorg/property-api/internal/config"
	"github.com/yourorg/property-api/internal/logger"
	"github.com/yourorg/property-api/mls"
	"github.com/yourorg/property-api/supabase"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	mlsClient := mls.NewClient(cfg.MLSBaseURL, cfg.MLSAuthToken, log)
	store := supabase.NewRowStore(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseServiceKey)
	auth := supabase.NewAuthClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)

	if !mlsClient.Configured() {
		log.Warn("MLS credentials missing; listing endpoints answer 503 until set")
	}
	if !store.Configured() {
		log.Warn("Supabase credentials missing; cart, wishlist and auth endpoints answer 503 until set")
	}

	router := BuildRouter(cfg, log, mlsClient, store, auth)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("property-api listening", "addr", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}
