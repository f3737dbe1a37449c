package main

import (
	"net/http"
	"time"

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/getspindown/spindown/internal/config"
	"github.com/getspindown/spindown/internal/gateway"
)

// gatewayConfig derives the websocket settings from the server config,
// narrowing the upgrade origin check when specific origins are listed.
func gatewayConfig(cfg config.ServerConfig) gateway.Config {
	gc := gateway.DefaultConfig()

	if !allowAllOrigins(cfg.AllowedOrigins) {
		allowed := make(map[string]bool, len(cfg.AllowedOrigins))
		for _, origin := range cfg.AllowedOrigins {
			allowed[origin] = true
		}
		gc.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		}
	}
	return gc
}

func buildServer(cfg config.ServerConfig, gw *gateway.Gateway) *http.Server {
	mux := http.NewServeMux()
	gw.RegisterRoutes(mux)

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})
	handler := c.Handler(mux)

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func allowAllOrigins(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
