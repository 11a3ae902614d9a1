package main

import (
	"log"

	"practice-backend/internal/bootstrap"
	"practice-backend/internal/shared/config"
	"practice-backend/internal/shared/server"
	"practice-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer telemetry.Sync()

	addr := server.Addr(app.Config.Port)
	telemetry.Info("api.start", map[string]any{"addr": addr, "env": app.Config.Env})

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
