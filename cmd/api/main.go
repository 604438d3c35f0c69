// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dca-oilgas/internal/app"
	"dca-oilgas/internal/config"
)

var BuildVersion = "dev" // diisi saat ldflags

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[ERROR] config: %v", err)
	}

	a := app.New(cfg) // <-- inisialisasi + inject repo & planner
	defer a.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      a.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // SSE forecast panjang
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[INFO] %s %s (%s) running on :%s", cfg.AppName, BuildVersion, cfg.AppEnv, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("[INFO] Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] Server forced to shutdown: %v", err)
	}
}
