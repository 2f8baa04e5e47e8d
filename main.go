package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

//	@title			Chatstack Uploads Service
//	@version		1.0
//	@description	Chunked upload and compose pipeline over an object store.
//	@BasePath		/api/v1

func main() {
	app, err := SetupApp()
	if err != nil {
		log.Fatalf("failed to set up app: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go app.Services.Sweeper.Run(ctx)

	r := BuildRouter(app)

	go func() {
		app.Logger.Info("uploads service listening", "addr", app.Config.UploadsAddr)
		if err := app.Run(r); err != nil && err != http.ErrServerClosed {
			app.Logger.Error("server exited", "err", err.Error())
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	app.Logger.Info("shutdown signal received")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("shutdown failed", "err", err.Error())
	}
}
