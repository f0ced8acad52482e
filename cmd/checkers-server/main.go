// Package main implements the checkers server: a JSON API over live rule
// sessions with optional persistence, seat tokens and web UI serving.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkers/cmd/checkers-server/cli"
	"checkers/internal/server/http"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"
	"checkers/internal/server/storage"
	"checkers/internal/server/webserver"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, fixed seat secret)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")

		// Web UI server flags
		serve   = flag.Bool("serve", false, "Enable web UI server")
		webHost = flag.String("web-host", "localhost", "Web UI server host")
		webPort = flag.Int("web-port", 9090, "Web UI server port")
	)
	flag.Parse()

	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}

	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// 1. Storage (optional), closed by the service on shutdown
	var store *storage.Store
	if *storagePath != "" {
		log.Printf("Initializing persistent storage at: %s", *storagePath)
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			store.Close()
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	} else {
		log.Printf("Persistent storage disabled (use -storage-path to enable)")
	}

	// Seat tokens only need to outlive the process
	var seatSecret []byte
	if *dev {
		seatSecret = []byte("dev-secret-minimum-32-characters-long")
		log.Printf("Using fixed seat secret (dev mode)")
	} else {
		seatSecret = make([]byte, 32)
		if _, err := rand.Read(seatSecret); err != nil {
			log.Fatalf("Failed to generate seat secret: %v", err)
		}
		log.Printf("Seat secret generated (seat tokens valid until restart)")
	}

	// 2. Service, 3. Processor, 4. Fiber app
	svc := service.New(store, seatSecret)
	proc := processor.New(svc)
	app := http.NewFiberApp(proc, svc, *dev)

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Printf("Checkers API Server starting...")
		log.Printf("API Listening on: http://%s", apiAddr)
		if *dev {
			log.Printf("Rate Limit: 20 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate Limit: 10 requests/second per IP")
		}
		log.Printf("API Endpoints: http://%s/api/v1/games", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	// 5. Web UI server (optional)
	if *serve {
		webAddr := fmt.Sprintf("%s:%d", *webHost, *webPort)
		apiURL := fmt.Sprintf("http://%s", apiAddr)

		go func() {
			log.Printf("Web UI Listening on: http://%s (API target: %s)", webAddr, apiURL)
			if err := webserver.Start(*webHost, *webPort, apiURL); err != nil {
				log.Printf("Web UI server error: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	// Release long-poll waiters first so in-flight requests can finish
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Servers exited")
}
