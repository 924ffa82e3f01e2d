package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/reevit/reevit-go/lib/mytime"
	"github.com/reevit/reevit-go/lib/myuuid"
	"github.com/reevit/reevit-go/services/fakereevit"
	"github.com/reevit/reevit-go/services/health"
)

// Runs an in-memory sandbox of the Reevit payments API for local development.
func main() {
	c := context.Background()

	// A missing .env is fine: plain environment variables work too.
	_ = godotenv.Load()

	latency, err := sandboxLatency()
	if err != nil {
		log.Fatalf("Error parsing REEVIT_SANDBOX_LATENCY: %s", err)
	}

	router := mux.NewRouter()

	backend, cleanup, err := fakereevit.NewWebService(c, mytime.RealNower{}, myuuid.RealUUIDer{}, latency)
	if err != nil {
		log.Fatalf("Error creating sandbox backend: %s", err)
	}
	defer cleanup()

	err = backend.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering sandbox endpoints: %s", err)
	}

	err = health.NewService(backend).RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering health endpoints: %s", err)
	}

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	startWebServerBlocking(otelhttp.NewHandler(router, "reevit-sandbox"))
}

func sandboxLatency() (time.Duration, error) {
	value := os.Getenv("REEVIT_SANDBOX_LATENCY")
	if value == "" {
		return 0, nil
	}
	return time.ParseDuration(value)
}

func startWebServerBlocking(handler http.Handler) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), handler)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
