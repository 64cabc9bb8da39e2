/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and manages
core service dependencies like the database and the analysis pipeline.
*/
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"

	"pulselog/internal/analysis"
	"pulselog/internal/database"
	"pulselog/internal/gemini"
	"pulselog/internal/user"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// db provides access to the database service and connection pool.
	db database.Service

	// analyze is the gateway for the multimodal analysis pipeline.
	analyze *AnalyzeHandler

	// Echo is the underlying web framework instance.
	*echo.Echo
}

// NewServer initializes a new Server instance and returns a configured
// *http.Server. It reads configuration from environment variables and sets
// production-ready network timeouts.
func NewServer() *http.Server {
	// Attempt to parse port from environment; fallback to 8080 if not set or invalid.
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}

	db := database.NewService()
	user.InitUserPackage(db.Pool())

	invoker := gemini.NewClientFromEnv(analysis.SystemPrompt)
	analyzer := analysis.NewAnalyzer(invoker)

	newApp := &Server{
		port: port,
		db:   db,
		analyze: NewAnalyzeHandler(analyzer, AnalyzeDeps{
			Queries:  db.Queries(),
			Profiles: user.Profiles(),
			Env:      os.Getenv("APP_ENV"),
		}),
	}

	// Push live pipeline/system stats to connected monitoring clients.
	go StartStatusBroadcaster(db)

	// Configure the standard library http.Server with the application's router and timeouts.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", newApp.port),
		Handler:      newApp.RegisterRoutes(), // Injected from routes.go
		IdleTimeout:  time.Minute,             // Time to wait for the next request on keep-alive connections.
		ReadTimeout:  30 * time.Second,        // Maximum duration for reading the entire request (media payloads are large).
		WriteTimeout: 2 * time.Minute,         // Model calls dominate response time.
	}

	return server
}
