// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/sudais391/hirezy-project/internal/ats"
	"github.com/sudais391/hirezy-project/internal/database"
)

// MyServer holds the dependencies shared by every route handler.
type MyServer struct {
	DB *database.DBinstanceStruct
	AI *ats.Client
}

// NewServer constructs the HTTP server: database connection, evaluation
// client, routes and timeouts.
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialized: %s", err)
	}

	ai, err := ats.NewClientFromEnv()
	if err != nil {
		log.Fatalf("Evaluation client failed to initialize: %s", err)
	}

	s := &MyServer{
		DB: db,
		AI: ai,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
