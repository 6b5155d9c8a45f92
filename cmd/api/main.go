package main

import (
	"log"

	"github.com/sudais391/hirezy-project/internal/server"
)

func main() {
	srv := server.NewServer()

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("cannot start server: %s", err)
	}
}
