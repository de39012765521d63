package main

import (
	"fmt"
	"log"
	"net/http"

	"finsight-backend/internal/config"
	"finsight-backend/internal/server"
)

func main() {
	cfg := config.Load()
	s, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	defer s.Close()
	addr := ":" + cfg.Port
	fmt.Printf("FinSight advisory server listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
