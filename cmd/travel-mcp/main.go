package main

import (
	"log"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/roamstack/travel-concierge/src/geocode"
	"github.com/roamstack/travel-concierge/src/travel"
	"github.com/roamstack/travel-concierge/src/webclient"
)

func main() {
	fetcher := webclient.NewFetcher(webclient.NewDefault(30*time.Second), travel.UserAgent)
	resolver := geocode.NewResolver(fetcher, geocode.DefaultEndpoint)
	svc := travel.NewService(fetcher, resolver, travel.DefaultEndpoints())

	mcpServer := server.NewMCPServer("travel", "1.0.0")
	travel.Register(mcpServer, svc)

	log.Printf("travel-mcp serving on stdio")
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
