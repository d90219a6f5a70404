package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roamstack/travel-concierge/src/ai/core"
	_ "github.com/roamstack/travel-concierge/src/ai/gemini"
	"github.com/roamstack/travel-concierge/src/api"
	"github.com/roamstack/travel-concierge/src/config"
	"github.com/roamstack/travel-concierge/src/mcpclient"
	"github.com/roamstack/travel-concierge/src/orchestrator"
)

func main() {
	cfg := config.Load()

	model, err := core.NewClient(core.FactoryConfig{
		Provider:        cfg.ModelProvider,
		Model:           cfg.GeminiModel,
		MaxOutputTokens: cfg.MaxTokens,
		GeminiKey:       cfg.GeminiKey,
	})
	if err != nil {
		log.Fatalf("model client: %v", err)
	}

	manager := mcpclient.NewManager(mcpclient.NewStdioSpawner("travel-concierge", "1.0.0"))
	defer manager.Disconnect()

	dispatcher := orchestrator.NewDispatcher(manager, model)

	router := api.New(cfg, manager, dispatcher)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("Concierge API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
