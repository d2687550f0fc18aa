package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"moodlist/internal/api"
	"moodlist/internal/config"
	"moodlist/internal/dialogue"
	"moodlist/internal/llm"
	"moodlist/internal/notify"
	redisdb "moodlist/internal/redis"
	"moodlist/internal/session"
	"moodlist/internal/slots"
	"moodlist/internal/spotify"
	"moodlist/internal/tools"
)

const reviewTemperature = 0.3

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("[Main] No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	secrets := config.LoadSecrets()
	if secrets.SpotifyClientID == "" || secrets.SpotifyClientSecret == "" {
		fmt.Fprintln(os.Stderr, "SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set")
		os.Exit(1)
	}

	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	var store session.Store
	if cfg.Session.Backend == "redis" {
		rdb := redisdb.NewClient(cfg)
		store = session.NewRedisStore(rdb, ttl)
		log.Printf("[Main] Using redis session store at %s", cfg.Redis.Addr)
	} else {
		store = session.NewMemoryStore(ttl)
		log.Printf("[Main] Using in-memory session store (ttl %s)", ttl)
	}

	catalog, err := spotify.NewClientCredentials(context.Background(), secrets.SpotifyClientID, secrets.SpotifyClientSecret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Spotify auth error: %v\n", err)
		os.Exit(1)
	}

	generator := llm.NewOpenAIClient(
		secrets.OpenAIAPIKey,
		cfg.LLM.BaseURL,
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second,
	)

	var reviewer *dialogue.Reviewer
	if cfg.Review.Enabled {
		reviewer = dialogue.NewReviewer(generator.WithTemperature(reviewTemperature))
		log.Printf("[Main] Review loop enabled")
	}

	dispatcher := tools.NewDispatcher(catalog, time.Duration(cfg.Tools.TimeoutSeconds)*time.Second)
	machine := dialogue.NewMachine(slots.DefaultSchema())
	orchestrator := dialogue.NewOrchestrator(store, machine, generator, dispatcher, reviewer, cfg.Tools.SearchLimit)

	deps := api.Deps{Conversation: orchestrator}
	if cfg.RocketChat.WebhookURL != "" {
		deps.Notifier = notify.NewRocketChatNotifier(cfg.RocketChat.WebhookURL, 10*time.Second)
		log.Printf("[Main] Rocket.Chat notifications enabled")
	}

	r := api.SetupRouter(cfg, deps)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
