package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"voice-of-kalki/internal/ai"
	"voice-of-kalki/internal/identity"
	"voice-of-kalki/internal/localcache"
	"voice-of-kalki/internal/redisclient"
	"voice-of-kalki/internal/remotestore"
	"voice-of-kalki/internal/server"
	"voice-of-kalki/internal/social"
	"voice-of-kalki/internal/storage"
	"voice-of-kalki/internal/store"
	"voice-of-kalki/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		if cfg.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required")
		}
		fetcher := ai.NewClient(ai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		})

		// Redis feed cache
		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		ttl, err := time.ParseDuration(cfg.News.FeedCacheTTL)
		if err != nil {
			return fmt.Errorf("invalid news.feed_cache_ttl: %w", err)
		}
		feedCache := storage.NewFeedCache(rdb, ttl)

		// Remote store is optional; without it the service runs local-only.
		var remote *remotestore.Store
		if cfg.Postgres.URL != "" {
			db, err := remotestore.Connect(cfg.Postgres.URL)
			if err != nil {
				return fmt.Errorf("connecting to postgres: %w", err)
			}
			defer db.Close()
			remote = remotestore.New(db)
			ctxSchema, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
			err = remote.EnsureSchema(ctxSchema)
			cancelSchema()
			if err != nil {
				return fmt.Errorf("ensuring schema: %w", err)
			}
			slog.Info("serve: remote store connected")
		} else {
			slog.Info("serve: no postgres url, running local-only")
		}

		var storeRemote store.Remote
		var socialStore server.SocialStore
		if remote != nil {
			storeRemote = remote
			socialStore = remote
		}
		mgr := store.NewManager(cfg.Cache.Dir, storeRemote)
		defer mgr.Close()

		// Instance-level anonymous identity for requests without a user_id.
		instCache, err := localcache.Open(filepath.Join(cfg.Cache.Dir, "instance.db"))
		if err != nil {
			return fmt.Errorf("opening instance cache: %w", err)
		}
		defer instCache.Close()
		anonID, err := identity.AnonymousID(instCache)
		if err != nil {
			return fmt.Errorf("resolving anonymous identity: %w", err)
		}

		publisher := social.NewPublisher(15 * time.Second)
		srv := server.New(fetcher, feedCache, mgr, socialStore, publisher).
			WithAnonymousUser(anonID).
			WithDefaultCity(cfg.News.DefaultCity)
		if remote != nil {
			srv = srv.WithArticleStore(remote).WithInterestStore(remote)
		}

		httpSrv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: srv.Router(),
		}
		go func() {
			slog.Info("serve: http listening", "addr", cfg.Server.Addr)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("http server error: %v", err)
			}
		}()

		ws := []worker.Worker{}
		if remote != nil {
			interval, err := time.ParseDuration(cfg.Social.PollInterval)
			if err != nil {
				return fmt.Errorf("invalid social.poll_interval: %w", err)
			}
			slog.Info("starting post scheduler", "interval", interval)
			ws = append(ws, &worker.PostScheduler{
				Store:     remote,
				Publisher: publisher,
				Interval:  interval,
			})
		}
		wmgr := worker.NewManager(ws...)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		if err := wmgr.Start(ctx); err != nil {
			return err
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
