package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/netlobby-backend/internal/catalog"
	"github.com/DoyleJ11/netlobby-backend/internal/config"
	"github.com/DoyleJ11/netlobby-backend/internal/httpapi"
	"github.com/DoyleJ11/netlobby-backend/internal/hub"
	"github.com/DoyleJ11/netlobby-backend/internal/lobby"
	"github.com/DoyleJ11/netlobby-backend/internal/random"
	"github.com/DoyleJ11/netlobby-backend/internal/session"
	"github.com/DoyleJ11/netlobby-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.DevLogging {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	subs := catalog.NewStatic(catalog.Default())

	var db *store.Store
	if cfg.DatabaseURL != "" {
		s, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Migrate(); err != nil {
			return err
		}
		if err := loadCatalog(ctx, s, subs); err != nil {
			return err
		}
		db = s
	} else {
		logger.Warn("DATABASE_URL not set, using the built-in submarine catalog and no settings persistence")
	}

	h := hub.NewHub(ctx, logger)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, hostFactory(cfg, subs, db, logger), logger)
	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.Inbox() <- hub.ShutdownHub{}
		return srv.Shutdown(shutdownCtx)
	})
	if db != nil {
		g.Go(func() error {
			flushSettings(ctx, h, db, cfg.FlushInterval, logger)
			return nil
		})
	}
	return g.Wait()
}

// loadCatalog seeds an empty submarine table with the built-in list and then
// serves whatever the table holds.
func loadCatalog(ctx context.Context, s *store.Store, subs *catalog.Static) error {
	saved, err := s.ListSubmarines(ctx)
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		if err := s.SaveSubmarines(ctx, catalog.Default()); err != nil {
			return err
		}
		return nil
	}
	subs.Replace(saved)
	return nil
}

func hostFactory(cfg config.Config, subs *catalog.Static, db *store.Store, logger *zap.Logger) httpapi.HostFactory {
	return func(ctx context.Context, code string) (*session.Host, error) {
		settings := cfg.DefaultSettings()
		if db != nil {
			saved, err := db.LoadSettings(ctx, code)
			switch {
			case err == nil:
				settings = saved
			case !errors.Is(err, store.ErrNotFound):
				return nil, err
			}
		}
		return session.NewHost(session.HostConfig{
			Catalog:  subs,
			Settings: settings,
			Seeds:    random.Tokens{},
			Picker:   random.MathPicker{},
			Logger:   logger.With(zap.String("lobby", code)),
		})
	}
}

// flushSettings persists the settings of every lobby whose details changed.
func flushSettings(ctx context.Context, h *hub.Hub, db *store.Store, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		reply := make(chan map[string]*lobby.Lobby, 1)
		select {
		case h.Inbox() <- hub.ListLobbies{Reply: reply}:
		case <-ctx.Done():
			return
		}
		for code, lb := range <-reply {
			settings := lb.Settings()
			if !settings.TakeDetailsChanged() {
				continue
			}
			if err := db.SaveSettings(ctx, code, settings.Values()); err != nil {
				settings.MarkDetailsChanged()
				logger.Error("persisting settings failed", zap.String("lobby", code), zap.Error(err))
			}
		}
	}
}
