package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paw-connect/internal/adapters/auth/jwtauth"
	"paw-connect/internal/adapters/directory/keycloak"
	"paw-connect/internal/adapters/objectstore/minio"
	"paw-connect/internal/adapters/ratelimit"
	"paw-connect/internal/adapters/search/elastic"
	"paw-connect/internal/adapters/storage/postgres"
	"paw-connect/internal/config"
	"paw-connect/internal/middleware"
	"paw-connect/internal/platform/logger"
	"paw-connect/internal/platform/retry"
	"paw-connect/internal/ports/auth"
	"paw-connect/internal/ports/directory"
	"paw-connect/internal/ports/objectstore"
	"paw-connect/internal/ports/search"
	"paw-connect/internal/router"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// @title Paw Connect Users API
// @version 1.0
// @description Perfiles de usuario, mascotas, servicios y búsqueda de Paw Connect.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	flush := func() {
		if zl, ok := log.(*logger.ZapLogger); ok {
			_ = zl.Sync()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("server stopped with error", map[string]any{"err": err})
		flush()
		os.Exit(1)
	}
	flush()
}

type deps struct {
	db        *sql.DB
	verifier  auth.AuthVerifier
	directory directory.Directory
	index     search.Index
	store     objectstore.Store
	limiter   middleware.Limiter
	redis     *redis.Client
}

func run(ctx context.Context, cfg config.Config, log logger.Logger) error {
	d, err := bootstrap(ctx, cfg, log)
	if err != nil {
		return err
	}
	if d.db != nil {
		defer d.db.Close()
	}
	if d.redis != nil {
		defer d.redis.Close()
	}

	h := router.NewRouter(router.Options{
		Logger:         log,
		AuthVerifier:   d.verifier,
		DB:             d.db,
		Directory:      d.directory,
		Index:          d.index,
		ObjectStore:    d.store,
		UploadLimiter:  d.limiter,
		MaxUploadBytes: cfg.MediaMaxUploadBytes,
		Retry: retry.Policy{
			MaxAttempts:     cfg.Sync.MaxAttempts,
			InitialInterval: cfg.Sync.InitialInterval,
			MaxInterval:     cfg.Sync.MaxInterval,
			MaxElapsed:      cfg.Sync.MaxElapsed,
		},
		AdminToken: cfg.AdminAPIToken,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// bootstrap arma los clientes externos. Los que no están configurados quedan en nil
// y el router usa las implementaciones in-memory (Validate ya impide eso en producción).
func bootstrap(ctx context.Context, cfg config.Config, log logger.Logger) (deps, error) {
	var d deps

	if cfg.Auth.PublicKey != "" {
		v, err := jwtauth.New(jwtauth.Config{
			PublicKey: cfg.Auth.PublicKey,
			Algorithm: cfg.Auth.Algorithm,
			Leeway:    cfg.Auth.Leeway,
		})
		if err != nil {
			return d, fmt.Errorf("auth verifier: %w", err)
		}
		d.verifier = v
	} else if !cfg.Auth.DevMode {
		return d, errors.New("AUTH_PUBLIC_KEY is required unless AUTH_DEV_MODE is enabled")
	} else {
		log.Warn("auth dev mode: accepting X-Debug-User-ID", nil)
	}

	if cfg.Keycloak.URL != "" {
		c, err := keycloak.NewClient(keycloak.Config{
			BaseURL:      cfg.Keycloak.URL,
			Realm:        cfg.Keycloak.Realm,
			ClientID:     cfg.Keycloak.ClientID,
			ClientSecret: cfg.Keycloak.ClientSecret,
			Timeout:      cfg.Keycloak.Timeout,
		})
		if err != nil {
			return d, fmt.Errorf("keycloak: %w", err)
		}
		d.directory = c
	} else {
		log.Warn("keycloak not configured, using in-memory directory", nil)
	}

	var (
		idx   *elastic.Index
		store *minio.Store
	)
	if len(cfg.Elasticsearch.Addresses) > 0 {
		i, err := elastic.New(elastic.Config{
			Addresses: cfg.Elasticsearch.Addresses,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
			Index:     cfg.Elasticsearch.Index,
		})
		if err != nil {
			return d, err
		}
		idx = i
		d.index = i
	} else {
		log.Warn("elasticsearch not configured, using in-memory index", nil)
	}
	if cfg.Minio.Endpoint != "" {
		s, err := minio.New(minio.Config{
			Endpoint:      cfg.Minio.Endpoint,
			AccessKey:     cfg.Minio.AccessKey,
			SecretKey:     cfg.Minio.SecretKey,
			Bucket:        cfg.Minio.Bucket,
			UseSSL:        cfg.Minio.UseSSL,
			PublicBaseURL: cfg.Minio.PublicBaseURL,
		})
		if err != nil {
			return d, err
		}
		store = s
		d.store = s
	} else {
		log.Warn("minio not configured, using in-memory object store", nil)
	}
	if cfg.Redis.Addr != "" {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	// Postgres, índice, bucket y redis se preparan en paralelo; el primero que falla cancela al resto.
	g, gctx := errgroup.WithContext(ctx)
	if cfg.DatabaseURL != "" {
		g.Go(func() error {
			db, err := postgres.Open(gctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if err := postgres.Migrate(gctx, db); err != nil {
				_ = db.Close()
				return fmt.Errorf("migrate: %w", err)
			}
			d.db = db
			log.Info("postgres ready", nil)
			return nil
		})
	} else {
		log.Warn("DATABASE_URL empty, using in-memory storage", nil)
	}
	if idx != nil {
		g.Go(func() error {
			if err := retry.Poll(gctx, cfg.Elasticsearch.WaitInterval, cfg.Elasticsearch.WaitTimeout, idx.Ping); err != nil {
				return fmt.Errorf("elasticsearch not ready: %w", err)
			}
			if err := idx.EnsureIndex(gctx); err != nil {
				return err
			}
			log.Info("elasticsearch ready", map[string]any{"index": cfg.Elasticsearch.Index})
			return nil
		})
	}
	if store != nil {
		g.Go(func() error {
			if err := store.EnsureBucket(gctx); err != nil {
				return fmt.Errorf("minio: %w", err)
			}
			log.Info("minio ready", map[string]any{"bucket": cfg.Minio.Bucket})
			return nil
		})
	}
	if d.redis != nil {
		g.Go(func() error {
			lim, err := ratelimit.NewFixedWindowLimiter(d.redis, "paw-connect:upload", cfg.UploadRateLimitPerMinute, time.Minute)
			if err != nil {
				return err
			}
			if err := lim.Ping(gctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			d.limiter = lim
			return nil
		})
	} else {
		log.Warn("redis not configured, uploads are not rate limited", nil)
	}

	if err := g.Wait(); err != nil {
		if d.db != nil {
			_ = d.db.Close()
		}
		if d.redis != nil {
			_ = d.redis.Close()
		}
		return deps{}, err
	}
	return d, nil
}
