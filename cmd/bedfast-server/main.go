package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"

	"github.com/bedfast/access-service/internal/auth"
	"github.com/bedfast/access-service/internal/bedfast/service"
	"github.com/bedfast/access-service/internal/bedfast/store/memory"
	redisstore "github.com/bedfast/access-service/internal/bedfast/store/redis"
	sqlitestore "github.com/bedfast/access-service/internal/bedfast/store/sqlite"
	"github.com/bedfast/access-service/internal/config"
	"github.com/bedfast/access-service/internal/db"
	"github.com/bedfast/access-service/internal/grpcapi"
	"github.com/bedfast/access-service/internal/grpcapp"
	"github.com/bedfast/access-service/internal/httpapi"
	"github.com/bedfast/access-service/internal/notify"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bedfast-server: %v\n", err)
		os.Exit(1)
	}

	log := setupLogger(cfg.Env, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open stores", zap.Error(err))
	}
	defer closeStores()

	opts := service.Options{
		Policy:       cfg.Policy(),
		PaymentDelay: cfg.Access.PaymentDelay,
	}
	notifier := buildNotifier(cfg, log)

	evaluator := service.NewWindowEvaluator(opts)
	catalog := service.NewCatalog(stores.Properties)
	bookings := service.NewBookingService(stores, notifier, opts, log)
	guestAccess := service.NewGuestAccessService(stores, notifier, opts, log)
	viewings := service.NewViewingService(stores, opts, log)

	sweeper := service.NewSweeper(stores.Bookings, stores.Events, service.SweeperConfig{
		Spec:          cfg.Sweep.Spec,
		RetentionDays: cfg.Sweep.EventRetentionDays,
	}, opts, log)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatal("failed to start sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:      log,
		Addr:        cfg.HTTP.Addr,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Verifier:    auth.NewVerifier(cfg.JWTSecret),
		Evaluator:   evaluator,
		Catalog:     catalog,
		Bookings:    bookings,
		GuestAccess: guestAccess,
		Viewings:    viewings,
	})

	errCh := make(chan error, 2)
	go func() {
		log.Info("http server started", zap.String("addr", cfg.HTTP.Addr), zap.String("env", cfg.Env))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var app *grpcapp.App
	if cfg.GRPC.Addr != "" {
		app = grpcapp.New(log, cfg.GRPC.Addr, func(s *grpc.Server) {
			grpcapi.Register(s, log, evaluator, guestAccess)
		})
		go func() {
			if err := app.Run(); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("server stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if app != nil {
		app.Stop()
	}
}

// openStores wires the configured persistence backend. The returned func
// releases whatever was opened.
func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (service.Stores, func(), error) {
	var (
		st      service.Stores
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Store {
	case "sqlite":
		conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env}, log)
		if err != nil {
			return service.Stores{}, nil, err
		}
		writer := db.NewWorker(conn)
		closers = append(closers, func() {
			writer.Close()
			if err := conn.Close(); err != nil {
				log.Warn("failed to close database", zap.Error(err))
			}
		})
		st = service.Stores{
			Properties: sqlitestore.NewPropertyStore(conn),
			Bookings:   sqlitestore.NewBookingStore(conn, writer),
			Viewings:   sqlitestore.NewViewingStore(conn, writer),
			GuestPINs:  sqlitestore.NewGuestPINStore(conn, writer),
			Events:     sqlitestore.NewAccessEventStore(conn, writer),
		}
	default:
		st = service.Stores{
			Properties: memory.NewPropertyStore(db.DemoProperties()),
			Bookings:   memory.NewBookingStore(),
			Viewings:   memory.NewViewingStore(),
			GuestPINs:  memory.NewGuestPINStore(),
			Events:     memory.NewAccessEventStore(),
		}
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			closeAll()
			return service.Stores{}, nil, err
		}
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				log.Warn("failed to close redis client", zap.Error(err))
			}
		})
		st.Syncs = redisstore.NewSyncStore(client, cfg.Redis.SyncTTL)
	} else {
		st.Syncs = memory.NewSyncStore()
	}

	log.Info("stores ready", zap.String("backend", cfg.Store), zap.Bool("redis_sync", cfg.Redis.Addr != ""))
	return st, closeAll, nil
}

// buildNotifier routes email through SendGrid and SMS through Twilio when
// they are configured. Anything unrouted is logged.
func buildNotifier(cfg config.Config, log *zap.Logger) notify.Notifier {
	routes := map[notify.Channel]notify.Notifier{}

	if cfg.SendGrid.APIKey != "" {
		sg, err := notify.NewSendGridNotifier(notify.SendGridConfig{
			APIKey:    cfg.SendGrid.APIKey,
			FromEmail: cfg.SendGrid.FromEmail,
			FromName:  cfg.SendGrid.FromName,
		}, log)
		if err != nil {
			log.Warn("sendgrid disabled", zap.Error(err))
		} else {
			routes[notify.ChannelEmail] = sg
		}
	}
	if cfg.Twilio.AccountSID != "" {
		tw, err := notify.NewTwilioNotifier(notify.TwilioConfig{
			AccountSID: cfg.Twilio.AccountSID,
			AuthToken:  cfg.Twilio.AuthToken,
			FromNumber: cfg.Twilio.FromNumber,
		}, log)
		if err != nil {
			log.Warn("twilio disabled", zap.Error(err))
		} else {
			routes[notify.ChannelSMS] = tw
		}
	}

	return notify.Multi{Routes: routes, Fallback: notify.NewLogNotifier(log)}
}

func setupLogger(env, level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLogLevel(level))

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
