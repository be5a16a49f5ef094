//
// writerhub
// =========
// Content-management backend for an article publishing workflow: writers
// draft articles, editors publish them, companies sponsor them.
//
// Boot the server:
// ----------------
// $ go run . -config config.example.yaml
//
// Client requests:
// ----------------
// $ curl -X POST -d '{"email":"jane.doe@example.com","password":"password456"}' http://localhost:3001/auth/login
// {"success":true,"message":"Login successful","data":{"id":2,...,"accessToken":"...","refreshToken":"..."}}
//
// $ curl -H "Authorization: Bearer $TOKEN" -X POST \
//     -d '{"image":"/uploads/a.png","title":"A","link":"l","date":"2024-01-01","content":"c","companyId":1}' \
//     http://localhost:3001/articles
// {"success":true,"message":"Article created successfully","data":{"id":1,"status":"For Edit",...}}
//
// $ curl http://localhost:3001/articles
// {"success":true,"data":[{"id":1,...,"writerName":"Jane Doe","editorName":null}]}
//
// Route docs: `go run . -routes`. Metrics: http://localhost:9999/metrics.
//
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/metric/global"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/SergeyParamoshkin/writerhub/internal/auth"
	"github.com/SergeyParamoshkin/writerhub/internal/config"
	"github.com/SergeyParamoshkin/writerhub/internal/metrics"
	"github.com/SergeyParamoshkin/writerhub/internal/server"
	"github.com/SergeyParamoshkin/writerhub/internal/storage/sqldb"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		routes     = flag.Bool("routes", config.GetEnvBool("ROUTES", false), "Generate router documentation")
		configPath = flag.String("config", config.GetEnv("CONFIG", ""), "path to the YAML config file")
		addr       = flag.String("addr", config.GetEnv("ADDR", ""), "application address, overrides the config file")
		diagAddr   = flag.String("diag_addr", config.GetEnv("DIAG_ADDR", ""), "diag address, overrides the config file")
	)

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *diagAddr != "" {
		cfg.DiagAddr = *diagAddr
	}

	// Passing -routes to the program will generate docs for the router.
	if *routes {
		tokens := auth.NewTokens("routes", "docs", cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
		app := server.New(cfg, nil, tokens, metrics.New(global.Meter(metrics.ServiceName)), zap.NewNop().Sugar())
		fmt.Println(server.RoutesDoc(app.Router()))

		return
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	if err := run(cfg, sugar); err != nil {
		sugar.Errorw("writerhub stopped", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, sugar *zap.SugaredLogger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		sugar.Infow("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	db, err := sqldb.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := server.Bootstrap(ctx, db, cfg.Seed, sugar); err != nil {
		return errors.Wrap(err, "bootstrap database")
	}

	tokens, err := server.NewTokens(cfg.Auth, sugar)
	if err != nil {
		return err
	}

	exporter, err := metrics.NewExporter()
	if err != nil {
		return err
	}

	app := server.New(cfg, db, tokens, metrics.New(global.Meter(metrics.ServiceName)), sugar)

	api := &http.Server{Addr: cfg.Addr, Handler: app.Router()}
	diag := &http.Server{Addr: cfg.DiagAddr, Handler: server.DiagRouter(exporter)}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range []*http.Server{api, diag} {
		srv := srv
		g.Go(func() error {
			sugar.Infow("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrapf(err, "serve %s", srv.Addr)
			}

			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := api.Shutdown(shutdownCtx); err != nil {
			sugar.Warnw("api shutdown", "error", err)
		}

		return diag.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	return zcfg.Build()
}
