package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jengzang/roads-dashboard-go/internal/api"
	"github.com/jengzang/roads-dashboard-go/internal/config"
	"github.com/jengzang/roads-dashboard-go/internal/database"
	"github.com/jengzang/roads-dashboard-go/internal/loader"
	"github.com/jengzang/roads-dashboard-go/internal/log"
	"github.com/jengzang/roads-dashboard-go/internal/middleware"
	"github.com/jengzang/roads-dashboard-go/internal/repository"
	"github.com/jengzang/roads-dashboard-go/internal/service"
	"github.com/jengzang/roads-dashboard-go/internal/store"
)

func main() {
	issueToken := flag.String("issue-token", "", "print an admin token for this subject and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of a token printed by -issue-token")
	flag.Parse()

	// 加载配置
	cfg := config.Load()

	if *issueToken != "" {
		token, err := middleware.IssueToken(cfg.JWTSecret, *issueToken, *tokenTTL)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to issue token:", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	if err := log.Init(cfg.Debug); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := newSource(cfg)
	if err != nil {
		log.Fatalf("failed to open data source: %v", err)
	}
	defer database.Close()

	// 加载数据
	st := store.New(source)
	if _, err := st.Load(ctx); err != nil {
		log.Fatalf("failed to load road data: %v", err)
	}
	if cfg.WatchInterval > 0 {
		go st.Watch(ctx, cfg.WatchInterval)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	go limiter.Run(ctx)

	// 初始化路由
	router := api.SetupRouter(cfg, service.NewDashboardService(st), limiter)
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("server shutdown failed", "error", err)
		}
	}()

	// 启动服务器
	log.Infow("server starting", "addr", cfg.Port, "source", source.Name())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("failed to start server: %v", err)
	}
	log.Info("server stopped")
}

func newSource(cfg *config.Config) (store.Source, error) {
	switch cfg.DataSource {
	case config.SourceXLSX:
		return loader.NewXLSXSource(cfg.DataFile, cfg.DataSheet), nil
	case config.SourceSQLite:
		// 初始化数据库
		if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
			return nil, err
		}
		return repository.NewRoadSegmentRepository(database.GetDB()), nil
	default:
		return nil, fmt.Errorf("unknown DATA_SOURCE %q", cfg.DataSource)
	}
}
