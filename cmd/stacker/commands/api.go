package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stacker/internal/api"
	"github.com/wonny/stacker/internal/api/handlers"
	"github.com/wonny/stacker/internal/optimizer"
	"github.com/wonny/stacker/pkg/config"
	"github.com/wonny/stacker/pkg/logger"
	"github.com/wonny/stacker/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `라인업 옵티마이저 API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 동기/웹소켓 optimize 엔드포인트 제공
- 슬레이트(후보 풀) 업로드 캐시 제공

Endpoints:
  GET  /health            - Health check
  POST /api/optimize      - 라인업 배치 생성 (동기)
  GET  /api/optimize/ws   - 라인업 배치 생성 (진행 스트리밍)
  POST /api/slates        - 후보 풀 업로드
  GET  /api/slates/{id}   - 후보 풀 조회

Example:
  go run ./cmd/stacker api
  go run ./cmd/stacker api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: 설정값)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Stacker API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to redis (no-op when disabled)
	rdb, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	if rdb.Enabled() {
		log.Info("Connected to redis")
	} else {
		log.Warn("Redis disabled, slate endpoints unavailable")
	}

	// 4. Create generator and handlers
	gen := optimizer.New(log)
	slateStore := handlers.NewSlateStore(rdb)
	slateHandler := handlers.NewSlateHandler(slateStore, log)
	optimizeHandler := handlers.NewOptimizeHandler(gen, slateStore, log)

	// 5. Create router
	router := api.NewRouter(optimizeHandler, slateHandler, log)

	// 6. Create server
	server := api.New(cfg, log, router)

	// 7. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/optimize")
	fmt.Println("  GET  /api/optimize/ws")
	fmt.Println("  POST /api/slates")
	fmt.Println("  GET  /api/slates/{id}")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
