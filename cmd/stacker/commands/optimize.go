package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/stacker/internal/contracts"
	"github.com/wonny/stacker/internal/export"
	"github.com/wonny/stacker/internal/feed"
	"github.com/wonny/stacker/internal/optimizer"
	"github.com/wonny/stacker/pkg/config"
	"github.com/wonny/stacker/pkg/logger"
)

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "라인업 배치 생성",
	Long: `후보 CSV/JSON 파일을 읽어 라인업 배치를 생성합니다.

이 명령어는:
- 후보 풀을 읽고 검증
- 잠금/노출 제약 아래에서 고유 라인업 탐색
- 결과 CSV와 노출 요약을 출력

Flags:
  --input         후보 파일 (csv 또는 json, 필수)
  --output        라인업 CSV 출력 경로
  --count         생성할 라인업 수
  --cap           샐러리 캡
  --max-exposure  전역 노출 상한 (%)
  --max-unspent   허용되는 캡 잔여분

Example:
  go run ./cmd/stacker optimize --input players.csv --count 20
  go run ./cmd/stacker optimize --input players.csv --output lineups.csv --cap 50000`,
	RunE: runOptimize,
}

var (
	optInput       string
	optOutput      string
	optCount       int
	optCap         int
	optMaxExposure float64
	optMaxUnspent  int
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	// Flags
	optimizeCmd.Flags().StringVar(&optInput, "input", "", "후보 파일 (csv/json, 필수)")
	optimizeCmd.Flags().StringVar(&optOutput, "output", "lineups.csv", "라인업 CSV 출력 경로")
	optimizeCmd.Flags().IntVar(&optCount, "count", 0, "생성할 라인업 수 (기본: 설정값)")
	optimizeCmd.Flags().IntVar(&optCap, "cap", 0, "샐러리 캡 (기본: 설정값)")
	optimizeCmd.Flags().Float64Var(&optMaxExposure, "max-exposure", 0, "전역 노출 상한 % (기본: 설정값)")
	optimizeCmd.Flags().IntVar(&optMaxUnspent, "max-unspent", 0, "허용되는 캡 잔여분 (기본: 설정값)")

	optimizeCmd.MarkFlagRequired("input")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Stacker Lineup Optimizer ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "console"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Read candidate pool
	pool, err := feed.LoadFile(optInput)
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"input":      optInput,
		"candidates": len(pool),
	}).Info("Candidate pool loaded")

	// 4. Build request (flags override config defaults)
	req := contracts.OptimizeRequest{
		Candidates: pool,
		Config: contracts.OptimizeConfig{
			LineupCount:          cfg.Solver.LineupCount,
			CostCap:              cfg.Solver.CostCap,
			GlobalMaxExposurePct: cfg.Solver.GlobalMaxExposurePct,
			MaxUnspent:           cfg.Solver.MaxUnspent,
		},
	}
	if optCount > 0 {
		req.Config.LineupCount = optCount
	}
	if optCap > 0 {
		req.Config.CostCap = optCap
	}
	if optMaxExposure > 0 {
		req.Config.GlobalMaxExposurePct = optMaxExposure
	}
	if optMaxUnspent > 0 {
		req.Config.MaxUnspent = optMaxUnspent
	}

	// 5. Run the batch and consume the event stream
	gen := optimizer.New(log)
	var lineups []contracts.Lineup
	for ev := range gen.Generate(context.Background(), req) {
		switch ev.Type {
		case contracts.EventProgress:
			log.WithFields(map[string]interface{}{
				"found":   ev.LineupsFound,
				"percent": fmt.Sprintf("%.0f%%", ev.Percent),
			}).Info("Lineup found")
		case contracts.EventError:
			return fmt.Errorf("optimize failed: %s", ev.Message)
		case contracts.EventResult:
			lineups = ev.Lineups
		}
	}

	if len(lineups) == 0 {
		fmt.Println("\n⚠️  No valid lineups found. Relax the constraints and retry.")
		return nil
	}
	if len(lineups) < req.Config.LineupCount {
		fmt.Printf("\n⚠️  Generated %d of %d requested lineups (attempt budget exhausted)\n",
			len(lineups), req.Config.LineupCount)
	}

	// 6. Write lineup CSV
	if err := export.WriteFile(optOutput, lineups); err != nil {
		return fmt.Errorf("write lineups: %w", err)
	}
	fmt.Printf("\n✅ %d lineups written to %s\n", len(lineups), optOutput)

	// 7. Print exposure summary
	fmt.Println("\nExposure summary:")
	if err := export.WriteExposureCSV(os.Stdout, export.ExposureTable(lineups)); err != nil {
		return fmt.Errorf("write exposure summary: %w", err)
	}

	return nil
}
