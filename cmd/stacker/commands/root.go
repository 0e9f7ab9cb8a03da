package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stacker",
	Short: "Stacker - 라인업 포트폴리오 옵티마이저",
	Long: `Stacker CLI

샐러리 캡과 슬롯 제약 아래에서 고유한 라인업 배치를 생성합니다.
잠금(lock)과 노출(exposure) 목표를 배치 전체에 걸쳐 반영합니다.

Usage:
  go run ./cmd/stacker [command]

Examples:
  go run ./cmd/stacker optimize --input players.csv --count 20
  go run ./cmd/stacker api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
