package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/service"
)

var (
	classifyAge   int
	carbonCurrent float64
	carbonMax     float64
)

var classifyCmd = &cobra.Command{
	Use:     "classify",
	Short:   "Print the difficulty tier for an age",
	Example: `  greenpath classify --age 13`,
	RunE:    runClassify,
}

var carbonCmd = &cobra.Command{
	Use:     "carbon",
	Short:   "Evaluate a carbon footprint against its maximum",
	Example: `  greenpath carbon --current 260 --max 1000`,
	RunE:    runCarbon,
}

func init() {
	classifyCmd.Flags().IntVar(&classifyAge, "age", 0, "age in years")
	_ = classifyCmd.MarkFlagRequired("age")

	carbonCmd.Flags().Float64Var(&carbonCurrent, "current", 0, "current footprint")
	carbonCmd.Flags().Float64Var(&carbonMax, "max", domain.DefaultMaxFootprint, "maximum footprint")
	_ = carbonCmd.MarkFlagRequired("current")
}

func runClassify(cmd *cobra.Command, _ []string) error {
	return printJSON(cmd, service.NewDifficultyView(domain.ClassifyAge(classifyAge)))
}

func runCarbon(cmd *cobra.Command, _ []string) error {
	status, err := domain.EvaluateCarbon(carbonCurrent, carbonMax)
	if err != nil {
		return err
	}
	return printJSON(cmd, status)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
