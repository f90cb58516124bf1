package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"hrintel/internal/assessment"
	"hrintel/internal/common"
	"hrintel/internal/types"
)

var (
	batchOutput      string
	batchFormat      string
	batchLevel       string
	batchTechWeight  int
	batchConcurrency int
	batchSave        bool
	batchAI          bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <job-description-file>...",
	Short: "Assess several job descriptions concurrently",
	Long: `Assess every given job description with the same settings. Each file is
assessed independently: a file that cannot be read or assessed is reported
in the output without stopping the others.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: validateFormatFlag(&batchFormat),
	RunE:    runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Output file (default: stdout)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "Output format (json, text, markdown)")
	batchCmd.Flags().StringVarP(&batchLevel, "level", "l", "", "Seniority level for every file (default from config)")
	batchCmd.Flags().IntVar(&batchTechWeight, "tech-weight", 0, "Technical weight 0-100 (default from config)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "Files assessed in parallel (default from config)")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "Save every assessment to history (default from config)")
	batchCmd.Flags().BoolVar(&batchAI, "ai", false, "Ask the AI provider for the summary insights")

	registerFormatCompletion(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	var template types.AssessInput
	if batchLevel != "" {
		level, err := types.ParseLevel(batchLevel)
		if err != nil {
			return err
		}
		template.Level = level
	}
	if cmd.Flags().Changed("tech-weight") {
		if err := assessment.ValidateWeight(batchTechWeight); err != nil {
			return err
		}
		weight := batchTechWeight
		template.TechnicalWeight = &weight
	}

	save := cfg.Assessment.AutoSave
	if cmd.Flags().Changed("save") {
		save = batchSave
	}
	limit := cfg.Assessment.BatchConcurrency
	if batchConcurrency > 0 {
		limit = batchConcurrency
	}

	a, err := newApp(cfg, logger, appOptions{withStore: save, withAI: batchAI})
	if err != nil {
		return err
	}
	defer a.Close()

	files := newFileProcessor(cfg, logger)
	items := make(types.BatchResult, len(args))
	var (
		inputs []assessment.BatchInput
		slots  []int
	)
	for i, source := range args {
		content, err := files.ReadJobDescription(source)
		if err != nil {
			items[i] = types.BatchItem{Source: source, Error: err.Error()}
			continue
		}
		input := template
		input.JobDescription = content
		inputs = append(inputs, assessment.BatchInput{
			Source:  source,
			Request: assessment.Request{AssessInput: input, UseAI: batchAI, Save: save},
		})
		slots = append(slots, i)
	}

	logger.Info("Starting batch assessment",
		"files", len(args),
		"readable", len(inputs),
		"concurrency", limit,
		"sources", strings.Join(args, ","))

	results, err := a.service.AssessBatch(ctx, inputs, limit)
	if err != nil {
		return err
	}
	for j, item := range results {
		items[slots[j]] = item
	}

	return common.NewOutputHandler(logger).WithStdout(cmd.OutOrStdout()).HandleOutput(items, common.CommandConfig{
		OutputFile:   batchOutput,
		OutputFormat: batchFormat,
	})
}
