package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"hrintel/internal/assessment"
	"hrintel/internal/common"
	"hrintel/internal/errors"
	"hrintel/internal/types"
)

var (
	assessOutput     string
	assessOutputDir  string
	assessFormat     string
	assessName       string
	assessLevel      string
	assessTechWeight int
	assessMin        int
	assessMax        int
	assessSave       bool
	assessAI         bool
)

var assessCmd = &cobra.Command{
	Use:   "assess [job-description-file|-]",
	Short: "Generate interview questions for a job description",
	Long: `Extract the skills a job description asks for, infer the role and generate
interview questions for the chosen seniority level.

The job description can be a plain text or HTML file. Use "-" or omit the
argument to read from stdin; finish stdin input with a line containing END.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: validateFormatFlag(&assessFormat),
	RunE:    runAssess,
}

func init() {
	assessCmd.Flags().StringVarP(&assessOutput, "output", "o", "", "Output file (default: stdout)")
	assessCmd.Flags().StringVar(&assessOutputDir, "output-dir", "", "Write the report into this directory under a name derived from the candidate")
	assessCmd.Flags().StringVar(&assessFormat, "format", "", "Output format (json, text, markdown)")
	assessCmd.Flags().StringVarP(&assessName, "name", "n", "", "Candidate name")
	assessCmd.Flags().StringVarP(&assessLevel, "level", "l", "", "Seniority level: Junior, Mid or Senior (default from config)")
	assessCmd.Flags().IntVar(&assessTechWeight, "tech-weight", 0, "Technical weight 0-100 (default from config)")
	assessCmd.Flags().IntVar(&assessMin, "min", 0, "Minimum number of questions (default 10)")
	assessCmd.Flags().IntVar(&assessMax, "max", 0, "Maximum number of questions (default 12)")
	assessCmd.Flags().BoolVar(&assessSave, "save", false, "Save the assessment to history (default from config)")
	assessCmd.Flags().BoolVar(&assessAI, "ai", false, "Ask the AI provider for the summary insight")

	assessCmd.MarkFlagsMutuallyExclusive("output", "output-dir")
	registerFormatCompletion(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	source := common.StdinSource
	if len(args) == 1 {
		source = args[0]
	}

	input, err := assessInputFromFlags(cmd)
	if err != nil {
		return err
	}

	save := cfg.Assessment.AutoSave
	if cmd.Flags().Changed("save") {
		save = assessSave
	}

	a, err := newApp(cfg, logger, appOptions{withStore: save, withAI: assessAI})
	if err != nil {
		return err
	}
	defer a.Close()

	if assessAI && !a.service.InsightEnabled() {
		logger.Warn("AI insight requested but ai.enabled is false, using the template insight")
	}

	cmdConfig := common.CommandConfig{
		OutputFile:   assessOutput,
		OutputFormat: assessFormat,
		OutputDir:    assessOutputDir,
	}

	return common.RunFileCommand(ctx, logger, cmdConfig, []string{source},
		common.FileCommand[assessment.Request, *types.AssessmentResult]{
			Files:  newFileProcessor(cfg, logger),
			Output: common.NewOutputHandler(logger).WithStdout(cmd.OutOrStdout()),
			CreateInput: func(_, contents []string) (assessment.Request, error) {
				input.JobDescription = contents[0]
				return assessment.Request{AssessInput: input, UseAI: assessAI, Save: save}, nil
			},
			Operation: func(ctx context.Context, req assessment.Request) (*types.AssessmentResult, error) {
				return a.service.Assess(ctx, req)
			},
			LogDetails: func(req assessment.Request, cfg common.CommandConfig) {
				logger.Info("Assessing job description",
					"source", source,
					"candidate", req.CandidateName,
					"level", req.Level,
					"save", req.Save,
					"format", cfg.OutputFormat)
			},
		})
}

// assessInputFromFlags converts the flags into an input. Unset flags stay
// zero so the assessor applies its defaults.
func assessInputFromFlags(cmd *cobra.Command) (types.AssessInput, error) {
	input := types.AssessInput{
		CandidateName: strings.TrimSpace(assessName),
		MinQuestions:  assessMin,
		MaxQuestions:  assessMax,
	}
	if assessLevel != "" {
		level, err := types.ParseLevel(assessLevel)
		if err != nil {
			return input, err
		}
		input.Level = level
	}
	if cmd.Flags().Changed("tech-weight") {
		weight := assessTechWeight
		if err := assessment.ValidateWeight(weight); err != nil {
			return input, err
		}
		input.TechnicalWeight = &weight
	}
	if assessMin < 0 || assessMax < 0 {
		return input, errors.NewValidationError(errors.ErrCodeInvalidRequest, "--min and --max must not be negative", nil)
	}
	return input, nil
}
