package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"hrintel/internal/common"
	"hrintel/internal/types"
)

var (
	scoreOutput    string
	scoreFormat    string
	scoreName      string
	scoreJDTitle   string
	scoreCandidate types.CandidateScores
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Record a candidate's interview scores",
	Long: `Record the 0-10 interview scores of a candidate. The weighted total uses
the catalog rubric (Technical 40%, Problem Solving 25%, System Design 20%,
Communication 15% by default) and the result is stored for ranking with
"hrintel history top".`,
	Args:    cobra.NoArgs,
	PreRunE: validateFormatFlag(&scoreFormat),
	RunE:    runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreOutput, "output", "o", "", "Output file (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "", "Output format (json, text, markdown)")
	scoreCmd.Flags().StringVarP(&scoreName, "name", "n", "", "Candidate name")
	scoreCmd.Flags().StringVar(&scoreJDTitle, "jd-title", "", "Title of the position interviewed for")
	scoreCmd.Flags().Float64Var(&scoreCandidate.Technical, "technical", 0, "Technical score 0-10")
	scoreCmd.Flags().Float64Var(&scoreCandidate.ProblemSolving, "problem-solving", 0, "Problem solving score 0-10")
	scoreCmd.Flags().Float64Var(&scoreCandidate.SystemDesign, "system-design", 0, "System design score 0-10")
	scoreCmd.Flags().Float64Var(&scoreCandidate.Communication, "communication", 0, "Communication score 0-10")

	_ = scoreCmd.MarkFlagRequired("name")
	registerFormatCompletion(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	a, err := newApp(cfg, logger, appOptions{withStore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	total, err := a.service.Assessor().Score(scoreCandidate)
	if err != nil {
		return err
	}

	saved, err := a.store.SaveResult(ctx, types.CandidateResult{
		JDTitle:         strings.TrimSpace(scoreJDTitle),
		CandidateName:   strings.TrimSpace(scoreName),
		CandidateScores: scoreCandidate,
		TotalScore:      total,
	})
	if err != nil {
		return err
	}

	logger.Info("Candidate scored",
		"candidate", saved.CandidateName,
		"jd_title", saved.JDTitle,
		"total_score", saved.TotalScore)

	return common.NewOutputHandler(logger).WithStdout(cmd.OutOrStdout()).HandleOutput(types.ResultList{saved}, common.CommandConfig{
		OutputFile:   scoreOutput,
		OutputFormat: scoreFormat,
	})
}
