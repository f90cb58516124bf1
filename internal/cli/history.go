package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hrintel/internal/common"
	"hrintel/internal/store"
	"hrintel/internal/types"
)

var (
	historyOutput      string
	historyFormat      string
	historyListLimit   int
	historyTopLimit    int
	historyAssessments bool
)

var historyCmd = &cobra.Command{
	Use:               "history",
	Short:             "Browse saved assessments and candidate rankings",
	PersistentPreRunE: historyPreRun,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved assessments, newest first",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, s *store.Store, _ []string) (any, error) {
		return s.ListAssessments(cmd.Context(), historyListLimit)
	}),
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved assessment",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, s *store.Store, args []string) (any, error) {
		record, err := s.GetAssessment(cmd.Context(), args[0])
		if err != nil {
			return nil, err
		}
		return types.AssessmentHistory{record}, nil
	}),
}

var historyTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank recorded candidates by total score",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, s *store.Store, _ []string) (any, error) {
		return s.TopCandidates(cmd.Context(), historyTopLimit)
	}),
}

var historyResultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List every recorded candidate result, newest first",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, s *store.Store, _ []string) (any, error) {
		return s.AllResults(cmd.Context())
	}),
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded candidate results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := getConfigFromContext(ctx)
		logger := getLoggerFromContext(ctx)

		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.ClearResults(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d candidate results\n", results)

		if historyAssessments {
			assessments, err := s.ClearAssessments(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d saved assessments\n", assessments)
		}
		logger.Info("History cleared", "store", cfg.Store.Path, "assessments", historyAssessments)
		return nil
	},
}

func init() {
	historyCmd.PersistentFlags().StringVarP(&historyOutput, "output", "o", "", "Output file (default: stdout)")
	historyCmd.PersistentFlags().StringVar(&historyFormat, "format", "", "Output format (json, text, markdown)")
	historyListCmd.Flags().IntVar(&historyListLimit, "limit", 20, "Maximum number of assessments to list")
	historyTopCmd.Flags().IntVar(&historyTopLimit, "limit", store.DefaultTopLimit, "Number of candidates to show")
	historyClearCmd.Flags().BoolVar(&historyAssessments, "assessments", false, "Also delete saved assessments")

	registerFormatCompletion(historyCmd)

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyTopCmd, historyResultsCmd, historyClearCmd)
}

// historyPreRun loads the application and then checks the format flag,
// since a PersistentPreRunE here replaces the root one.
func historyPreRun(cmd *cobra.Command, args []string) error {
	if err := loadApplication(cmd, args); err != nil {
		return err
	}
	return validateFormatFlag(&historyFormat)(cmd, args)
}

// withStore opens the history store, runs query and writes its result.
func withStore(query func(cmd *cobra.Command, s *store.Store, args []string) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := getConfigFromContext(ctx)
		logger := getLoggerFromContext(ctx)

		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer s.Close()

		data, err := query(cmd, s, args)
		if err != nil {
			return err
		}
		return common.NewOutputHandler(logger).WithStdout(cmd.OutOrStdout()).HandleOutput(data, common.CommandConfig{
			OutputFile:   historyOutput,
			OutputFormat: historyFormat,
		})
	}
}
