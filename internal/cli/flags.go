package cli

import (
	"github.com/spf13/cobra"

	"hrintel/internal/common"
	"hrintel/internal/config"
	"hrintel/internal/errors"
)

// validateFormatFlag fills an empty format from config and checks it.
func validateFormatFlag(format *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if *format == "" {
			*format = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(*format, cfg.App.SupportedFormats)
	}
}

func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "text", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func newFileProcessor(cfg *config.Config, logger *errors.Logger) *common.FileProcessor {
	fp := common.NewFileProcessor(logger)
	if cfg.App.MaxFileSize > 0 {
		fp = fp.WithMaxFileSize(cfg.App.MaxFileSize)
	}
	return fp
}
