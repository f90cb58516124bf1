package cli

import (
	"github.com/spf13/cobra"

	"hrintel/internal/mcptool"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the assessment tools over the Model Context Protocol (stdio)",
	Long: `Run an MCP server on stdin/stdout so that AI assistants can call
assess_job_description, extract_skills and top_candidates. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	a, err := newApp(cfg, logger, appOptions{withStore: true, withAI: true})
	if err != nil {
		return err
	}
	defer a.Close()

	tools := mcptool.NewTools(a.service, a.store, logger)
	logger.Info("Starting MCP server", "name", cfg.MCP.Name, "version", Version)
	return mcptool.Serve(mcptool.NewServer(cfg.MCP.Name, Version, tools))
}
