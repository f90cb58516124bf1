package common

import (
	"context"
	"fmt"

	"hrintel/internal/errors"
)

// CreateInputFunc defines how to create the specific input from source contents.
type CreateInputFunc[Input any] func(sources, contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc is a generic function signature for any file-driven operation.
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// FileCommand bundles the pieces a file-driven CLI command needs.
type FileCommand[Input, Output any] struct {
	Files       *FileProcessor
	Output      *OutputHandler
	CreateInput CreateInputFunc[Input]
	Operation   OperationFunc[Input, Output]
	LogDetails  LogDetailsFunc[Input]
}

// RunFileCommand encapsulates the common logic for file-based CLI commands:
// read every source, build the input, run the operation and write the result.
func RunFileCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	sources []string,
	cmd FileCommand[Input, Output],
) error {
	files := cmd.Files
	if files == nil {
		files = NewFileProcessor(logger)
	}
	out := cmd.Output
	if out == nil {
		out = NewOutputHandler(logger)
	}

	contents, err := files.ValidateAndReadFiles(sources...)
	if err != nil {
		return err
	}

	input, err := cmd.CreateInput(sources, contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	if cmd.LogDetails != nil {
		cmd.LogDetails(input, cmdConfig)
	}

	result, err := cmd.Operation(ctx, input)
	if err != nil {
		return err
	}

	return out.HandleOutput(result, cmdConfig)
}
