// Package ingest handles the ingest command
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"

	"fjacquet/ledger-import/cmd/common"
	"fjacquet/ledger-import/cmd/root"
	pipeline "fjacquet/ledger-import/internal/ingest"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/scanner"

	"github.com/spf13/cobra"
)

// Flags holds the ingest command flags
type Flags struct {
	Account         string
	Connection      string
	Mapping         string
	Delimiter       string
	DefaultCategory string
}

var flags Flags

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Import a statement file into the store",
	Long: `Parse a statement file, categorize each transaction with the owner's rules and
store the transactions that are not already present. Re-importing a file is a no-op.`,
	RunE: ingestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&flags.Account, "account", "a", "", "Bank account id; enables per-account deduplication")
	Cmd.Flags().StringVar(&flags.Connection, "connection", "", "Bank connection id recorded on each transaction")
	Cmd.Flags().StringVarP(&flags.Mapping, "mapping", "m", "", "Column mapping as JSON or path to a JSON file")
	Cmd.Flags().StringVarP(&flags.Delimiter, "delimiter", "d", "", "Field delimiter (default: detect)")
	Cmd.Flags().StringVar(&flags.DefaultCategory, "default-category", "", "Category assigned when no rule matches")
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	if scanner.IsDir(root.SharedFlags.Input) {
		return RunDir(cmd.Context(), root.App.GetCoordinator(), root.SharedFlags.Input, root.SharedFlags.Owner,
			flags, root.SharedFlags.Output, cmd.OutOrStdout(), root.Log)
	}
	data, err := common.ReadInput(root.SharedFlags.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	return Run(cmd.Context(), root.App.GetCoordinator(), data, root.SharedFlags.Owner, flags,
		root.SharedFlags.Output, cmd.OutOrStdout(), root.Log)
}

// Run ingests data for owner and writes the JSON result to output, or stdout when output is empty.
// A partial result is still written when the import is interrupted.
func Run(ctx context.Context, c *pipeline.Coordinator, data []byte, owner string, f Flags,
	output string, stdout io.Writer, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Nop()
	}
	opts, err := options(owner, f)
	if err != nil {
		return err
	}

	result, err := c.Ingest(ctx, data, opts)
	if result == nil {
		return err
	}

	logRowErrors(logger, result)
	if writeErr := common.WriteJSONTo(output, stdout, result); writeErr != nil {
		return writeErr
	}
	return err
}

// FileReport is the outcome of one file of a directory import.
type FileReport struct {
	File   string           `json:"file"`
	Result *pipeline.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// DirReport summarizes a directory import.
type DirReport struct {
	Success  bool         `json:"success"`
	Files    []FileReport `json:"files"`
	Imported int          `json:"imported"`
	Skipped  int          `json:"skipped"`
}

// RunDir ingests every statement file under dir, in path order, with the same options.
// A file that fails is reported and the next one is processed; an interrupted context
// stops the run after writing what was done.
func RunDir(ctx context.Context, c *pipeline.Coordinator, dir, owner string, f Flags,
	output string, stdout io.Writer, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Nop()
	}
	opts, err := options(owner, f)
	if err != nil {
		return err
	}
	files, err := scanner.New(logger).Scan(dir)
	if err != nil {
		return err
	}

	report := DirReport{Success: true, Files: make([]FileReport, 0, len(files))}
	var runErr error
	for _, file := range files {
		entry := FileReport{File: file.Path}
		data, err := os.ReadFile(file.Path)
		if err == nil {
			entry.Result, err = c.Ingest(ctx, data, opts)
		}
		if entry.Result != nil {
			logRowErrors(logger.WithField(logging.FieldFile, file.Path), entry.Result)
			report.Imported += entry.Result.Imported
			report.Skipped += entry.Result.Skipped
		}
		if err != nil {
			logger.WithError(err).WithField(logging.FieldFile, file.Path).Warn("File not imported")
			entry.Error = err.Error()
			report.Success = false
		}
		report.Files = append(report.Files, entry)

		if ctxErr := ctx.Err(); ctxErr != nil {
			runErr = fmt.Errorf("directory import interrupted: %w", ctxErr)
			break
		}
	}

	if writeErr := common.WriteJSONTo(output, stdout, report); writeErr != nil {
		return writeErr
	}
	return runErr
}

func options(owner string, f Flags) (pipeline.Options, error) {
	if owner == "" {
		return pipeline.Options{}, fmt.Errorf("an owner is required (--owner)")
	}
	mapping, err := common.ParseMappingFlag(f.Mapping)
	if err != nil {
		return pipeline.Options{}, err
	}
	delim, err := common.ParseDelimiterFlag(f.Delimiter)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		OwnerID:           owner,
		AccountID:         f.Account,
		ConnectionID:      f.Connection,
		Mapping:           mapping,
		Delimiter:         delim,
		DefaultCategoryID: f.DefaultCategory,
	}, nil
}

func logRowErrors(logger logging.Logger, result *pipeline.Result) {
	for _, rowErr := range result.RowErrors {
		logger.WithError(rowErr).Warn("Row skipped", logging.F(logging.FieldRow, rowErr.Row))
	}
}
