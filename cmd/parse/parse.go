// Package parse handles the parse command
package parse

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/ledger-import/cmd/common"
	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/export"
	"fjacquet/ledger-import/internal/ingest"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/rules"

	"github.com/spf13/cobra"
)

// Flags holds the parse command flags
type Flags struct {
	Mapping   string
	Delimiter string
	Format    string
}

var flags Flags

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a statement file without storing it",
	Long: `Parse every row of a statement file and print the transactions as JSON or CSV.
When --owner is set, the owner's rules fill the category column of the CSV output.`,
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&flags.Mapping, "mapping", "m", "", "Column mapping as JSON or path to a JSON file")
	Cmd.Flags().StringVarP(&flags.Delimiter, "delimiter", "d", "", "Field delimiter (default: detect)")
	Cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Output format: json or csv (default: from output extension, else json)")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	data, err := common.ReadInput(root.SharedFlags.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	return Run(cmd.Context(), Request{
		Coordinator: root.App.GetCoordinator(),
		Rules:       root.App.GetRules(),
		Logger:      root.Log,
		Data:        data,
		Flags:       flags,
		Owner:       root.SharedFlags.Owner,
		Output:      root.SharedFlags.Output,
	}, cmd.OutOrStdout())
}

// Request gathers what one parse run needs.
type Request struct {
	Coordinator *ingest.Coordinator
	Rules       rules.Source
	Logger      logging.Logger
	Data        []byte
	Flags       Flags
	Owner       string
	Output      string
}

// Run parses the request data and writes the transactions.
func Run(ctx context.Context, req Request, stdout io.Writer) error {
	if req.Logger == nil {
		req.Logger = logging.Nop()
	}
	mapping, err := common.ParseMappingFlag(req.Flags.Mapping)
	if err != nil {
		return err
	}
	delim, err := common.ParseDelimiterFlag(req.Flags.Delimiter)
	if err != nil {
		return err
	}

	outcome, err := req.Coordinator.Parse(req.Data, mapping, delim)
	if err != nil {
		return err
	}
	for _, rowErr := range outcome.RowErrors {
		req.Logger.WithError(rowErr).Warn("Row skipped", logging.F(logging.FieldRow, rowErr.Row))
	}

	switch format(req.Flags.Format, req.Output) {
	case "csv":
		categorized, err := categorize(ctx, req, outcome.Transactions)
		if err != nil {
			return err
		}
		if req.Output == "" || req.Output == "-" {
			return export.Write(stdout, categorized, ',')
		}
		return export.WriteFile(req.Output, categorized, ',', req.Logger)
	case "json":
		return common.WriteJSONTo(req.Output, stdout, struct {
			Success bool `json:"success"`
			*ingest.ParseOutcome
		}{true, outcome})
	default:
		return fmt.Errorf("unsupported output format %q (must be 'json' or 'csv')", req.Flags.Format)
	}
}

func format(flag, output string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	if strings.EqualFold(filepath.Ext(output), ".csv") {
		return "csv"
	}
	return "json"
}

// categorize applies the owner's rules when an owner is given; otherwise categories stay empty.
func categorize(ctx context.Context, req Request, txs []models.ParsedTransaction) ([]models.CategorizedTransaction, error) {
	engine := rules.NewEngine(nil, req.Logger)
	if req.Owner != "" && req.Rules != nil {
		active, err := req.Rules.ActiveRules(ctx, req.Owner)
		if err != nil {
			return nil, fmt.Errorf("fetching active rules: %w", err)
		}
		engine = rules.NewEngine(active, req.Logger)
	}

	out := make([]models.CategorizedTransaction, 0, len(txs))
	for _, tx := range txs {
		ct := models.CategorizedTransaction{ParsedTransaction: tx, OwnerID: req.Owner}
		if category, ok := engine.Categorize(tx.Description, tx.Date); ok {
			ct.CategoryID = category
		}
		out = append(out, ct)
	}
	return out, nil
}
