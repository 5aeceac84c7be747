// Package rules handles the rules command and its subcommands
package rules

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/ledger-import/cmd/common"
	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/dateutils"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	ruleengine "fjacquet/ledger-import/internal/rules"
	"fjacquet/ledger-import/internal/store"

	"github.com/spf13/cobra"
)

var (
	importFile  string
	description string
	date        string
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage categorization rules",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the owner's active rules in evaluation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return List(cmd.Context(), root.App.GetRules(), root.SharedFlags.Owner,
			root.SharedFlags.Output, cmd.OutOrStdout())
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Store the rules of a YAML file for the owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := Import(cmd.Context(), root.App.GetStore(), root.SharedFlags.Owner, importFile, root.Log)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rules\n", n)
		return err
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Show which rule categorizes a description",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Test(cmd.Context(), root.App.GetRules(), root.SharedFlags.Owner, description, date,
			root.Log, cmd.OutOrStdout())
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "YAML rules file")
	_ = importCmd.MarkFlagRequired("file")

	testCmd.Flags().StringVar(&description, "description", "", "Transaction description")
	testCmd.Flags().StringVar(&date, "date", "", "Transaction date (default: today)")
	_ = testCmd.MarkFlagRequired("description")

	Cmd.AddCommand(listCmd, importCmd, testCmd)
}

// List writes the active rules of owner as JSON.
func List(ctx context.Context, src ruleengine.Source, owner, output string, stdout io.Writer) error {
	active, err := src.ActiveRules(ctx, owner)
	if err != nil {
		return err
	}
	return common.WriteJSONTo(output, stdout, struct {
		Rules []models.Rule `json:"rules"`
		Count int           `json:"count"`
	}{active, len(active)})
}

// Import stores every rule of path under owner and returns how many were stored.
// The file is validated as a whole before anything is written.
func Import(ctx context.Context, s store.Store, owner, path string, logger logging.Logger) (int, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if owner == "" {
		return 0, fmt.Errorf("an owner is required (--owner)")
	}
	all, err := ruleengine.LoadFile(path)
	if err != nil {
		return 0, err
	}

	for i, r := range all {
		r.OwnerID = owner
		id, err := ruleengine.Save(ctx, s, r)
		if err != nil {
			return i, fmt.Errorf("storing rule %q: %w", r.Label(), err)
		}
		logger.Debug("Rule stored", logging.F(logging.FieldRule, r.Label()), logging.F("id", id))
	}
	logger.Info("Rules imported",
		logging.F(logging.FieldOwner, owner),
		logging.F(logging.FieldCount, len(all)))
	return len(all), nil
}

// Test reports the first active rule of owner matching desc on the given date.
func Test(ctx context.Context, src ruleengine.Source, owner, desc, on string, logger logging.Logger, stdout io.Writer) error {
	when := time.Now()
	if strings.TrimSpace(on) != "" {
		t, _, err := dateutils.ParseDate(on)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		when = t
	}

	active, err := src.ActiveRules(ctx, owner)
	if err != nil {
		return err
	}
	rule, ok := ruleengine.NewEngine(active, logger).Explain(desc, when)
	if !ok {
		_, err = fmt.Fprintf(stdout, "No rule matches %q\n", desc)
		return err
	}
	_, err = fmt.Fprintf(stdout, "%s -> %s (rule %q, %s %q)\n",
		desc, rule.CategoryID, rule.Label(), rule.MatchType, rule.Pattern)
	return err
}
