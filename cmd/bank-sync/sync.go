// Package banksync handles the sync command
package banksync

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/ledger-import/cmd/common"
	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/bankformat"
	"fjacquet/ledger-import/internal/config"
	"fjacquet/ledger-import/internal/connector"
	"fjacquet/ledger-import/internal/ingest"

	"github.com/spf13/cobra"
)

// Flags holds the sync command flags
type Flags struct {
	Bank            string
	Connection      string
	Username        string
	Password        string
	DefaultCategory string
}

var flags Flags

// Cmd represents the sync command
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull accounts and transactions from a bank connector",
	Long: `Log in to a bank connector, record its accounts and store the transactions that
are not already known for the connection. The password falls back to LEDGER_BANK_PASSWORD.`,
	RunE: syncFunc,
}

func init() {
	Cmd.Flags().StringVarP(&flags.Bank, "bank", "b", "", "Bank connector: boursobank or cic")
	Cmd.Flags().StringVar(&flags.Connection, "connection", "", "Bank connection id (default: the bank name)")
	Cmd.Flags().StringVar(&flags.Username, "username", "", "Bank login")
	Cmd.Flags().StringVar(&flags.Password, "password", "", "Bank password")
	Cmd.Flags().StringVar(&flags.DefaultCategory, "default-category", "", "Category assigned when no rule matches")
	_ = Cmd.MarkFlagRequired("bank")
}

func syncFunc(cmd *cobra.Command, args []string) error {
	if flags.Password == "" {
		flags.Password = config.GetEnv("LEDGER_BANK_PASSWORD", "")
	}
	return Run(cmd.Context(), root.App.GetCoordinator(), root.SharedFlags.Owner, flags, nil,
		root.SharedFlags.Output, cmd.OutOrStdout())
}

// Run syncs the connector named by f.Bank and writes the JSON result. now anchors the
// connector clock; nil means time.Now. Failed logins are reported in the result, not as errors.
func Run(ctx context.Context, c *ingest.Coordinator, owner string, f Flags, now func() time.Time,
	output string, stdout io.Writer) error {
	if owner == "" {
		return fmt.Errorf("an owner is required (--owner)")
	}

	bank := bankformat.ID(strings.ToLower(strings.TrimSpace(f.Bank)))
	conn, err := connector.New(bank, now)
	if err != nil {
		return err
	}

	connection := f.Connection
	if connection == "" {
		connection = string(bank)
	}
	result, err := c.Sync(ctx, conn, ingest.SyncOptions{
		OwnerID:           owner,
		ConnectionID:      connection,
		Username:          f.Username,
		Password:          f.Password,
		DefaultCategoryID: f.DefaultCategory,
	})
	if result == nil {
		return err
	}
	if writeErr := common.WriteJSONTo(output, stdout, result); writeErr != nil {
		return writeErr
	}
	return err
}
