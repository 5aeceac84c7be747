// Package preview handles the preview command
package preview

import (
	"io"

	"fjacquet/ledger-import/cmd/common"
	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/ingest"

	"github.com/spf13/cobra"
)

var rows int

// Cmd represents the preview command
var Cmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a statement file before import",
	Long: `Detect the encoding, delimiter, bank layout and column mapping of a statement file
and print the first rows, without storing anything.`,
	RunE: previewFunc,
}

func init() {
	Cmd.Flags().IntVarP(&rows, "rows", "n", 0, "Number of sample rows (default from configuration)")
}

func previewFunc(cmd *cobra.Command, args []string) error {
	data, err := common.ReadInput(root.SharedFlags.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	return Run(root.App.GetCoordinator(), data, rows, root.SharedFlags.Output, cmd.OutOrStdout())
}

// Run previews data and writes the JSON report to output, or stdout when output is empty.
func Run(c *ingest.Coordinator, data []byte, rows int, output string, stdout io.Writer) error {
	p, err := c.Preview(data, rows)
	if err != nil {
		return err
	}

	return common.WriteJSONTo(output, stdout, struct {
		Success bool `json:"success"`
		*ingest.Preview
	}{true, p})
}
