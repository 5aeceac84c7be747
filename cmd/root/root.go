// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/ledger-import/internal/config"
	"fjacquet/ledger-import/internal/container"
	"fjacquet/ledger-import/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input     string
	Output    string
	Owner     string
	Store     string
	StorePath string
	RulesFile string
	LogLevel  string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.Nop()

	// App holds the wired dependencies for the running command
	App *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ledger-import",
		Short: "Import bank statement files into a personal-finance ledger.",
		Long: `ledger-import reads bank statement exports (CSV), recognizes the bank layout,
maps columns, categorizes transactions with user rules and stores them without duplicates.`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
		SilenceUsage:       true,
	}

	// SharedFlags holds the flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file (\"-\" for stdin)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default stdout)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Owner, "owner", "u", "", "Owner (user id) of the imported data")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Store, "store", "", "Store driver: memory, file or postgres")
	Cmd.PersistentFlags().StringVar(&SharedFlags.StorePath, "store-path", "", "JSON file used by the file store")
	Cmd.PersistentFlags().StringVar(&SharedFlags.RulesFile, "rules-file", "", "Read rules from a YAML file instead of the store")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// LoadConfig builds the configuration from files and environment, then applies flag overrides.
func LoadConfig(flags CommonFlags) (*config.Config, error) {
	if _, err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}
	cfg, err := config.InitializeConfig()
	if err != nil {
		return nil, err
	}

	if flags.Store != "" {
		cfg.Store.Driver = flags.Store
	}
	if flags.StorePath != "" {
		cfg.Store.Path = flags.StorePath
	}
	if flags.RulesFile != "" {
		cfg.Rules.File = flags.RulesFile
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(SharedFlags)
	if err != nil {
		return err
	}
	app, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	App = app
	Log = app.GetLogger()
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	return Shutdown()
}

// Shutdown closes App if it is still open. Cobra skips PersistentPostRunE when a command
// fails, so main calls it after Execute to write file store snapshots in every case.
func Shutdown() error {
	if App == nil {
		return nil
	}
	err := App.Close()
	App = nil
	return err
}
