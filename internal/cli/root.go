package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	jcl "github.com/hemmer-io/jcl-sub000"
)

var (
	cfgFile string
	cfg     *Config
)

// Version information (set at build time).
var (
	Version   = jcl.Version
	BuildDate = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jcl",
		Short: "JCL - statically checked configuration language",
		Long: `JCL evaluates configuration modules written in an expression-oriented,
statically checked language. Modules are type checked before any
evaluation happens; a module with type errors never runs.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			var err error
			cfg, err = LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			if cfg.Verbose && cfgFile != "" {
				fmt.Fprintf(os.Stderr, "Using config file: %s\n", cfgFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./jcl.yaml)")
	rootCmd.PersistentFlags().String("module-dir", "", "root directory for import resolution")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (jcl|json|yaml)")
	rootCmd.PersistentFlags().Bool("best-effort", false, "keep evaluating after runtime errors")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"jcl", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewEvalCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewReplCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return &Config{ModuleDir: DefaultModuleDir, OutputFormat: DefaultOutput}
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jcl %s (built %s)\n", Version, BuildDate)
		},
	}
}

// hostRuntime builds a Runtime wired to the real filesystem and clock.
func hostRuntime() *jcl.Runtime {
	return jcl.NewRuntime(jcl.Capabilities{
		ReadFile: os.ReadFile,
		FileExists: func(path string) (bool, error) {
			_, err := os.Stat(path)
			if err == nil {
				return true, nil
			}
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		},
		Now: time.Now,
	})
}
