package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	jcl "github.com/hemmer-io/jcl-sub000"
)

// NewCheckCommand creates the check command. It runs the pipeline up to the
// type checker and never evaluates anything.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.jcl> [file.jcl ...]",
		Short: "Type check modules without evaluating them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			rt := hostRuntime()
			failed := 0
			for _, file := range args {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("cannot read %s: %w", file, err)
				}
				src := string(raw)
				name := filepath.Base(file)

				mod, err := jcl.Parse(src, name)
				if err != nil {
					fmt.Fprint(cmd.ErrOrStderr(), paint(jcl.RenderDiagnostic(jcl.ToDiagnostic(err), name, src), red, cfg))
					failed++
					continue
				}
				_, diags := jcl.Check(mod, rt)
				if len(diags) > 0 {
					for _, d := range diags {
						fmt.Fprint(cmd.ErrOrStderr(), paint(jcl.RenderDiagnostic(d, name, src), red, cfg))
					}
					failed++
					continue
				}
				if cfg.Verbose {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", file)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
			}
			return nil
		},
	}
}
