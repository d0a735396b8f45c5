package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	jcl "github.com/hemmer-io/jcl-sub000"
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <file.jcl>",
		Short: "Evaluate a module and print its bindings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			file := args[0]
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", file, err)
			}
			src := string(raw)
			name := filepath.Base(file)

			rt := hostRuntime()
			resolver := NewFileResolver(moduleRoot(cfg, file), rt)

			res, err := jcl.Run(src, name, rt, jcl.EvalOptions{
				Resolver:   resolver,
				Cache:      resolver.Cache,
				BestEffort: cfg.BestEffort,
			})
			if err != nil {
				return renderedErr(err, name, src, cfg)
			}
			for _, d := range res.Diagnostics {
				fmt.Fprint(cmd.ErrOrStderr(), paint(jcl.RenderDiagnostic(d, name, src), red, cfg))
			}
			if res.Eval == nil {
				return fmt.Errorf("%s has type errors", name)
			}
			if err := printBindings(cmd.OutOrStdout(), res.Eval.Bindings, rt, cfg); err != nil {
				return err
			}
			if cfg.BestEffort && len(res.Diagnostics) > 0 {
				return fmt.Errorf("evaluation finished with %d error(s)", len(res.Diagnostics))
			}
			return nil
		},
	}
}

// moduleRoot picks the import root: the configured directory, or the
// evaluated file's own directory when none was configured.
func moduleRoot(cfg *Config, file string) string {
	if cfg.ModuleDir != "" && cfg.ModuleDir != DefaultModuleDir {
		return cfg.ModuleDir
	}
	return filepath.Dir(file)
}

func paint(s string, color func(string) string, cfg *Config) string {
	if cfg.NoColor {
		return s
	}
	return color(s)
}

func renderedErr(err error, name, src string, cfg *Config) error {
	wrapped := jcl.WrapErrorWithSource(err, name, src)
	return fmt.Errorf("%s", paint(wrapped.Error(), red, cfg))
}

// printBindings renders the module's top-level bindings in the configured
// output format. The json and yaml formats reuse the language's own
// encoders so CLI output and in-language encoding never drift apart.
func printBindings(w io.Writer, bindings *jcl.MapObject, rt *jcl.Runtime, cfg *Config) error {
	switch cfg.OutputFormat {
	case "json", "yaml":
		b, ok := rt.Builtin(cfg.OutputFormat + "encode")
		if !ok {
			return fmt.Errorf("encoder %q not available", cfg.OutputFormat)
		}
		v, err := b.Impl(jcl.CallCtx{Args: []jcl.Value{jcl.MapV(bindings)}})
		if err != nil {
			return err
		}
		fmt.Fprintln(w, jcl.FormatBare(v))
	default:
		for _, k := range bindings.Keys {
			v, _ := bindings.Get(k)
			fmt.Fprintf(w, "%s = %s\n", k, jcl.Format(v))
		}
	}
	return nil
}
