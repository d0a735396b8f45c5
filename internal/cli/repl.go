package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	jcl "github.com/hemmer-io/jcl-sub000"
)

const (
	historyFile = ".jcl_history"
	promptMain  = "jcl> "
	promptCont  = "...> "
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(GetConfig(cmd.Context()))
		},
	}
}

// session keeps REPL state. Declarations accumulate as a transcript that is
// re-checked and re-evaluated with each input, so the static guarantees of
// whole-module checking carry over to interactive use unchanged.
type session struct {
	rt       *jcl.Runtime
	resolver *FileResolver
	cfg      *Config
	decls    []string
}

func runRepl(cfg *Config) (ret error) {
	fmt.Printf("JCL %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	rt := hostRuntime()
	s := &session{rt: rt, resolver: NewFileResolver(cfg.ModuleDir, rt), cfg: cfg}

	ln.SetCompleter(func(line string) (out []string) {
		last := line
		if i := strings.LastIndexAny(line, " \t(,["); i >= 0 {
			last = line[i+1:]
		}
		for _, name := range rt.BuiltinNames() {
			if strings.HasPrefix(name, last) {
				out = append(out, line[:len(line)-len(last)]+name)
			}
		}
		return out
	})

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			if s.command(trimmed) {
				return nil
			}
			continue
		}

		s.eval(code)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return nil
}

// command handles a :colon command; true means quit.
func (s *session) command(cmd string) bool {
	name, arg, _ := strings.Cut(cmd, " ")
	switch strings.ToLower(name) {
	case ":quit", ":q":
		return true
	case ":reset":
		s.decls = nil
		fmt.Println("session cleared")
	case ":builtins":
		fmt.Println(strings.Join(s.rt.BuiltinNames(), " "))
	case ":doc":
		arg = strings.TrimSpace(arg)
		if b, ok := s.rt.Builtin(arg); ok && b.Doc != "" {
			fmt.Println(b.Doc)
		} else if ok {
			fmt.Printf("%s: no documentation\n", arg)
		} else {
			fmt.Printf("unknown builtin %q\n", arg)
		}
	case ":help":
		fmt.Print(`REPL commands:
  :quit        Exit the REPL
  :reset       Drop all session bindings
  :builtins    List builtin functions
  :doc <name>  Show a builtin's documentation
`)
	default:
		fmt.Println("unknown command. Type :help for commands, :quit to exit.")
	}
	return false
}

// eval runs the transcript plus the new input as one module and prints the
// input's value. Successful declarations join the transcript; expression
// statements do not (their value is printed, then forgotten).
func (s *session) eval(code string) {
	src := strings.Join(append(append([]string{}, s.decls...), code), "\n")

	res, err := jcl.Run(src, "repl", s.rt, jcl.EvalOptions{
		Resolver: s.resolver,
		Cache:    s.resolver.Cache,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, paint(jcl.WrapErrorWithSource(err, "repl", src).Error(), red, s.cfg))
		return
	}
	if len(res.Diagnostics) > 0 {
		for _, d := range res.Diagnostics {
			fmt.Fprint(os.Stderr, paint(jcl.RenderDiagnostic(d, "repl", src), red, s.cfg))
		}
		return
	}

	if len(res.Module.Stmts) == 0 {
		return
	}
	last := res.Module.Stmts[len(res.Module.Stmts)-1]
	if _, isExpr := last.(*jcl.ExprStmt); isExpr {
		fmt.Println(paint(jcl.Format(res.Eval.Value), blue, s.cfg))
	} else {
		s.decls = append(s.decls, code)
		if name, ok := declName(last); ok {
			if v, found := res.Eval.Bindings.Get(name); found {
				fmt.Printf("%s = %s\n", name, paint(jcl.Format(v), blue, s.cfg))
			}
		}
	}
}

func declName(stmt jcl.Stmt) (string, bool) {
	switch d := stmt.(type) {
	case *jcl.AssignStmt:
		return d.Name, true
	case *jcl.FnStmt:
		return d.Name, true
	}
	return "", false
}

// readByParseProbe reads lines until the buffer parses, fails at a spot
// other than end of input, or the user aborts. An error at the very end of
// the buffer means the construct is merely unfinished, so prompt for more.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := jcl.Parse(src, "repl"); perr == nil || !looksIncomplete(perr, src) {
			return src, true
		}
	}
}

func looksIncomplete(err error, src string) bool {
	switch e := err.(type) {
	case *jcl.ParseError:
		return e.Span.Offset >= len(src)
	case *jcl.LexError:
		return strings.Contains(e.Msg, "unterminated")
	}
	return false
}
