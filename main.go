// litgen: externalizes hardcoded UI strings into typed i18n dictionaries.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minios-linux/litgen/config"
	"github.com/minios-linux/litgen/discovery"
	"github.com/minios-linux/litgen/generator"
	"github.com/minios-linux/litgen/i18n"
	"github.com/minios-linux/litgen/selection"
	"github.com/minios-linux/litgen/termkey"
	"github.com/minios-linux/litgen/txn"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	infoTag    = color.New(color.FgBlue).Sprint("[INFO]")
	successTag = color.New(color.FgGreen).Sprint("[OK]")
	warningTag = color.New(color.FgYellow, color.Bold).Sprint("[WARN]")
	errorTag   = color.New(color.FgRed).Sprint("[ERROR]")
	heading    = color.New(color.FgBlue).SprintFunc()
	missing    = color.New(color.FgRed).SprintFunc()
)

// logOut is where log lines go. color.Error handles Windows consoles.
var logOut io.Writer = color.Error

func logInfo(format string, args ...any) {
	fmt.Fprintf(logOut, infoTag+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(logOut, successTag+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(logOut, warningTag+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(logOut, errorTag+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir string
	uiLang  string
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "litgen",
		Short: "Externalize hardcoded UI strings into i18n dictionaries",
		Long: `litgen: literal generator for typed i18n dictionaries.

Takes a selected string literal, declares a new object.term key in the
module's literals declaration, stores the text in every language
dictionary of the module, and replaces the selection with a reference
to the key.

Commands:
  generate    Externalize a selected literal
  lookup      Show a key's value in every dictionary of a module
  sort        Re-normalize the dictionaries of a module
  status      Show declared groups and dictionary coverage
  version     Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			i18n.Init(uiLang)
		},
	}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&uiLang, "lang", "", "Language for litgen's own messages (default: from environment)")

	root.AddCommand(
		newGenerateCmd(),
		newLookupCmd(),
		newSortCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Console adapters for the generator
// ---------------------------------------------------------------------------

type consoleNotifier struct{}

func (consoleNotifier) Info(msg string)  { logInfo("%s", msg) }
func (consoleNotifier) Warn(msg string)  { logWarning("%s", msg) }
func (consoleNotifier) Error(msg string) { logError("%s", msg) }

// linePrompter reads the key from a line of input.
type linePrompter struct {
	in  io.Reader
	out io.Writer
}

func (p linePrompter) AskKey(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, i18n.T("Inform the new object and term properties (i.e., %s): "), termkey.Example)
	scanner := bufio.NewScanner(p.in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New(i18n.T("No input received"))
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// newGenerator loads the project configuration under rootDir and wires a
// generator to the local file system.
func newGenerator(prompt generator.Prompter) (*generator.Generator, *discovery.Finder, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, nil, err
	}
	finder, err := discovery.New(rootDir, cfg.DiscoveryOptions())
	if err != nil {
		return nil, nil, err
	}
	return generator.New(cfg, generator.NewDiskWorkspace(finder), prompt, consoleNotifier{}), finder, nil
}

// printDiff writes the pending changes of tx to stdout.
func printDiff(tx *txn.Txn, root string) error {
	diff, err := tx.Diff(root)
	if err != nil {
		return err
	}
	if diff == "" {
		logInfo("%s", i18n.T("No changes"))
		return nil
	}
	fmt.Print(diff)
	return nil
}

// ---------------------------------------------------------------------------
// generate
// ---------------------------------------------------------------------------

// generateOutput is the --json report for editor integrations.
type generateOutput struct {
	Key         string             `json:"key"`
	Module      string             `json:"module"`
	Value       string             `json:"value"`
	Replacement string             `json:"replacement"`
	Start       selection.Position `json:"start"`
	End         selection.Position `json:"end"`
	Files       []string           `json:"files"`
	Committed   bool               `json:"committed"`
}

func newGenerateOutput(res *generator.Result, src []byte, committed bool) generateOutput {
	return generateOutput{
		Key:         res.Ref.String(),
		Module:      res.Module,
		Value:       res.Value,
		Replacement: res.Edit.NewText,
		Start:       selection.PositionOf(src, res.Edit.Span.Start),
		End:         selection.PositionOf(src, res.Edit.Span.End),
		Files:       res.Txn.Paths(),
		Committed:   committed,
	}
}

// selectionSpan picks the selected range from --range or --start/--end.
func selectionSpan(src []byte, rangeFlag string, start, end int, haveOffsets bool) (selection.Span, error) {
	switch {
	case rangeFlag != "":
		return selection.ParseRange(src, rangeFlag)
	case haveOffsets:
		if start < 0 || end < start || end > len(src) {
			return selection.Span{}, fmt.Errorf("%w: %d-%d", selection.ErrOutOfRange, start, end)
		}
		return selection.Span{Start: start, End: end}, nil
	default:
		return selection.Span{}, errors.New(i18n.T("a selection is required: use --range or --start and --end"))
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		file         string
		rangeFlag    string
		start, end   int
		key          string
		jsonOut      bool
		dryRun       bool
		noSourceEdit bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Externalize a selected literal",
		Long: `Externalize the selected string literal of a source file.

The module is inferred from the file path (the segment after "libs" or
"modules"). The key is declared in the module's literals.ts, stored in
every language dictionary (sorted, 2-space indented), and the selection
is replaced by this.i18n.<object>.<term>. All files are written together
or not at all.

With --json the source file is left alone and the edit is printed for the
editor to apply.

Examples:
  litgen generate --file modules/billing/src/invoice.ts --range 12:15-12:28 --key geral.dataHora
  litgen generate --file libs/ui/src/menu.ts --start 340 --end 352 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			path, err := filepath.Abs(file)
			if err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			haveOffsets := cmd.Flags().Changed("start") && cmd.Flags().Changed("end")
			span, err := selectionSpan(src, rangeFlag, start, end, haveOffsets)
			if err != nil {
				return err
			}

			gen, finder, err := newGenerator(linePrompter{in: os.Stdin, out: os.Stderr})
			if err != nil {
				return err
			}
			res, err := gen.Plan(ctx, generator.Request{
				Path:       path,
				Source:     src,
				Span:       span,
				Key:        key,
				SkipSource: noSourceEdit || jsonOut,
			})
			if err != nil {
				return err
			}

			if dryRun {
				if jsonOut {
					return printJSON(newGenerateOutput(res, src, false))
				}
				return printDiff(res.Txn, finder.Root())
			}
			if err := res.Txn.Commit(); err != nil {
				return err
			}
			if jsonOut {
				return printJSON(newGenerateOutput(res, src, true))
			}
			logSuccess(i18n.T("Literal %s generated in module %s"), res.Ref, res.Module)
			logInfo(i18n.N("%d file updated", "%d files updated", res.Txn.Len()), res.Txn.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Source file holding the selection")
	cmd.Flags().StringVarP(&rangeFlag, "range", "r", "", "Selection as LINE:COL-LINE:COL (1-based)")
	cmd.Flags().IntVar(&start, "start", 0, "Selection start as a byte offset")
	cmd.Flags().IntVar(&end, "end", 0, "Selection end as a byte offset")
	cmd.Flags().StringVarP(&key, "key", "k", "", "New object.term key (prompted when omitted)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the edit as JSON and leave the source file alone")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing")
	cmd.Flags().BoolVar(&noSourceEdit, "no-source-edit", false, "Update declaration and dictionaries only")
	_ = cmd.MarkFlagRequired("file")
	cmd.MarkFlagsMutuallyExclusive("range", "start")
	cmd.MarkFlagsMutuallyExclusive("range", "end")
	cmd.MarkFlagsRequiredTogether("start", "end")

	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ---------------------------------------------------------------------------
// lookup
// ---------------------------------------------------------------------------

func newLookupCmd() *cobra.Command {
	var module string

	cmd := &cobra.Command{
		Use:   "lookup <object.term>",
		Short: "Show a key's value in every dictionary of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := termkey.Parse(args[0])
			if err != nil {
				return err
			}
			gen, _, err := newGenerator(nil)
			if err != nil {
				return err
			}
			found, err := gen.Lookup(module, ref)
			if err != nil {
				return err
			}
			for _, tr := range found {
				value := fmt.Sprintf("%q", tr.Value)
				if !tr.Found {
					value = missing(i18n.T("(missing)"))
				}
				fmt.Printf("  %-4s %s\n", tr.Lang, value)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "Module or lib name")
	_ = cmd.MarkFlagRequired("module")

	return cmd
}

// ---------------------------------------------------------------------------
// sort
// ---------------------------------------------------------------------------

func newSortCmd() *cobra.Command {
	var (
		module string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Re-normalize the dictionaries of a module",
		Long: `Rewrite every language dictionary of a module with keys sorted
recursively and 2-space indentation. Already normalized files are left
untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			gen, finder, err := newGenerator(nil)
			if err != nil {
				return err
			}
			tx, err := gen.Normalize(ctx, module)
			if err != nil {
				return err
			}
			if dryRun {
				return printDiff(tx, finder.Root())
			}
			if tx.Len() == 0 {
				logSuccess("%s", i18n.T("All dictionaries are already sorted"))
				return nil
			}
			if err := tx.Commit(); err != nil {
				return err
			}
			logSuccess(i18n.N("Sorted %d dictionary", "Sorted %d dictionaries", tx.Len()), tx.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "Module or lib name")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing")
	_ = cmd.MarkFlagRequired("module")

	return cmd
}

// ---------------------------------------------------------------------------
// status (read-only)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var module string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show declared groups and dictionary coverage",
		Long: `Show the module's literals declaration, its groups and terms, and for
each language dictionary how many terms it holds, whether it is sorted and
which declared keys it lacks. Does not modify any files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, finder, err := newGenerator(nil)
			if err != nil {
				return err
			}
			st, err := gen.Inspect(module)
			if err != nil {
				return err
			}
			printStatus(os.Stderr, st, finder.Root())
			return nil
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "Module or lib name")
	_ = cmd.MarkFlagRequired("module")

	return cmd
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func printStatus(w io.Writer, st *generator.Status, root string) {
	fmt.Fprintf(w, "\n%s\n", heading(i18n.T("Module")))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "  %-13s %s\n", i18n.T("Name:"), st.Module)
	fmt.Fprintf(w, "  %-13s %s\n", i18n.T("Declaration:"), relPath(root, st.Declaration))

	fmt.Fprintf(w, "\n%s\n", heading(i18n.T("Groups")))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	if len(st.Groups) == 0 {
		fmt.Fprintf(w, "  %s\n", i18n.T("(none)"))
	}
	for _, g := range st.Groups {
		fmt.Fprintf(w, "  %-20s %s\n", g.Name, strings.Join(g.Terms, ", "))
	}

	fmt.Fprintf(w, "\n%s\n", heading(i18n.T("Dictionaries")))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	if len(st.Dictionaries) == 0 {
		fmt.Fprintf(w, "  %s\n", i18n.T("(none)"))
	}
	for _, d := range st.Dictionaries {
		sorted := i18n.T("sorted")
		if !d.Sorted {
			sorted = missing(i18n.T("unsorted"))
		}
		fmt.Fprintf(w, "  %-4s %-20s %s  %s  %s\n",
			d.Lang, d.Language.Name, relPath(root, d.Path),
			fmt.Sprintf(i18n.N("%d term", "%d terms", d.Terms), d.Terms), sorted)
		if len(d.Missing) > 0 {
			fmt.Fprintf(w, "       %s %s\n", missing(i18n.T("missing:")), strings.Join(d.Missing, ", "))
		}
	}
	fmt.Fprintln(w)
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("litgen version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}
