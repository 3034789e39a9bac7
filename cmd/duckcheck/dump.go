package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"duckcheck/internal/diagfmt"
	"duckcheck/internal/driver"
	"duckcheck/internal/symbols"
	"duckcheck/internal/trace"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [flags] <document>...",
		Short: "Print the AST with the inferred type of every node",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDump,
	}
	cmd.Flags().Bool("json", false, "emit the typed tree as JSON")
	cmd.Flags().Bool("failures", false, "show the failure message instead of the type on failed nodes")
	cmd.Flags().Bool("bindings", false, "list module and class bindings after each tree (text output)")
	cmd.Flags().String("reassign", "", "reassignment policy (unify|rebind)")
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd, m.Config.Trace)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	defer dumpTraceOnPanic(trace.FromContext(ctx), cmd.ErrOrStderr())

	asJSON, _ := cmd.Flags().GetBool("json")
	failures, _ := cmd.Flags().GetBool("failures")
	bindings, _ := cmd.Flags().GetBool("bindings")
	policy := m.Config.Policy()
	if cmd.Flags().Changed("reassign") {
		value, _ := cmd.Flags().GetString("reassign")
		if policy, err = symbols.ParseReassignPolicy(value); err != nil {
			return err
		}
	}

	// cached results carry no tree, so dump always infers
	res, err := driver.Check(ctx, args, driver.Options{Policy: policy, BaseDir: m.Root})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	broken := false
	printed := 0
	for _, f := range res.Files {
		if f.Sema == nil {
			broken = true
			continue
		}
		if asJSON {
			if err := diagfmt.TreeJSON(out, f.Sema); err != nil {
				return err
			}
			continue
		}
		if printed > 0 {
			fmt.Fprintln(out)
		}
		printed++
		fmt.Fprintf(out, "# %s\n", f.Path)
		if err := diagfmt.Tree(out, f.Sema, diagfmt.TreeOpts{Failures: failures}); err != nil {
			return err
		}
		if bindings {
			fmt.Fprintln(out, "## bindings")
			if err := diagfmt.Bindings(out, f.Sema); err != nil {
				return err
			}
		}
	}
	if broken {
		if err := diagfmt.Short(cmd.ErrOrStderr(), res.Bag, res.FileSet); err != nil {
			return err
		}
		return errDiagnostics
	}
	return nil
}
