package main

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/logger"
	"github.com/johnconnor-sec/menulauncher/internal/model"
	"github.com/johnconnor-sec/menulauncher/internal/resource"
)

type validation struct {
	path string
	doc  *model.Document
	err  error
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var (
		tree     bool
		commands bool
	)

	cmd := &cobra.Command{
		Use:   "validate CONFIG...",
		Short: "Parse menu documents and report what they contain",
		Long: `validate builds the complete tree of every given root document, as the
terminal UI would, and prints a summary. Documents are parsed in parallel.
The command fails when any document has a fatal error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := opts.formatter(cmd)
			log := logger.FromContext(ctx)

			_, sc, err := opts.loadSystem(ctx)
			if err != nil {
				return err
			}

			results := make([]validation, len(args))
			status := f.NewStatusLine()
			status.Update("Parsing %d documents...", len(args))

			// Document failures land in results; only cancellation stops the run.
			var g errgroup.Group
			g.SetLimit(runtime.NumCPU())
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					parser := &model.Parser{Config: sc, Logger: log}
					doc, err := parser.Parse(ctx, resource.Join(sc.LauncherBase, path))
					results[i] = validation{path: path, doc: doc, err: err}
					return ctx.Err()
				})
			}
			err = g.Wait()
			status.Clear()
			if err != nil {
				return err
			}

			table := f.Table().Headers("Document", "Status", "Commands", "Menus", "Titles", "Separators")
			var failed []validation
			for _, r := range results {
				if r.err != nil {
					failed = append(failed, r)
					table.Row(r.path, "failed", "-", "-", "-", "-")
					continue
				}
				counts := r.doc.Count()
				table.Row(r.path, "ok",
					strconv.Itoa(counts[model.Command]),
					strconv.Itoa(counts[model.SubMenu]),
					strconv.Itoa(counts[model.Title]),
					strconv.Itoa(counts[model.Separator]))
			}
			table.Print()

			if tree {
				for _, r := range results {
					if r.doc != nil {
						fmt.Fprintln(f.Writer())
						f.RenderDocument(r.doc, commands)
					}
				}
			}
			for _, r := range results {
				r.doc.Close()
			}

			for _, r := range failed {
				fmt.Fprintln(f.Writer())
				f.Failure(r.err)
			}
			if len(failed) > 0 {
				return errors.New(errors.ValidationFailed,
					fmt.Sprintf("%d of %d documents cannot be built", len(failed), len(results)))
			}
			f.Success("%d documents are valid", len(results))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&tree, "tree", "t", false, "print the tree of every valid document")
	cmd.Flags().BoolVarP(&commands, "commands", "c", false, "with --tree, print the resolved command lines")
	return cmd
}
