package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/exec"
	"github.com/johnconnor-sec/menulauncher/internal/filter"
	"github.com/johnconnor-sec/menulauncher/internal/launcher"
	"github.com/johnconnor-sec/menulauncher/internal/logger"
	"github.com/johnconnor-sec/menulauncher/internal/model"
	"github.com/johnconnor-sec/menulauncher/internal/search"
)

// waitingStarter runs a command to completion and copies its output.
type waitingStarter struct {
	executor *exec.Executor
	stdout   io.Writer
	stderr   io.Writer
}

func (w *waitingStarter) Start(ctx context.Context, command string) (int, error) {
	result, err := w.executor.Run(ctx, command)
	if result != nil {
		io.WriteString(w.stdout, result.Stdout)
		io.WriteString(w.stderr, result.Stderr)
	}
	if err != nil {
		return 0, err
	}
	if result.ExitCode != 0 {
		return 0, errors.New(errors.CommandExecution, fmt.Sprintf("Command exited with status %d", result.ExitCode)).
			WithDetails(fmt.Sprintf("Command: %s", command))
	}
	return 0, nil
}

// findCommand returns the command entry whose search label or text is entry.
// A label match wins; a text match must be unique. Misses carry the closest
// labels as a hint.
func findCommand(m *filter.Menu, entry string) (*model.Item, error) {
	var (
		byText []*filter.Entry
		labels []string
	)
	for _, e := range m.Entries {
		if e.Kind != filter.Command {
			continue
		}
		labels = append(labels, e.Label)
		if e.Label == entry {
			return e.Item, nil
		}
		if e.Item.Text == entry {
			byText = append(byText, e)
		}
	}

	switch len(byText) {
	case 0:
		err := errors.New(errors.ValidationFailed, fmt.Sprintf("No command entry %q", entry))
		if hints := search.NewFuzzy().Suggest(entry, labels, 3); len(hints) > 0 {
			err = err.WithDetails("Did you mean: " + strings.Join(hints, ", "))
		}
		return nil, err.WithSuggestion("Run 'menulauncher search' to list entries with their full labels")
	case 1:
		return byText[0].Item, nil
	}
	candidates := make([]string, len(byText))
	for i, e := range byText {
		candidates[i] = e.Label
	}
	return nil, errors.New(errors.ValidationFailed, fmt.Sprintf("Entry %q is ambiguous", entry)).
		WithDetails("Candidates: " + strings.Join(candidates, ", ")).
		WithSuggestion("Use the full label, submenus included")
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		wait    bool
		dryRun  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run CONFIG ENTRY",
		Short: "Start one command entry without the terminal UI",
		Long: `run starts the command entry named ENTRY, either by its text or by its
full label as printed by search ("Diagnostics > Scope"). Password protected
entries ask for the password on the terminal.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := opts.formatter(cmd)
			log := logger.FromContext(ctx)

			var extra []launcher.Option
			if wait {
				extra = append(extra, launcher.WithStarter(&waitingStarter{
					executor: exec.New(exec.ExecutionOptions{Timeout: timeout}, *log),
					stdout:   cmd.OutOrStdout(),
					stderr:   cmd.ErrOrStderr(),
				}))
			}

			s, err := openSession(ctx, opts, args[0], extra...)
			if err != nil {
				return err
			}
			defer s.Close()

			item, err := findCommand(s.SearchMenu(), args[1])
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintln(f.Writer(), item.Command)
				return nil
			}
			if err := s.Execute(ctx, item); err != nil {
				return err
			}
			if !wait {
				f.Success("Started %s", item.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "wait for the command and print its output")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the command line instead of starting it")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "with --wait, stop the command after this long")
	return cmd
}
