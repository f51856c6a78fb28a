package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/johnconnor-sec/menulauncher/internal/config"
	"github.com/johnconnor-sec/menulauncher/internal/exec"
	"github.com/johnconnor-sec/menulauncher/internal/output"
)

func newDiagnosticsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics",
		Short: "Check the mapping, the programs it starts and the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := opts.formatter(cmd)

			diagnostics := []output.DiagnosticInfo{{
				Component: "Go runtime",
				Details:   fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
			}, {
				Component: "Version",
				Details:   fmt.Sprintf("%s (%s)", version, commit),
			}}

			mapping, sc, err := opts.loadSystem(cmd.Context())
			if err != nil {
				diagnostics = append(diagnostics, output.DiagnosticInfo{
					Component: "Mapping",
					Status:    output.StatusFailed,
					Details:   err.Error(),
					Suggestions: []string{
						"Run 'menulauncher mapping init' to start from the default mapping",
						fmt.Sprintf("Add a %s block to the mapping", config.SystemName()),
					},
				})
			} else {
				source := mapping.Path
				if source == "" {
					source = "built-in default"
				}
				diagnostics = append(diagnostics, output.DiagnosticInfo{
					Component: "Mapping",
					Details:   fmt.Sprintf("%s, %d command types", source, len(sc.CommandTypes)),
				})
				diagnostics = append(diagnostics, programChecks(sc)...)
			}

			diagnostics = append(diagnostics, terminalCheck(), clipboardCheck())
			f.RenderDiagnostics(diagnostics)
			return nil
		},
	}
}

// programChecks looks up the executable of every command type.
func programChecks(sc *config.SystemConfig) []output.DiagnosticInfo {
	var checks []output.DiagnosticInfo
	for _, name := range sc.CommandTypeNames() {
		ct, _ := sc.CommandType(name)
		program := exec.Program(ct.Command)
		check := output.DiagnosticInfo{Component: "Type " + name}

		switch path, err := exec.Lookup(program); {
		case program == "":
			check.Details = "command given by the entry"
		case err != nil:
			check.Status = output.StatusWarning
			check.Details = program + " not found"
			check.Suggestions = []string{
				fmt.Sprintf("Install %s or fix the %q command template", program, name),
				"Check the PATH environment variable",
			}
		default:
			check.Details = path
		}
		checks = append(checks, check)
	}
	return checks
}

func terminalCheck() output.DiagnosticInfo {
	check := output.DiagnosticInfo{Component: "Terminal"}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		check.Status = output.StatusWarning
		check.Details = "stdin is not a terminal"
		check.Suggestions = []string{"The menu and password prompts need an interactive terminal"}
		return check
	}
	w, h, err := term.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		check.Details = fmt.Sprintf("TERM=%s", os.Getenv("TERM"))
		return check
	}
	check.Details = fmt.Sprintf("TERM=%s, %dx%d", os.Getenv("TERM"), w, h)
	return check
}

func clipboardCheck() output.DiagnosticInfo {
	check := output.DiagnosticInfo{Component: "Clipboard", Details: "available"}
	if clipboard.Unsupported {
		check.Status = output.StatusWarning
		check.Details = "no clipboard utility found"
		check.Suggestions = []string{"Install xclip, xsel or wl-clipboard to copy commands from the menu"}
	}
	return check
}
