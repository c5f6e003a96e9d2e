package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fekuna/gudang-pos/internal/operator"
	"github.com/fekuna/gudang-pos/internal/pos/shell"
	posUCPkg "github.com/fekuna/gudang-pos/internal/pos/usecase"
	"github.com/fekuna/gudang-pos/internal/printer"
	"github.com/spf13/cobra"
)

func newShellCmd(a *app) *cobra.Command {
	var operatorName string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive cart and checkout session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if operatorName != "" {
				ctx = operator.WithOperator(ctx, operatorName)
			}
			return runShell(ctx, a)
		},
	}
	cmd.Flags().StringVar(&operatorName, "operator", os.Getenv("USER"), "operator name recorded in logs")
	return cmd
}

func runShell(ctx context.Context, a *app) error {
	out := os.Stdout
	notify := printer.NotifierFunc(func(title, message string) {
		fmt.Fprintf(os.Stderr, "\033[1;31m%s:\033[0m %s\n", title, message)
	})
	posUC := posUCPkg.NewPOSUseCase(a.components(ctx, a.currentSettings(), notify, nil), a.logger, a.metrics)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "\033[1;36m>\033[0m ",
		HistoryFile:       filepath.Join(homeDir, ".gudang_history"),
		AutoComplete:      shell.NewCompleter(posUC),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %v", err)
	}
	defer rl.Close()

	confirm := func(question string) bool {
		rl.SetPrompt(question + " [y/N] ")
		defer rl.SetPrompt("\033[1;36m>\033[0m ")
		answer, err := rl.Readline()
		if err != nil {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
	sh := shell.New(posUC, out, confirm)

	fmt.Fprintln(out, a.currentSettings().Title())
	fmt.Fprintln(out, "Type 'help' for commands, Tab completes item names.")

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}
		if err := sh.Execute(ctx, line); err != nil {
			if errors.Is(err, shell.ErrQuit) {
				return nil
			}
			fmt.Fprintf(os.Stderr, "\033[1;31mError:\033[0m %v\n", err)
		}
	}
}
