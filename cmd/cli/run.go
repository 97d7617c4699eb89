package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keshon/botinvoker/internal/commands"
	pcmd "github.com/keshon/botinvoker/pkg/cmd"
	"github.com/keshon/botinvoker/pkg/util"
)

var botName string

var runCmd = &cobra.Command{
	Use:   "run <command> [args...]",
	Short: "Run one command as the owner",
	Example: `  botinvoker run status all
  botinvoker run grant main 1234 operator
  botinvoker run -- say main "hello there"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

func init() {
	runCmd.Flags().StringVarP(&botName, "bot", "b", "", "bot the command runs against (default: DEFAULT_BOT)")
	rootCmd.AddCommand(runCmd)
}

func runCommand(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		printError("failed to initialize", err)
		return err
	}
	defer a.Close()

	var target pcmd.Target = a.DefaultBot()
	if botName != "" {
		b, err := a.Fleet.Bot(botName)
		if err != nil {
			printError("unknown bot", err)
			return err
		}
		target = b
	}

	owner := a.Config.PrimaryOwner()
	if owner == 0 {
		err := errors.New("OWNER_IDS is empty")
		printError("no caller", err)
		return err
	}

	// Args arrive already split by the shell; a single quoted argument is
	// tokenized like a chat line.
	tokens := args
	if len(args) == 1 {
		tokens = util.Tokenize(args[0])
	}
	line := strings.Join(tokens, " ")

	ctx := commands.WithSource(context.Background(), "cli")
	out := a.Table.Dispatch(ctx, target, pcmd.CallerID(owner), line, tokens)
	if out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}
