package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keshon/botinvoker/internal/commands"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the loaded commands and their variants",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			printError("failed to initialize", err)
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		for _, name := range a.Table.Names() {
			fmt.Fprintln(out, name)
			for _, line := range commands.Usage(a.Table, name) {
				fmt.Fprintln(out, line)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}
