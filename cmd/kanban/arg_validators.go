package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// requireExactlyArgs reports missing arguments with message and surplus ones by
// the first extra value. Both errors end with the command's usage line.
func requireExactlyArgs(count int, message string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case len(args) < count:
			return fmt.Errorf("%s (usage: %s)", message, cmd.UseLine())
		case len(args) > count:
			return fmt.Errorf("unexpected argument %q (usage: %s)", args[count], cmd.UseLine())
		}
		return nil
	}
}
