// Command extentctl is a scriptable stand-in for the interactive debugfs
// "extent" console: it opens a cursor on one inode's extent tree and runs
// a single traversal, seek, or geometry command against it, printing the
// result. Unlike debugfs it takes one command per invocation; there is no
// REPL.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	cliName        = "extentctl"
	cliDescription = "Inspect and drive an ext4-family extent tree"
)

var rootCmd = &cobra.Command{
	Use:        cliName,
	Short:      cliDescription,
	SuggestFor: []string{"extentctl"},
}

func init() {
	rootCmd.AddCommand(
		newDemoCommand(),
		newGetCommand(),
		newGotoCommand(),
		newInfoCommand(),
		newWalkCommand(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
