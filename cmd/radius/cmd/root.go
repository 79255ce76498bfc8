package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "radius",
	Short: "find radius-aware paths over a navmesh",
	Long: `radius is the command-line tool accompanying go-detour-radius:
	- load a pre-built navmesh (binary, as produced by go-detour/recast),
	- find a corridor between two points wide enough for a given agent radius,
	- string-pull and inset the result, printing the polyline,
	- show info about a navmesh file,
	- write a settings file prefilled with default values.`,
}

// Execute adds all child commands to RootCmd and runs it. Called once by
// main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
