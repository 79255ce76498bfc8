package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Settings controls the default parameters of a find run; a YAML file of
// this shape is prefilled by 'radius config' and consumed by 'radius find
// --config'.
type Settings struct {
	Radius               float32 `yaml:"radius"`
	MaxSearchNodes       int     `yaml:"max_search_nodes"`
	MaxPath              int     `yaml:"max_path"`
	MaxPortal            int     `yaml:"max_portal"`
	MaxPolyline          int     `yaml:"max_polyline"`
	MaxModified          int     `yaml:"max_modified"`
	MaxSubdivisionFactor float32 `yaml:"max_subdivision_factor"`
}

// defaultSettings mirrors package nonpoint's own internal defaults
// (defaultMaxSearchNodes, defaultMaxSubdivisionFactor) so a generated
// config.yml documents what the library already assumes when no file is
// given.
func defaultSettings() Settings {
	return Settings{
		Radius:               0.4,
		MaxSearchNodes:       2048,
		MaxPath:              256,
		MaxPortal:            256,
		MaxPolyline:          256,
		MaxModified:          512,
		MaxSubdivisionFactor: 10.0,
	}
}

var configCmd = &cobra.Command{
	Use:   "config [FILE]",
	Short: "create a find settings file",
	Long: `Create a find settings file in YAML format, prefilled with default values.

If FILE is not provided, 'radius.yml' is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "radius.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		if ok, err := confirmIfExists(path,
			fmt.Sprintf("file name %s already exists, overwrite? [y/N]", path)); !ok {
			if err == nil {
				fmt.Println("aborted by user...")
			} else {
				fmt.Println("aborted,", err)
			}
			return
		}
		check(marshalYAMLFile(path, defaultSettings()))
		fmt.Printf("find settings written to '%s'\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
