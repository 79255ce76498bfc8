package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arl/go-detour-radius/detour"
)

var infosCmd = &cobra.Command{
	Use:   "infos NAVMESH",
	Short: "show infos about a navmesh",
	Long: `Read a navigation mesh from a binary file and print tile and
polygon counts, the way go-detour's own tool reports on a build.`,
	Run: doInfos,
}

func init() {
	RootCmd.AddCommand(infosCmd)
}

func doInfos(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing NAVMESH argument")
		os.Exit(-1)
	}

	f, err := os.Open(args[0])
	check(err)
	defer f.Close()

	nav, err := detour.Decode(f)
	check(err)

	var tiles, polys, verts int
	for i := range nav.Tiles {
		tile := &nav.Tiles[i]
		if tile.Header == nil {
			continue
		}
		tiles++
		polys += int(tile.Header.PolyCount)
		verts += int(tile.Header.VertCount)
	}

	fmt.Printf("navmesh '%s'\n", args[0])
	fmt.Printf("  tiles: %d\n", tiles)
	fmt.Printf("  polys: %d\n", polys)
	fmt.Printf("  verts: %d\n", verts)
}
