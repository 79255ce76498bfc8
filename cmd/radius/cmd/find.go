package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/go-detour-radius/detour"
	"github.com/arl/go-detour-radius/nonpoint"
)

var (
	findCfgPath string
	startVal    string
	goalVal     string
	radiusVal   float32
)

var findCmd = &cobra.Command{
	Use:   "find NAVMESH",
	Short: "find a radius-aware path between two points",
	Long: `Load a navigation mesh from a binary file, locate the faces
nearest --start and --goal, run the radius-aware A* search between them,
string-pull the result and inset it for the given --radius, then print the
resulting polyline, one 'x y z' per line.`,
	Run: doFind,
}

func init() {
	RootCmd.AddCommand(findCmd)

	findCmd.Flags().StringVar(&findCfgPath, "config", "radius.yml", "find settings (optional)")
	findCmd.Flags().StringVar(&startVal, "start", "", "start position, 'x,y,z' (required)")
	findCmd.Flags().StringVar(&goalVal, "goal", "", "goal position, 'x,y,z' (required)")
	findCmd.Flags().Float32Var(&radiusVal, "radius", 0, "agent radius, overrides config")
}

func parseVec3(s string) (d3.Vec3, error) {
	var x, y, z float32
	if _, err := fmt.Sscanf(s, "%f,%f,%f", &x, &y, &z); err != nil {
		return nil, fmt.Errorf("invalid position %q: %v", s, err)
	}
	return d3.Vec3{x, y, z}, nil
}

func doFind(cmd *cobra.Command, args []string) {
	if len(args) < 1 || startVal == "" || goalVal == "" {
		fmt.Println("usage: radius find NAVMESH --start x,y,z --goal x,y,z [--radius r]")
		os.Exit(-1)
	}

	settings := defaultSettings()
	if _, err := os.Stat(findCfgPath); err == nil {
		check(unmarshalYAMLFile(findCfgPath, &settings))
	}
	if radiusVal > 0 {
		settings.Radius = radiusVal
	}

	startPos, err := parseVec3(startVal)
	check(err)
	goalPos, err := parseVec3(goalVal)
	check(err)

	f, err := os.Open(args[0])
	check(err)
	navMesh, err := detour.Decode(f)
	f.Close()
	check(err)

	query := nonpoint.NewRadiusQuery(navMesh)
	query.SetMaxSearchNodes(settings.MaxSearchNodes)
	query.EnableSpatialIndex()

	filter := detour.NewStandardQueryFilter()

	extents := d3.Vec3{2, 4, 2}
	startFace, startNearest, st := query.FindNearestFace(startPos, extents, filter)
	if detour.StatusFailed(st) {
		fmt.Println("could not locate a face near --start")
		os.Exit(-1)
	}
	goalFace, goalNearest, st := query.FindNearestFace(goalPos, extents, filter)
	if detour.StatusFailed(st) {
		fmt.Println("could not locate a face near --goal")
		os.Exit(-1)
	}

	pathFaces, portalEdges, st := query.FindPathByRadius(
		startFace, goalFace, startNearest, goalNearest, filter,
		settings.Radius, settings.MaxPath, settings.MaxPortal)
	if detour.StatusFailed(st) {
		fmt.Println("no path wide enough for the given radius")
		os.Exit(-1)
	}
	if st&detour.PartialResult != 0 {
		fmt.Fprintln(os.Stderr, "warning: partial result, goal not reached")
	}

	polyline, _, _, st := query.StraightPathByRadius(
		startNearest, goalNearest, pathFaces, portalEdges,
		settings.Radius, settings.MaxPolyline)
	if detour.StatusFailed(st) {
		fmt.Println("string-pull failed")
		os.Exit(-1)
	}

	modifier := nonpoint.NewRadiusModifier()
	modifier.MaxSubdivisionFactor = settings.MaxSubdivisionFactor
	modified, _ := modifier.ApplyModify(polyline, settings.Radius, settings.MaxModified)

	for _, p := range modified {
		fmt.Printf("%f %f %f\n", p[0], p[1], p[2])
	}
}
