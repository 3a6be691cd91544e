// Command las2poly extracts polygonal land or water boundaries from
// airborne lidar tiles, emitting GeoJSON or shapefile.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mholling/las2poly/runner"
)

// version is set via -ldflags "-X main.version=..." at build time.
var version = "dev"

func main() {
	cfg := runner.NewConfig()

	var (
		width, area, scale float64
		epsg               int
		discardCSV         string
		threadsCSV         string
	)

	root := &cobra.Command{
		Use:   "las2poly <tile.las>... <water.json>",
		Short: "extract waterbodies from lidar tiles",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			cfg.TilePaths = args[:len(args)-1]
			cfg.Path = args[len(args)-1]

			if cmd.Flags().Changed("width") {
				cfg.Width = &width
			}
			if cmd.Flags().Changed("area") {
				cfg.Area = &area
			}
			if cmd.Flags().Changed("scale") {
				cfg.Scale = &scale
			}
			if cmd.Flags().Changed("epsg") {
				cfg.EPSG = &epsg
			}
			if discardCSV != "" {
				classes, err := parseInts(discardCSV)
				if err != nil {
					return fmt.Errorf("--discard: %w", err)
				}
				cfg.Discard = classes
			}
			if threadsCSV != "" {
				counts, err := parseInts(threadsCSV)
				if err != nil {
					return fmt.Errorf("--threads: %w", err)
				}
				cfg.Threads = counts
			}

			return runner.NewPipeline(cfg.Quiet).Run(cfg)
		},
		SilenceUsage: true,
	}

	flags := root.Flags()
	flags.Float64VarP(&width, "width", "w", 0, "minimum waterbody width (metres)")
	flags.Float64Var(&cfg.Delta, "delta", cfg.Delta, "maximum waterbody height delta (metres)")
	flags.Float64Var(&cfg.Slope, "slope", cfg.Slope, "maximum waterbody slope (degrees)")
	flags.BoolVar(&cfg.Land, "land", false, "extract land areas instead of waterbodies")
	flags.Float64Var(&area, "area", 0, "minimum waterbody and island area (square metres)")
	flags.Float64Var(&scale, "scale", 0, "feature scale for smoothing and simplification")
	flags.BoolVar(&cfg.Simplify, "simplify", false, "simplify output polygons")
	flags.BoolVar(&cfg.Raw, "raw", false, "don't smooth output polygons")
	flags.StringVar(&discardCSV, "discard", "", "discard point classes (comma-separated)")
	flags.BoolVar(&cfg.Multi, "multi", false, "collect polygons into single multipolygon")
	flags.BoolVar(&cfg.Lines, "lines", false, "output polygon boundaries as linestrings")
	flags.IntVar(&epsg, "epsg", 0, "override missing or incorrect EPSG codes")
	flags.StringVar(&threadsCSV, "threads", "", "number of processing threads")
	flags.StringVar(&cfg.TilesPath, "tiles", "", "list of input tiles as a text or YAML file")
	flags.BoolVarP(&cfg.Overwrite, "overwrite", "o", false, "overwrite existing output file")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "don't show progress information")
	root.Version = version

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func parseInts(csv string) ([]int, error) {
	parts := strings.Split(csv, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", part)
		}
		values = append(values, n)
	}
	return values, nil
}
