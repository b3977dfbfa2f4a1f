// fsmorph reports descriptive statistics for native-space morphometry
// data, e.g. cortical thickness.
//
// Usage:
//
//	fsmorph --curv lh.thickness [--label lh.cortex.label] [--annot lh.aparc.annot]
//
// Without further options the statistics cover every vertex. A label
// restricts them to the label's members, the usual way to exclude the
// medial wall. An annot additionally reports the per-region means.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/neurofs/go-freesurfer/freesurfer"
	"github.com/neurofs/go-freesurfer/fsutil"
)

func run(curvPath, labelPath, annotPath string) error {
	curv, err := freesurfer.ReadCurv(curvPath)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", curvPath, fsutil.Describe(curv.Data))

	if labelPath != "" {
		label, err := freesurfer.ReadLabel(labelPath)
		if err != nil {
			return err
		}
		if label.Len() == 0 {
			return fmt.Errorf("label %s has no entries", labelPath)
		}
		mask := label.Mask(len(curv.Data))
		fmt.Printf("%s (masked by %s): %s\n", curvPath, labelPath, fsutil.DescribeMasked(curv.Data, mask))
	}

	if annotPath != "" {
		annot, err := freesurfer.ReadAnnot(annotPath)
		if err != nil {
			return err
		}
		means := fsutil.RegionMeans(annot, curv.Data)
		regions := make([]string, 0, len(means))
		for name := range means {
			regions = append(regions, name)
		}
		sort.Strings(regions)
		fmt.Printf("per-region means (%d regions with vertices):\n", len(regions))
		for _, name := range regions {
			fmt.Printf("  %-32s %.4f\n", name, means[name])
		}
	}
	return nil
}

func main() {
	var curvPath, labelPath, annotPath string

	app := &cli.Command{
		Name:  "fsmorph",
		Usage: "Report descriptive statistics for FreeSurfer morphometry data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "curv",
				Usage:       "path to the curv file holding per-vertex values",
				Destination: &curvPath,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "label",
				Usage:       "restrict statistics to this label's members",
				Destination: &labelPath,
			},
			&cli.StringFlag{
				Name:        "annot",
				Usage:       "also report per-region means for this parcellation",
				Destination: &annotPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(curvPath, labelPath, annotPath)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
