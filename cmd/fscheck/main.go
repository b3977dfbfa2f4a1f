// fscheck verifies that the files of a FreeSurfer subjects directory
// decode cleanly.
//
// Usage:
//
//	fscheck [--manifest manifest.yaml] <subjects_dir> [<subject> ...]
//
// Without explicit subjects every subdirectory of subjects_dir is
// checked. The manifest selects which per-subject files to verify; when
// omitted, a standard set of surface, morphometry, label, parcellation
// and volume files is used. Missing files are reported as warnings,
// files that fail to decode as errors.
//
// Exit codes:
//
//	0: all present files decoded
//	1: one or more files failed to decode
//	2: error (bad manifest, unreadable subjects dir)
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/neurofs/go-freesurfer/freesurfer"
)

// Manifest lists the per-subject files to verify, as paths relative to
// the subject directory, grouped by format.
type Manifest struct {
	Surfaces []string `yaml:"surfaces"`
	Curvs    []string `yaml:"curvs"`
	Labels   []string `yaml:"labels"`
	Annots   []string `yaml:"annots"`
	Volumes  []string `yaml:"volumes"`
}

// defaultManifest covers the files a standard recon-all run produces.
func defaultManifest() *Manifest {
	return &Manifest{
		Surfaces: []string{"surf/lh.white", "surf/rh.white", "surf/lh.pial", "surf/rh.pial"},
		Curvs:    []string{"surf/lh.thickness", "surf/rh.thickness"},
		Labels:   []string{"label/lh.cortex.label", "label/rh.cortex.label"},
		Annots:   []string{"label/lh.aparc.annot", "label/rh.aparc.annot"},
		Volumes:  []string{"mri/brain.mgz"},
	}
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}

type checker struct {
	errors   int
	warnings int
}

func (c *checker) check(subjectDir, rel string, decode func(string) error) {
	path := filepath.Join(subjectDir, rel)
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("  warn: %s: missing\n", rel)
		c.warnings++
		return
	}
	if err := decode(path); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		c.errors++
		return
	}
	fmt.Printf("  ok:   %s\n", rel)
}

func (c *checker) subject(dir string, m *Manifest) {
	fmt.Printf("%s:\n", dir)
	for _, rel := range m.Surfaces {
		c.check(dir, rel, func(p string) error { _, err := freesurfer.ReadSurface(p); return err })
	}
	for _, rel := range m.Curvs {
		c.check(dir, rel, func(p string) error { _, err := freesurfer.ReadCurv(p); return err })
	}
	for _, rel := range m.Labels {
		c.check(dir, rel, func(p string) error { _, err := freesurfer.ReadLabel(p); return err })
	}
	for _, rel := range m.Annots {
		c.check(dir, rel, func(p string) error { _, err := freesurfer.ReadAnnot(p); return err })
	}
	for _, rel := range m.Volumes {
		c.check(dir, rel, func(p string) error { _, err := freesurfer.ReadMgh(p); return err })
	}
}

func listSubjects(subjectsDir string) ([]string, error) {
	entries, err := os.ReadDir(subjectsDir)
	if err != nil {
		return nil, err
	}
	var subjects []string
	for _, e := range entries {
		if e.IsDir() {
			subjects = append(subjects, e.Name())
		}
	}
	return subjects, nil
}

func main() {
	var manifestPath string

	app := &cli.Command{
		Name:      "fscheck",
		Usage:     "Verify that a FreeSurfer subjects directory decodes cleanly",
		ArgsUsage: "<subjects_dir> [<subject> ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "manifest",
				Usage:       "YAML manifest of per-subject files to verify",
				Destination: &manifestPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) == 0 {
				cli.ShowAppHelp(cmd)
				return cli.Exit("", 2)
			}
			subjectsDir := args[0]

			manifest := defaultManifest()
			if manifestPath != "" {
				var err error
				if manifest, err = loadManifest(manifestPath); err != nil {
					return cli.Exit(fmt.Sprintf("fscheck: %v", err), 2)
				}
			}

			subjects := args[1:]
			if len(subjects) == 0 {
				var err error
				if subjects, err = listSubjects(subjectsDir); err != nil {
					return cli.Exit(fmt.Sprintf("fscheck: %v", err), 2)
				}
			}

			var c checker
			for _, subject := range subjects {
				c.subject(filepath.Join(subjectsDir, subject), manifest)
			}
			fmt.Printf("%d errors, %d warnings\n", c.errors, c.warnings)
			if c.errors > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
