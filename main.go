package main

import (
	"os"

	"github.com/Jearyhao/RayTracing/cmd"
	"github.com/Jearyhao/RayTracing/log"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	buildFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "leaf-size",
			Value: 4,
			Usage: "maximum number of primitives stored in a BVH leaf",
		},
		cli.StringFlag{
			Name:  "split",
			Value: "mean",
			Usage: "node partitioning strategy (mean, sah)",
		},
	}

	app := cli.NewApp()
	app.Name = "bvhtool"
	app.Usage = "build and query bounding volume hierarchies for triangle meshes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "notice",
			Usage: "base log level (debug, info, notice, warning, error)",
		},
		cli.StringSliceFlag{
			Name:  "debug-module",
			Value: &cli.StringSlice{},
			Usage: "enable debug output for a single logger, e.g. \"bvh builder\"",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile wavefront meshes into BVH archives",
			Description: `
Parse a mesh from a wavefront obj file, build a BVH tree to optimize ray
intersection tests and write the flattened tree to a zip archive next to the
input file (mesh.obj -> mesh.bvh.zip).

The compiled archive can be supplied to the info and bench commands in place
of the original mesh.`,
			ArgsUsage: "mesh_file1.obj mesh_file2.obj ...",
			Flags:     buildFlags,
			Action:    cmd.CompileMesh,
		},
		{
			Name:      "info",
			Usage:     "print BVH statistics for a mesh or compiled archive",
			ArgsUsage: "mesh_file.obj|mesh_file.bvh.zip",
			Flags:     buildFlags,
			Action:    cmd.ShowInfo,
		},
		{
			Name:  "bench",
			Usage: "compare BVH queries against a linear scan",
			Description: `
Trace a batch of random rays aimed at the mesh through both the BVH and a
linear primitive list, verify that both report the same closest hits and
display timing statistics.`,
			ArgsUsage: "mesh_file.obj|mesh_file.bvh.zip",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 100000,
					Usage: "number of rays to trace",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed for ray generation",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of tracing goroutines (0 = one per CPU)",
				},
			}, buildFlags...),
			Action: cmd.Bench,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("bvhtool").Error(err.Error())
		os.Exit(1)
	}
}
