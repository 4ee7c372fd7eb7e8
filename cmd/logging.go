package cmd

import (
	"github.com/Jearyhao/RayTracing/log"
	"github.com/urfave/cli"
)

var logger = log.New("bvhtool")

// Apply the global logging flags. --log-level sets the base verbosity which
// -v and -vv can only raise; every module named by --debug-module is switched
// to debug output on its own.
func setupLogging(ctx *cli.Context) error {
	return configureLogging(
		ctx.GlobalString("log-level"),
		ctx.GlobalBool("v"),
		ctx.GlobalBool("vv"),
		ctx.GlobalStringSlice("debug-module"),
	)
}

func configureLogging(levelName string, verbose, veryVerbose bool, debugModules []string) error {
	level := log.Notice
	if levelName != "" {
		var err error
		if level, err = log.ParseLevel(levelName); err != nil {
			return err
		}
	}

	if verbose && level > log.Info {
		level = log.Info
	}
	if veryVerbose {
		level = log.Debug
	}
	log.SetLevel(level)

	for _, module := range debugModules {
		log.SetModuleLevel(module, log.Debug)
	}
	return nil
}
