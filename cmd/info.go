package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"
)

// Display BVH statistics for a mesh or compiled archive.
func ShowInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing mesh or compiled BVH file argument")
	}

	bvh, err := loadBVH(ctx, ctx.Args().First())
	if err != nil {
		return err
	}

	if err = bvh.Validate(); err != nil {
		logger.Errorf("BVH failed validation: %s", err.Error())
	}

	fmt.Fprint(ctx.App.Writer, bvh.Stats().Table())
	return nil
}
