//go:build !gui

package main

import (
	"context"
	"errors"

	"voxhud/config"
)

const guiAvailable = false

func runGUI(context.Context, *config.Config, runOptions) error {
	return errors.New("voxhud: built without GUI support (rebuild with -tags gui)")
}
