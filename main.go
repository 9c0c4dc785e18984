// Package main is the entry point for clipreel.
package main

import (
	"github.com/clipreel/clipreel/cmd"
	"github.com/clipreel/clipreel/config"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())

	cmd.Execute()
}
