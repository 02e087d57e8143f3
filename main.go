// Package main is the entry point for the lcarstv application.
package main

import (
	"github.com/CinkadeusBG/LCARSTV/cmd"
	"github.com/CinkadeusBG/LCARSTV/config"
	"github.com/CinkadeusBG/LCARSTV/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
