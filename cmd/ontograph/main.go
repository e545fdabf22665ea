package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"github.com/teranos/ontograph/cmd/ontograph/commands"
	"github.com/teranos/ontograph/errors"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprint(os.Stderr, pterm.Error.Sprintln(err))
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprint(os.Stderr, pterm.Info.Sprintln(hint))
		}
		os.Exit(1)
	}
}
