package main

import (
	"os"

	"github.com/btw-claude/confluence-skills/internal/cli"
	"github.com/btw-claude/confluence-skills/internal/errs"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(errs.ExitCodeFromError(err))
	}
}
