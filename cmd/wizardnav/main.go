package main

import (
	"os"

	"github.com/tungetti/wizardnav/internal/cli"
)

func main() {
	info := cli.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	}
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr, info))
}
