package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Run     RunCmd           `cmd:"" help:"Run a batch simulation"`
	Resume  ResumeCmd        `cmd:"" help:"Continue a run from its checkpoint"`
	Inspect InspectCmd       `cmd:"" help:"Summarise a checkpoint file"`
	Agents  AgentsCmd        `cmd:"" help:"List agents, evaluators and action log modes"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdemsim"),
		kong.Description("Deterministic Texas Hold'em batch simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
