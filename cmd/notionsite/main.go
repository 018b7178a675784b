package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/notionsite/cmd/notionsite/commands"
	derrors "git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout}

	ctx := kong.Parse(cli,
		kong.Name("notionsite"),
		kong.Description("Serve a Notion-backed site: URL mappings, search proxy and site metadata."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Current().String()},
		kong.Bind(global),
	)

	if err := ctx.Run(cli); err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
