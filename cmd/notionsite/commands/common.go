package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/notionsite/internal/config"
)

// Global is shared state handed to every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"site.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve  ServeCmd  `cmd:"" help:"Serve the site API, search proxy and monitoring endpoints"`
	Check  CheckCmd  `cmd:"" help:"Validate the configuration file"`
	Routes RoutesCmd `cmd:"" help:"Print the URL override and addition tables"`
	Search SearchCmd `cmd:"" help:"Run a one-off Notion search"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once. Commands that load
// the site replace this logger with one built from its logging settings.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	g.Logger = logger
	if g.Out == nil {
		g.Out = os.Stdout
	}
	return nil
}

// loadSite loads root.Config and reports normalization warnings.
func loadSite(g *Global, root *CLI) (*config.Site, error) {
	res, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	logWarnings(g.logger(), res.Warnings)
	return res.Site, nil
}

func logWarnings(logger *slog.Logger, warnings []string) {
	for _, w := range warnings {
		logger.Warn("Configuration normalized", slog.String("detail", w))
	}
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}
