package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/notionsite/internal/config"
	"git.home.luguber.info/inful/notionsite/internal/logfields"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Watch    bool          `short:"w" help:"Keep running and re-validate whenever the file changes"`
	Debounce time.Duration `help:"Quiet period before re-validating a changed file" default:"500ms"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	site, err := loadSite(g, root)
	if err != nil {
		return err
	}
	printSummary(g, site)

	if !c.Watch {
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return c.watch(ctx, g, root.Config)
}

// watch blocks until ctx is done, reporting every reload.
func (c *CheckCmd) watch(ctx context.Context, g *Global, path string) error {
	w, err := config.NewWatcher(path, c.Debounce, func(res *config.Result, err error) {
		if err != nil {
			g.logger().Error("Configuration invalid", logfields.File(path), logfields.Error(err))
			_, _ = fmt.Fprintf(g.out(), "INVALID: %v\n", err)
			return
		}
		logWarnings(g.logger(), res.Warnings)
		printSummary(g, res.Site)
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

func printSummary(g *Global, site *config.Site) {
	_, _ = fmt.Fprintf(g.out(), "OK: root %s, %d overrides, %d additions, host %s\n",
		site.RootNotionPageID,
		site.Mappings.Overrides.Len(),
		site.Mappings.Additions.Len(),
		site.Host,
	)
}
