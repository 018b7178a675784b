package commands

import (
	"fmt"

	"git.home.luguber.info/inful/notionsite/internal/config"
	derrors "git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return derrors.ConfigError("cannot write configuration file").
			WithCause(err).
			WithContext("file", root.Config).
			Build()
	}
	g.logger().Info("Configuration file created", logfields.File(root.Config))
	_, _ = fmt.Fprintf(g.out(), "Wrote %s\n", root.Config)
	return nil
}
