package commands

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/notionsite/internal/routing"
	"git.home.luguber.info/inful/notionsite/internal/urlmap"
)

// RoutesCmd implements the 'routes' command.
type RoutesCmd struct {
	Resolve []string `arg:"" optional:"" help:"Paths to resolve instead of printing the tables"`
}

type routeTables struct {
	Overrides        urlmap.ForwardMap `json:"overrides"`
	InverseOverrides urlmap.InverseMap `json:"inverseOverrides"`
	Additions        urlmap.ForwardMap `json:"additions"`
}

func (r *RoutesCmd) Run(g *Global, root *CLI) error {
	site, err := loadSite(g, root)
	if err != nil {
		return err
	}

	var out any
	if len(r.Resolve) == 0 {
		out = routeTables{
			Overrides:        site.Mappings.Overrides,
			InverseOverrides: site.Mappings.InverseOverrides,
			Additions:        site.Mappings.Additions,
		}
	} else {
		resolver := routing.FromSite(site)
		resolved := make([]routing.Resolution, 0, len(r.Resolve))
		for _, p := range r.Resolve {
			res, err := resolver.Resolve(p)
			if err != nil {
				return err
			}
			resolved = append(resolved, res)
		}
		out = resolved
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode routes: %w", err)
	}
	_, err = fmt.Fprintln(g.out(), string(data))
	return err
}
