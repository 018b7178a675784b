package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/notionsite/internal/logfields"
	"git.home.luguber.info/inful/notionsite/internal/notion"
)

// SearchCmd implements the 'search' command.
type SearchCmd struct {
	Query    string `arg:"" help:"Search text"`
	Ancestor string `short:"a" help:"Ancestor page id (defaults to the root page)"`
	Limit    int    `short:"n" help:"Maximum number of results (defaults to search.defaultLimit)"`
}

func (s *SearchCmd) Run(g *Global, root *CLI) error {
	site, err := loadSite(g, root)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return s.run(ctx, g, notion.FromSite(site))
}

func (s *SearchCmd) run(ctx context.Context, g *Global, client *notion.Client) error {
	params, err := client.Normalize(notion.SearchParams{
		AncestorID: s.Ancestor,
		Query:      s.Query,
		Limit:      s.Limit,
	})
	if err != nil {
		return err
	}
	g.logger().Debug("Searching Notion", logfields.Query(params.Query), logfields.PageID(params.AncestorID))

	raw, err := client.Search(ctx, params)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("format search response: %w", err)
	}
	_, err = fmt.Fprintln(g.out(), buf.String())
	return err
}
