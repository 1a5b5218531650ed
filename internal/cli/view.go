package cli

import (
	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/storage"
)

type ViewCmd struct {
	Get ViewGetCmd `cmd:"" help:"Show the last selected view."`
	Set ViewSetCmd `cmd:"" help:"Remember a view for the next session."`
}

type ViewGetCmd struct{}

func (c *ViewGetCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	view, err := storage.LoadLastView(ctx.Store)
	if err != nil {
		return err
	}
	ctx.println(string(view))
	return nil
}

type ViewSetCmd struct {
	View string `arg:"" enum:"daily_objectives,overview,individual,group,trophies" help:"View to remember (daily_objectives, overview, individual, group, trophies)."`
}

func (c *ViewSetCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	if err := storage.SaveLastView(ctx.Store, models.ViewMode(c.View)); err != nil {
		return err
	}
	ctx.printf("Last view set to %s\n", c.View)
	return nil
}
