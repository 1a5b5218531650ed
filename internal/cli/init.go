package cli

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	if err := ctx.Load(); err != nil {
		return err
	}
	ctx.printf("Initialized habitorbit storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
