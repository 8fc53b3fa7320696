package cli

import "fmt"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}

	// Seed the starter habit so the first real command finds a non-empty store
	l, err := ctx.openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(l)

	fmt.Printf("Initialized habitquest storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
