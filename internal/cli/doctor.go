package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitquest/internal/constants"
)

type DoctorCmd struct{}

// Run checks the environment the store depends on. The store assumes a
// single writing process, so a second running habitquest is worth flagging.
func (c *DoctorCmd) Run(ctx *Context) error {
	ok := true

	configDir := filepath.Dir(ctx.Store.GetConfigPath())
	if info, err := os.Stat(configDir); err != nil {
		fmt.Printf("✗ config directory missing: %s (run 'habitquest init')\n", configDir)
		ok = false
	} else if !info.IsDir() {
		fmt.Printf("✗ config path is not a directory: %s\n", configDir)
		ok = false
	} else {
		fmt.Printf("✓ config directory: %s\n", configDir)
	}

	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("✗ storage: %v\n", err)
		ok = false
	} else {
		fmt.Printf("✓ storage loads: %s\n", ctx.Store.GetConfigPath())
	}

	processes, err := ps.Processes()
	if err != nil {
		fmt.Printf("? could not enumerate processes: %v\n", err)
	} else {
		others := 0
		for _, p := range processes {
			if p.Pid() == os.Getpid() {
				continue
			}
			if strings.HasPrefix(p.Executable(), constants.AppName) {
				others++
			}
		}
		if others > 0 {
			fmt.Printf("✗ found %d other running %s process(es); concurrent writers can corrupt the store\n", others, constants.AppName)
			ok = false
		} else {
			fmt.Printf("✓ no other %s processes running\n", constants.AppName)
		}
	}

	if !ok {
		return fmt.Errorf("some checks failed")
	}

	fmt.Println("\nAll checks passed.")
	return nil
}
