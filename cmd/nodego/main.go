// Command nodego runs a single JavaScript file on the embedded runtime.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/nodego-run/nodego"
	"github.com/nodego-run/nodego/internal/rtlog"
)

type CLI struct {
	Script    string `arg:"" help:"Path to the JavaScript file to run."`
	AdminAddr string `help:"Address for the /metrics and /debug/stats surface (e.g. 127.0.0.1:9100). Disabled when empty." name:"admin-addr"`
	LogLevel  string `help:"Minimum log level: debug, info, warn, error." default:"info" name:"log-level"`
}

func (c *CLI) Run() error {
	source, err := os.ReadFile(c.Script)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	log := rtlog.New(c.LogLevel)

	rt := nodego.New(
		nodego.WithLogger(log),
		nodego.WithAdminAddr(c.AdminAddr),
	)

	os.Exit(rt.Run(c.Script, string(source)))
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("nodego"),
		kong.Description("Run a JavaScript file on the embedded nodego runtime."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
