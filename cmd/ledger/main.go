package main

import (
	"github.com/alecthomas/kong"

	"github.com/hirosato/ledger-balance/backend/internal/cli"
)

func main() {
	var commands cli.Commands
	ctx := kong.Parse(&commands,
		kong.Name("ledger"),
		kong.Description("Record a double-entry ledger and print balance reports over account and period ranges."),
		kong.UsageOnError(),
		kong.Bind(&commands.Globals),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
