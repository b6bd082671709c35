package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/hirosato/ledger-balance/backend/internal/api/render"
	"github.com/hirosato/ledger-balance/backend/internal/domain/balance"
	"github.com/hirosato/ledger-balance/backend/internal/domain/errors"
)

// ReportCmd prints a balance report. Every bound is always supplied; an empty or
// invalid bound is taken from the ledger.
type ReportCmd struct {
	StartAccount string `help:"First account of the range. Empty means the lowest account." placeholder:"ACCOUNT"`
	EndAccount   string `help:"Last account of the range. Empty means the highest account." placeholder:"ACCOUNT"`
	StartPeriod  string `help:"First date of the range (YYYY-MM-DD). Empty means the earliest entry." placeholder:"DATE"`
	EndPeriod    string `help:"Last date of the range (YYYY-MM-DD). Empty means the latest entry." placeholder:"DATE"`
	Format       string `help:"Output format: CSV or HTML." default:"CSV" short:"f"`
}

// Selection builds the report selection from the flags
func (cmd *ReportCmd) Selection() (balance.Selection, error) {
	sel, ok := balance.ParseSelection(&cmd.StartAccount, &cmd.EndAccount, &cmd.StartPeriod, &cmd.EndPeriod, cmd.Format)
	if !ok || sel.Format == balance.FormatNone {
		return balance.Selection{}, errors.NewUnsupportedFormatError(cmd.Format)
	}
	return sel, nil
}

func (cmd *ReportCmd) Run(ctx *kong.Context, globals *Globals) error {
	sel, err := cmd.Selection()
	if err != nil {
		return err
	}

	runCtx := context.Background()
	s, err := globals.open(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.services.Reports.Generate(runCtx, s.bookID, sel)
	if err != nil {
		return err
	}
	return render.Document(ctx.Stdout, result.Selection, result.Report)
}
