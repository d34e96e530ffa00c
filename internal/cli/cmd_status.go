package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/questbar/internal/quest"
)

// StatusCmd returns the status command.
func StatusCmd(a *app) *Command {
	flags := flag.NewFlagSet("status", flag.ContinueOnError)
	full := flags.Bool("full", false, "Also print the full title (the tray tooltip)")

	return &Command{
		Flags: flags,
		Usage: "status [--full]",
		Short: "Print the status label",
		Long: `Print the active quest as the tray label shows it, shortened with an
ellipsis to fit the configured width. Prints nothing when no quest is active.`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execStatus(io, a, *full)
		},
	}
}

func execStatus(io *IO, a *app, full bool) error {
	st := a.openStore(quest.Options{}).State()
	if !st.HasActive() {
		return nil
	}

	fitter, closeFitter, err := a.fitter()
	if err != nil {
		return err
	}
	defer closeFitter()

	io.Println(fitter.Fit(st.ActiveQuest, a.cfg.Display()))

	if full {
		io.Println(st.ActiveQuest)
	}

	return nil
}
