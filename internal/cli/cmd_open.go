package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/questbar/internal/tray"
)

// OpenCmd returns the open command.
func OpenCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("open", flag.ContinueOnError),
		Usage: "open",
		Short: "Open the quest file",
		Long:  "Open the quest file with the configured open_command.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			path := a.cfg.QuestFile()

			exists, err := a.fs.Exists(path)
			if err != nil {
				return err
			}

			if !exists {
				io.Warn("quest file does not exist yet", "add a quest first")

				return nil
			}

			return tray.ExecOpener(a.cfg.OpenCommand)(path)
		},
	}
}

// PathCmd returns the path command.
func PathCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("path", flag.ContinueOnError),
		Usage: "path",
		Short: "Print the quest file path",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			io.Println(a.cfg.QuestFile())

			return nil
		},
	}
}
