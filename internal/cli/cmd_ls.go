package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/questbar/internal/menu"
	"github.com/calvinalkan/questbar/internal/quest"
)

// LsCmd returns the ls command.
func LsCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("ls", flag.ContinueOnError),
		Usage: "ls",
		Short: "List quests",
		Long: `List all quests in file order with their index.
The active quest is marked with *, vanquished quests with [x].`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execLs(io, a)
		},
	}
}

func execLs(io *IO, a *app) error {
	st := a.openStore(quest.Options{}).State()

	if len(st.Quests) == 0 {
		io.ErrPrintln("no quests")

		return nil
	}

	activeIdx := -1
	if st.HasActive() {
		if idx, ok := st.FindOpen(st.ActiveQuest); ok {
			activeIdx = idx
		}
	}

	for i, q := range st.Quests {
		marker := " "
		if i == activeIdx {
			marker = "*"
		}

		done := " "
		if q.Done {
			done = "x"
		}

		io.Printf("%s %d [%s] %s\n", marker, i, done, q.Title)
	}

	return nil
}

// MenuCmd returns the menu command.
func MenuCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("menu", flag.ContinueOnError),
		Usage: "menu",
		Short: "Print the tray menu",
		Long:  "Print the menu the tray would show for the current quest file.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			io.Printf("%s", menu.Format(menu.Project(a.openStore(quest.Options{}).State())))

			return nil
		},
	}
}
