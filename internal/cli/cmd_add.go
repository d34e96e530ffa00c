package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/questbar/internal/quest"
)

const addPrompt = "New quest: "

// AddCmd returns the add command.
func AddCmd(a *app) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("add", flag.ContinueOnError),
		Usage:   "add [title...]",
		MaxArgs: AnyArgs,
		Short:   "Add a new quest",
		Long: `Add a new quest. The arguments are joined into the title.
Without arguments the title is read interactively.`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execAdd(io, a, args)
		},
	}
}

func execAdd(io *IO, a *app, args []string) error {
	title := strings.Join(args, " ")

	if len(args) == 0 {
		var err error

		title, err = readTitle(io)
		if err != nil {
			return err
		}
	}

	// Like the tray prompt, a blank title is ignored rather than an error.
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	store := a.openStore(quest.Options{})

	if !store.AddQuest(title) {
		return fmt.Errorf("%w: %s", ErrDuplicateQuest, title)
	}

	io.Println("Added", title)

	return nil
}

// readTitle reads one line. On a terminal stdin liner provides line
// editing; any other reader is read plainly. An aborted prompt or empty
// input yields "".
func readTitle(o *IO) (string, error) {
	if f, ok := o.In().(*os.File); ok && f == os.Stdin {
		line := liner.NewLiner()
		defer line.Close()

		line.SetCtrlCAborts(true)

		title, err := line.Prompt(addPrompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", nil
		}

		if err != nil {
			return "", fmt.Errorf("reading title: %w", err)
		}

		return title, nil
	}

	if o.In() == nil {
		return "", nil
	}

	scanner := bufio.NewScanner(o.In())
	if scanner.Scan() {
		return scanner.Text(), nil
	}

	err := scanner.Err()
	if err != nil {
		return "", fmt.Errorf("reading title: %w", err)
	}

	return "", nil
}
