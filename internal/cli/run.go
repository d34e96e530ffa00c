package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/questbar/internal/config"
	"github.com/calvinalkan/questbar/internal/fs"
)

// defaultCommand runs when no command is given.
const defaultCommand = "tray"

// Run is the main entry point. Returns exit code.
// sigCh may be nil; a received signal cancels the command's context.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("questbar", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(io.Discard)

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	dataDir := globals.String("data-dir", "", "Store quests in `dir`")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) == 0 {
		args = []string{"questbar"}
	}

	err := globals.Parse(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, globals, nil)

		return 1
	}

	if globals.Changed("data-dir") && strings.TrimSpace(*dataDir) == "" {
		fprintln(errOut, "error:", config.ErrDataDirEmpty)
		fprintln(errOut)
		printUsage(errOut, globals, nil)

		return 1
	}

	rest := globals.Args()

	if *help || (len(rest) > 0 && (rest[0] == "help")) {
		printUsage(out, globals, allCommands(nil))

		return 0
	}

	if *workDir == "" {
		*workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return 1
		}
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDir:         *workDir,
		ConfigPath:      *configPath,
		DataDirOverride: *dataDir,
		Env:             env,
		GOOS:            runtime.GOOS,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	logger, err := newLogger(errOut, cfg.LogLevel)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	a := &app{cfg: cfg, fs: fs.NewReal(), logger: logger}

	name := defaultCommand
	cmdArgs := []string(nil)

	if len(rest) > 0 {
		name, cmdArgs = rest[0], rest[1:]
	}

	commands := allCommands(a)

	cmd, ok := findCommand(commands, name)
	if !ok {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCommand, name))
		fprintln(errOut)
		printUsage(errOut, globals, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(in, out, errOut), cmdArgs)
}

// allCommands lists every command in help order. a may be nil when the
// commands are only needed for help output.
func allCommands(a *app) []*Command {
	return []*Command{
		TrayCmd(a),
		AddCmd(a),
		LsCmd(a),
		MenuCmd(a),
		StartCmd(a),
		StopCmd(a),
		DoneCmd(a),
		ToggleCmd(a),
		StatusCmd(a),
		OpenCmd(a),
		PathCmd(a),
		PrintConfigCmd(a),
	}
}

func findCommand(commands []*Command, name string) (*Command, bool) {
	for _, c := range commands {
		if c.Name() == name {
			return c, true
		}
	}

	return nil, false
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Join(config.ErrInvalidLogLevel, err)
	}

	return log.NewWithOptions(w, log.Options{Level: lvl, Prefix: "questbar"}), nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet, commands []*Command) {
	fprintln(w, `questbar - a tiny quest tracker for your menu bar

Usage: questbar [global flags] [command] [args]

Without a command the interactive tray is started.`)
	fprintln(w)
	fprintln(w, "Global flags:")

	var buf strings.Builder
	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(io.Discard)
	_, _ = io.WriteString(w, buf.String())

	if len(commands) == 0 {
		return
	}

	fprintln(w)
	fprintln(w, "Commands:")

	for _, c := range commands {
		fprintln(w, c.HelpLine())
	}
}
