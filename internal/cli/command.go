package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// AnyArgs disables positional argument counting for a [Command].
const AnyArgs = -1

// Command is one questbar subcommand.
type Command struct {
	// Flags holds command-specific flags. Only the flags matter; the set's
	// name is ignored.
	Flags *flag.FlagSet

	// Usage follows "questbar" in help output. Its first word is the
	// command name, e.g. "start <index|title>" or "status [--full]".
	Usage string

	// Short is the one-line summary listed in global help.
	Short string

	// Long is shown by "questbar <cmd> --help". Falls back to Short.
	Long string

	// MaxArgs caps positional arguments after flag parsing. Zero means
	// none are accepted; use [AnyArgs] to skip the check.
	MaxArgs int

	// Exec runs the command after flags and arguments are checked.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine returns the entry for the global command listing.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-22s %s", c.Usage, c.Short)
}

// PrintHelp prints "questbar <cmd> --help" output.
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: questbar", c.Usage)
	o.Println()

	if c.Long != "" {
		o.Println(c.Long)
	} else {
		o.Println(c.Short)
	}

	if c.Flags == nil || !c.Flags.HasFlags() {
		return
	}

	var buf strings.Builder

	c.Flags.SetOutput(&buf)
	c.Flags.PrintDefaults()

	o.Println()
	o.Println("Flags:")
	o.Printf("%s", buf.String())
}

// Run parses args, runs the command and returns the exit code. Errors are
// printed here so every command reports them the same way.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	if c.Flags == nil {
		c.Flags = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}

	c.Flags.SetOutput(&strings.Builder{})

	err := c.Flags.Parse(args)

	switch {
	case errors.Is(err, flag.ErrHelp):
		c.PrintHelp(o)

		return 0
	case err != nil:
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.printHelpTo(o)

		return 1
	}

	rest := c.Flags.Args()
	if c.MaxArgs != AnyArgs && len(rest) > c.MaxArgs {
		o.ErrPrintln("error:", fmt.Errorf("%w: %s", ErrTooManyArgs, strings.Join(rest[c.MaxArgs:], " ")))

		return 1
	}

	err = c.Exec(ctx, o, rest)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return o.Finish()
}

// printHelpTo prints help to stderr, keeping stdout empty on failure.
func (c *Command) printHelpTo(o *IO) {
	c.PrintHelp(o.Stderr())
}
