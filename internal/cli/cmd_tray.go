package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/questbar/internal/clock"
	"github.com/calvinalkan/questbar/internal/fs"
	"github.com/calvinalkan/questbar/internal/quest"
	"github.com/calvinalkan/questbar/internal/tray"
)

// TrayCmd returns the tray command.
func TrayCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("tray", flag.ContinueOnError),
		Usage: "tray",
		Short: "Run the interactive tray (default)",
		Long: `Run the interactive tray in the terminal. Only one tray may run per
data directory. Diagnostics go to questbar.log in the data directory.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execTray(ctx, io, a)
		},
	}
}

func execTray(ctx context.Context, o *IO, a *app) (err error) {
	lock, err := acquireTrayLock(a)
	if err != nil {
		return err
	}

	defer func() { err = errors.Join(err, lock.Close()) }()

	logFile, err := os.OpenFile(a.cfg.LogFile(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	defer func() { err = errors.Join(err, logFile.Close()) }()

	logger := log.NewWithOptions(logFile, log.Options{
		Level:           a.logger.GetLevel(),
		Prefix:          "tray",
		ReportTimestamp: true,
	})

	notifier := &tray.Notifier{}
	store := a.openStore(quest.Options{Logger: logger, OnChange: notifier.OnChange})

	fitter, closeFitter, err := a.fitter()
	if err != nil {
		return err
	}
	defer closeFitter()

	model := tray.New(tray.Options{
		Store:     store,
		Fitter:    fitter,
		Display:   a.cfg.Display(),
		QuestFile: a.cfg.QuestFile(),
		Opener:    tray.ExecOpener(a.cfg.OpenCommand),
		Repaint:   notifier.Repaint,
		Logger:    logger,
		Clock:     clock.Real{},
	})

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(o.In()),
		tea.WithOutput(o.Out()),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	notifier.Attach(p)

	logger.Info("tray started", "quest_file", a.cfg.QuestFile())
	defer logger.Info("tray stopped")

	err = tray.Run(p)
	model.Shutdown()

	return err
}

// acquireTrayLock takes the single-instance lock of the data directory.
func acquireTrayLock(a *app) (*fs.Lock, error) {
	lock, err := fs.NewLocker().TryLock(a.cfg.LockFile())
	if errors.Is(err, fs.ErrWouldBlock) {
		return nil, fmt.Errorf("%w (lock %s)", tray.ErrAlreadyRunning, a.cfg.LockFile())
	}

	if err != nil {
		return nil, fmt.Errorf("acquiring tray lock: %w", err)
	}

	return lock, nil
}
