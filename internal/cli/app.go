package cli

import (
	"github.com/charmbracelet/log"

	"github.com/calvinalkan/questbar/internal/config"
	"github.com/calvinalkan/questbar/internal/fs"
	"github.com/calvinalkan/questbar/internal/quest"
	"github.com/calvinalkan/questbar/internal/storage"
	"github.com/calvinalkan/questbar/internal/textfit"
)

// app carries what commands share once global flags and config are
// resolved.
type app struct {
	cfg    config.Config
	fs     fs.FS
	logger *log.Logger
}

func (a *app) questFile() *storage.File {
	return storage.NewFile(a.fs, a.cfg.QuestFile())
}

// openStore loads the quest file. A malformed file is logged and treated
// as empty, exactly like the tray does.
func (a *app) openStore(opts quest.Options) *quest.Store {
	if opts.Logger == nil {
		opts.Logger = a.logger
	}

	return quest.Open(a.questFile(), opts)
}

// fitter returns the configured label fitter measuring with the reference
// face. The caller must call the returned close func.
func (a *app) fitter() (textfit.Fitter, func(), error) {
	m, err := textfit.NewReferenceMeasurer()
	if err != nil {
		return textfit.Fitter{}, nil, err
	}

	return a.cfg.Fitter(m), func() { _ = m.Close() }, nil
}
