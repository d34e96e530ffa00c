package tray

import (
	"fmt"
	"os/exec"
	"strings"
)

// ExecOpener returns an opener that runs command with the path appended.
// command may carry leading arguments ("code -r"). The viewer is started
// and not waited for.
func ExecOpener(command string) func(path string) error {
	return func(path string) error {
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return ErrNoOpener
		}

		args := append(fields[1:len(fields):len(fields)], path)

		cmd := exec.Command(fields[0], args...)

		err := cmd.Start()
		if err != nil {
			return fmt.Errorf("starting %s: %w", fields[0], err)
		}

		go func() { _ = cmd.Wait() }()

		return nil
	}
}
