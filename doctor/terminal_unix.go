//go:build !windows

package doctor

import "os/exec"

// resetTerminal restores cooked mode after a hotkey grab or an interrupted
// TUI session.
func resetTerminal() {
	exec.Command("stty", "sane").Run()
}
