//go:build !linux

package main

import (
	"os"
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	// The gui host needs the main thread for its own event loop.
	if len(os.Args) > 1 && os.Args[1] == "gui" {
		execute()
		return
	}
	mainthread.Init(execute)
}
