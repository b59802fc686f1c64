//go:build !windows

package executor

import "syscall"

// detachAttrs puts the child in a new session so it survives the launcher
// and its terminal.
func detachAttrs() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
