package host

import (
	"fmt"

	"github.com/VoxDroid/launchr/contract"
)

// Pending is a follow-up task tagged with the instance that returned it.
type Pending struct {
	Index int
	Task  contract.Task
}

// Completion is the result of a task, delivered back to its instance.
type Completion struct {
	Index int
	Msg   contract.Msg
}

// TaskFailure is delivered in place of a message when a task panics. It is
// recorded by the host and never reaches the plugin.
type TaskFailure struct {
	Err error
}

// Run executes the task and tags its result. It is safe to call from any
// goroutine. A panic inside the task becomes a TaskFailure; a borrow
// violation is re-raised.
func (p Pending) Run() (c Completion) {
	c.Index = p.Index
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if be, ok := v.(*contract.BorrowError); ok {
			panic(be)
		}
		c.Msg = TaskFailure{Err: fmt.Errorf("task panicked: %v", v)}
	}()
	if p.Task == nil {
		return c
	}
	c.Msg = p.Task()
	return c
}
