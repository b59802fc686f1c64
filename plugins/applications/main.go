// Command applications builds the desktop applications plugin as a shared object:
//
//	go build -buildmode=plugin -o applications.so ./plugins/applications
//
// The exported functions forward to the built-in implementation so that the
// file and the statically linked plugin behave the same.
package main

import (
	"github.com/VoxDroid/launchr/contract"
	impl "github.com/VoxDroid/launchr/internal/plugins/applications"
)

func Model(cfg contract.Config) (any, contract.Task) { return impl.Model(cfg) }

func Update(filter string, m *contract.Mut, msg contract.Msg) contract.Task {
	return impl.Update(filter, m, msg)
}

func Sort(filter string, m *contract.Mut) contract.Task { return impl.Sort(filter, m) }

func Launch(index int, m *contract.Mut) contract.Task { return impl.Launch(index, m) }

func View(m *contract.Ref) ([]contract.Scored, error) { return impl.View(m) }

func Errors(m *contract.Ref) []string { return impl.Errors(m) }

func Name() string { return impl.Name() }

func Count(m *contract.Ref) int { return impl.Count(m) }

func main() {}
