// Package contract defines the entry points a launcher plugin must export and
// the types that cross the boundary between the host and a plugin.
//
// A plugin is a Go package built with -buildmode=plugin (or linked statically
// as a built-in) that exports eight package-level functions named by the
// Symbol* constants, each with exactly the signature given by the matching
// *Func alias:
//
//	func Model(cfg contract.Config) (any, contract.Task)
//	func Update(filter string, m *contract.Mut, msg contract.Msg) contract.Task
//	func Sort(filter string, m *contract.Mut) contract.Task
//	func Launch(index int, m *contract.Mut) contract.Task
//	func View(m *contract.Ref) ([]contract.Scored, error)
//	func Errors(m *contract.Ref) []string
//	func Name() string
//	func Count(m *contract.Ref) int
//
// The value returned by Model is the plugin's private state. The host keeps it
// in a Cell and only ever hands it back to the same plugin, wrapped in a
// borrow that is valid for the duration of one call.
package contract

// Msg is a message produced by a plugin task. The host does not inspect it and
// delivers it to the Update function of the plugin that produced it.
type Msg = any

// Task is follow-up work returned by a contract call. The host runs it outside
// of the control loop and feeds the result back through Update. Tasks must not
// capture a Mut or Ref; copy what they need before returning.
// A nil Task means there is nothing to do.
type Task = func() Msg

// Renderable is an opaque UI fragment. The host orders and highlights
// renderables but never looks inside them.
type Renderable interface {
	Render(width int, focused bool) string
}

// Text is the simplest Renderable: a single line drawn as-is.
type Text string

// Render implements Renderable.
func (t Text) Render(_ int, focused bool) string {
	if focused {
		return "> " + string(t)
	}
	return "  " + string(t)
}

// Scored is one entry of a plugin's ranked view.
type Scored struct {
	Score int64
	Item  Renderable
}

// Symbol names every plugin must export.
const (
	SymbolModel  = "Model"
	SymbolUpdate = "Update"
	SymbolSort   = "Sort"
	SymbolLaunch = "Launch"
	SymbolView   = "View"
	SymbolErrors = "Errors"
	SymbolName   = "Name"
	SymbolCount  = "Count"
)

// Symbols lists the contract entry points in a fixed order.
var Symbols = []string{
	SymbolModel, SymbolUpdate, SymbolSort, SymbolLaunch,
	SymbolView, SymbolErrors, SymbolName, SymbolCount,
}

// Function shapes of the entry points. These are aliases so that a plain
// exported func in a plugin satisfies the type assertion done by the loader.
type (
	ModelFunc  = func(cfg Config) (any, Task)
	UpdateFunc = func(filter string, m *Mut, msg Msg) Task
	SortFunc   = func(filter string, m *Mut) Task
	LaunchFunc = func(index int, m *Mut) Task
	ViewFunc   = func(m *Ref) ([]Scored, error)
	ErrorsFunc = func(m *Ref) []string
	NameFunc   = func() string
	CountFunc  = func(m *Ref) int
)
