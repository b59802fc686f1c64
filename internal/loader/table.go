package loader

import (
	"errors"
	"fmt"
	"plugin"

	"github.com/VoxDroid/launchr/contract"
)

// Symbols resolves exported names of a plugin module. *plugin.Plugin
// satisfies it, as does SymbolTable for statically linked plugins.
type Symbols interface {
	Lookup(name string) (plugin.Symbol, error)
}

// SymbolTable is an in-process Symbols implementation used for built-in
// plugins and tests.
type SymbolTable map[string]plugin.Symbol

// Lookup implements Symbols.
func (t SymbolTable) Lookup(name string) (plugin.Symbol, error) {
	s, ok := t[name]
	if !ok {
		return nil, fmt.Errorf("symbol %s not found", name)
	}
	return s, nil
}

// Table is the bound set of contract entry points of one plugin.
type Table struct {
	Model  contract.ModelFunc
	Update contract.UpdateFunc
	Sort   contract.SortFunc
	Launch contract.LaunchFunc
	View   contract.ViewFunc
	Errors contract.ErrorsFunc
	Name   contract.NameFunc
	Count  contract.CountFunc
}

// Bind resolves all eight contract entry points. Either every entry point
// resolves with the exact expected signature and a complete Table is
// returned, or an error describing every problem is returned and the Table is
// zero.
func Bind(syms Symbols) (Table, error) {
	var (
		t    Table
		errs []error
	)
	bind := func(name string, assign func(plugin.Symbol) bool) {
		sym, err := syms.Lookup(name)
		if err != nil || sym == nil {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingSymbol, name))
			return
		}
		if !assign(sym) {
			errs = append(errs, fmt.Errorf("%w: %s is %T", ErrSignature, name, sym))
		}
	}

	bind(contract.SymbolModel, func(s plugin.Symbol) (ok bool) { t.Model, ok = s.(contract.ModelFunc); return })
	bind(contract.SymbolUpdate, func(s plugin.Symbol) (ok bool) { t.Update, ok = s.(contract.UpdateFunc); return })
	bind(contract.SymbolSort, func(s plugin.Symbol) (ok bool) { t.Sort, ok = s.(contract.SortFunc); return })
	bind(contract.SymbolLaunch, func(s plugin.Symbol) (ok bool) { t.Launch, ok = s.(contract.LaunchFunc); return })
	bind(contract.SymbolView, func(s plugin.Symbol) (ok bool) { t.View, ok = s.(contract.ViewFunc); return })
	bind(contract.SymbolErrors, func(s plugin.Symbol) (ok bool) { t.Errors, ok = s.(contract.ErrorsFunc); return })
	bind(contract.SymbolName, func(s plugin.Symbol) (ok bool) { t.Name, ok = s.(contract.NameFunc); return })
	bind(contract.SymbolCount, func(s plugin.Symbol) (ok bool) { t.Count, ok = s.(contract.CountFunc); return })

	if len(errs) > 0 {
		return Table{}, errors.Join(errs...)
	}
	return t, nil
}

// Complete reports whether every entry point is bound.
func (t Table) Complete() bool {
	return t.Model != nil && t.Update != nil && t.Sort != nil && t.Launch != nil &&
		t.View != nil && t.Errors != nil && t.Name != nil && t.Count != nil
}
