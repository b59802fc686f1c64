package contract

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config is the global configuration as seen by plugins. Every top-level key
// of the configuration document is a section; the host does not interpret
// sections it does not know about.
type Config struct {
	sections map[string]yaml.Node
}

// NewConfig builds a Config from decoded top-level sections.
func NewConfig(sections map[string]yaml.Node) Config {
	cp := make(map[string]yaml.Node, len(sections))
	for k, v := range sections {
		cp[k] = v
	}
	return Config{sections: cp}
}

// ParseConfig builds a Config from a YAML document. An empty document yields
// an empty Config.
func ParseConfig(data []byte) (Config, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return NewConfig(doc), nil
}

// Section decodes the named section into out. It reports whether the section
// exists; out is left untouched when it does not.
func (c Config) Section(name string, out any) (bool, error) {
	node, ok := c.sections[name]
	if !ok {
		return false, nil
	}
	if err := node.Decode(out); err != nil {
		return true, fmt.Errorf("section %q: %w", name, err)
	}
	return true, nil
}

// Has reports whether the named section exists.
func (c Config) Has(name string) bool {
	_, ok := c.sections[name]
	return ok
}

// Names returns the section names in sorted order.
func (c Config) Names() []string {
	out := make([]string, 0, len(c.sections))
	for k := range c.sections {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
