package applications

import (
	"bufio"
	"io"
	"strings"

	"github.com/VoxDroid/launchr/internal/plugins/catalog"
)

const (
	entryHeader   = "[Desktop Entry]"
	actionSection = "[Desktop Action"
)

// fieldCodes are the Exec placeholders of the desktop entry specification.
// The launcher never passes files or URLs, so they are removed.
var fieldCodes = strings.NewReplacer(
	"%f", "", "%F", "", "%u", "", "%U", "",
	"%d", "", "%D", "", "%n", "", "%N", "",
	"%i", "", "%c", "", "%k", "", "%v", "", "%m", "",
)

// parseEntry reads a desktop entry. It reports false for files that are not
// desktop entries, are hidden with NoDisplay, or lack Name or Exec. The first
// occurrence of a key wins and parsing stops at the first action section.
// Terminal applications are prefixed with terminal.
func parseEntry(r io.Reader, terminal string) (catalog.Item, bool, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !sc.Scan() {
		return catalog.Item{}, false, sc.Err()
	}
	if strings.TrimSpace(sc.Text()) != entryHeader {
		return catalog.Item{}, false, nil
	}

	keys := make(map[string]string)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, actionSection) {
			break
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if _, seen := keys[k]; !seen {
			keys[k] = strings.TrimSpace(v)
		}
	}
	if err := sc.Err(); err != nil {
		return catalog.Item{}, false, err
	}

	if keys["NoDisplay"] == "true" {
		return catalog.Item{}, false, nil
	}
	name, exec := keys["Name"], keys["Exec"]
	if name == "" || exec == "" {
		return catalog.Item{}, false, nil
	}
	exec = strings.Join(strings.Fields(fieldCodes.Replace(exec)), " ")
	if keys["Terminal"] == "true" && terminal != "" {
		exec = terminal + " " + exec
	}

	var tags []string
	for _, list := range []string{keys["Categories"], keys["Keywords"]} {
		for _, t := range strings.Split(list, ";") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return catalog.Item{
		Name:        name,
		Description: keys["Comment"],
		Tags:        tags,
		Command:     exec,
	}, true, nil
}
