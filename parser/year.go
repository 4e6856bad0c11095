package parser

import (
	"fmt"

	"github.com/spf13/afero"
)

// ResolveYear implements the year-resolution policy: an explicit year
// always wins; "auto" derives the year from the input file's modification
// time, the best available proxy absent an in-band year in the syslog
// grammar.
func ResolveYear(fs afero.Fs, path string, yearFlag string) (int, error) {
	if yearFlag == "" || yearFlag == "auto" {
		info, err := fs.Stat(path)
		if err != nil {
			return 0, fmt.Errorf("parser: resolving year from %s mtime: %w", path, err)
		}
		return info.ModTime().Year(), nil
	}

	var year int
	if _, err := fmt.Sscanf(yearFlag, "%d", &year); err != nil {
		return 0, fmt.Errorf("parser: invalid --year value %q: %w", yearFlag, err)
	}
	return year, nil
}
