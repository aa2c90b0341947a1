package output

import (
	"fmt"
	"os"

	"github.com/nuhgnoej/rofle/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes the result in the requested format to a timestamped
// file in dir and returns the file names. "all" writes every registered format.
func GenerateReport(result *domain.ProjectionResult, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, f := range builtInFormatters {
			name, err := WriteFormatted(f, result, dir)
			if err != nil {
				return files, fmt.Errorf("writing %s report: %w", f.Name(), err)
			}
			files = append(files, name)
		}
		return files, nil
	}

	f, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	name, err := WriteFormatted(f, result, dir)
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

// SaveProfile writes a profile as YAML, readable by config.InputParser.
func SaveProfile(profile *domain.Profile, filename string) error {
	b, err := yaml.Marshal(profile)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o644)
}
