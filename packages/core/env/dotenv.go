package env

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadDotEnv parses a .env file into key-value pairs. It accepts KEY=value,
// quoted values, an optional "export " prefix and # comments. Nothing is
// exported to the process environment.
func LoadDotEnv(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open env file: %w", err)
	}
	defer file.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := splitAssignment(strings.TrimPrefix(line, "export "))
		if !ok {
			continue
		}
		result[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}

	return result, nil
}

// ParseVars parses NAME=value assignments given on the command line.
func ParseVars(assignments []string) (map[string]string, error) {
	result := make(map[string]string, len(assignments))
	for _, a := range assignments {
		key, value, ok := splitAssignment(a)
		if !ok {
			return nil, fmt.Errorf("invalid variable %q (expected NAME=value)", a)
		}
		result[key] = value
	}
	return result, nil
}

// MergeVariables combines sources left to right; later sources win.
func MergeVariables(sources ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

func splitAssignment(s string) (string, string, bool) {
	key, value, found := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}
