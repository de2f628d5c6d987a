package config

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// loadDotEnv copies KEY=VALUE pairs from a dotenv file into the process
// environment and returns how many keys it set. A missing file is not an error.
//
// Blank lines, # comments and an "export " prefix are accepted. Quoted values keep
// their content verbatim; unquoted values drop a trailing " # comment". Variables
// already present in the environment, even empty ones, win over the file.
func loadDotEnv(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	loaded := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		v = dotEnvValue(strings.TrimSpace(v))
		if _, present := os.LookupEnv(k); present {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return loaded, err
		}
		loaded++
	}
	if err := sc.Err(); err != nil {
		return loaded, err
	}
	return loaded, nil
}

func dotEnvValue(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	if i := strings.Index(v, " #"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return v
}
