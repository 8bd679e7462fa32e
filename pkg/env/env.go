// Package env reads the few CARPENTER_* settings needed before config.Load
// runs, such as log format and instance id.
package env

import (
	"os"
	"strconv"
	"strings"
)

const prefix = "CARPENTER_"

// Key returns the full variable name for a setting, e.g. Key("LOG_FORMAT").
func Key(name string) string {
	return prefix + strings.ToUpper(name)
}

// Get returns the trimmed value of CARPENTER_<name>, or fallback when it is
// unset or blank.
func Get(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(Key(name))); v != "" {
		return v
	}
	return fallback
}

// Bool parses CARPENTER_<name> with strconv.ParseBool. Unparseable values
// give fallback.
func Bool(name string, fallback bool) bool {
	b, err := strconv.ParseBool(Get(name, ""))
	if err != nil {
		return fallback
	}
	return b
}
