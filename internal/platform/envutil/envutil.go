// Package envutil reads typed settings from the process environment. Every
// reader falls back to its default when the variable is blank or malformed.
package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

func String(name, def string) string {
	if v, ok := lookup(name); ok {
		return v
	}
	return def
}

func Int(name string, def int) int {
	if v, ok := lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func Bool(name string, def bool) bool {
	v, _ := lookup(name)
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// Seconds reads a non-negative whole number of seconds.
func Seconds(name string, def time.Duration) time.Duration {
	if n := Int(name, -1); n >= 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

// List splits a comma-separated value, dropping blank items.
func List(name string) []string {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
