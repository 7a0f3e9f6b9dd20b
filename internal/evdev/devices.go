package evdev

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDevicesEnv parses the DEVICES environment variable's
// "class:path[,class:path...]" format into Add-ready arguments, where
// class is a small integer (decimal, or "0x"-prefixed hex) matching
// one of the Class constants, e.g.
// "2:/dev/input/event0,16:/dev/input/event1".
func ParseDevicesEnv(value string) ([]struct {
	Path  string
	Class Class
}, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	var out []struct {
		Path  string
		Class Class
	}
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		class, path, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("evdev: malformed DEVICES entry %q, want class:path", entry)
		}
		c, err := parseClass(class)
		if err != nil {
			return nil, err
		}
		out = append(out, struct {
			Path  string
			Class Class
		}{Path: path, Class: c})
	}
	return out, nil
}

func parseClass(s string) (Class, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("evdev: device class %q is not an integer: %w", s, err)
	}
	switch Class(n) {
	case ClassMouse, ClassKeyboard, ClassTouchscreen:
		return Class(n), nil
	default:
		return 0, fmt.Errorf("evdev: unknown device class %d", n)
	}
}
