package handler

import (
	"fmt"
	"strconv"
	"strings"
)

// Float reads a numeric field; a missing key yields def.
func (m Module) Float(key string, def float64) (float64, error) {
	s, ok := m.Values[key]
	if !ok || strings.TrimSpace(s) == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def, fmt.Errorf("%s.%s=%q: %w", m.Name, key, s, ErrBadParameter)
	}
	return v, nil
}

// Bool reads a flag field; a missing key yields def.
func (m Module) Bool(key string, def bool) (bool, error) {
	s, ok := m.Values[key]
	if !ok || strings.TrimSpace(s) == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return def, fmt.Errorf("%s.%s=%q: %w", m.Name, key, s, ErrBadParameter)
	}
	return v, nil
}

// Int reads an integer field; a missing key yields def.
func (m Module) Int(key string, def int) (int, error) {
	s, ok := m.Values[key]
	if !ok || strings.TrimSpace(s) == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def, fmt.Errorf("%s.%s=%q: %w", m.Name, key, s, ErrBadParameter)
	}
	return v, nil
}

func (m Module) Text(key, def string) string {
	if s, ok := m.Values[key]; ok && s != "" {
		return s
	}
	return def
}
