package action

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ParamType is the declared type of an action parameter
type ParamType int

const (
	String ParamType = iota
	Number
	Integer
	Bool
)

func (t ParamType) String() string {
	switch t {
	case String:
		return "string"
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Bool:
		return "bool"
	}
	return "invalid"
}

// Param declares one parameter of an action type
type Param struct {
	Name     string
	Type     ParamType
	Required bool
	Default  any
	Enum     []string // String only, compared case-insensitively
	Min      *float64 // Number/Integer only
	Max      *float64
}

func bound(v float64) *float64 { return &v }

// Params holds validated, normalized parameter values
// Numbers are float64, integers int, enums lower case
type Params map[string]any

// String returns a string parameter or ""
func (p Params) String(name string) string {
	s, _ := p[name].(string)
	return s
}

// Float returns a number parameter or 0
func (p Params) Float(name string) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Int returns an integer parameter or 0
func (p Params) Int(name string) int {
	switch v := p[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns a bool parameter or false
func (p Params) Bool(name string) bool {
	b, _ := p[name].(bool)
	return b
}

// Has reports whether name was supplied or defaulted
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// validate checks raw against the schema and returns normalized values
func validate(typ string, schema []Param, raw map[string]any) (Params, error) {
	known := make(map[string]bool, len(schema))
	out := make(Params, len(schema))

	for _, p := range schema {
		known[p.Name] = true
		v, ok := raw[p.Name]
		if !ok || v == nil {
			if p.Required {
				return nil, fmt.Errorf("%s: %w: %s is required", typ, ErrInvalidParameter, p.Name)
			}
			if p.Default != nil {
				out[p.Name] = p.Default
			}
			continue
		}
		norm, err := coerce(p, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %s %v", typ, ErrInvalidParameter, p.Name, err)
		}
		if s, ok := norm.(string); ok && p.Required && strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%s: %w: %s is empty", typ, ErrInvalidParameter, p.Name)
		}
		out[p.Name] = norm
	}

	var unknown []string
	for name := range raw {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%s: %w: unknown %s", typ, ErrInvalidParameter, strings.Join(unknown, ", "))
	}
	return out, nil
}

func coerce(p Param, v any) (any, error) {
	switch p.Type {
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string, got %T", v)
		}
		if len(p.Enum) > 0 {
			lower := strings.ToLower(strings.TrimSpace(s))
			for _, e := range p.Enum {
				if lower == e {
					return lower, nil
				}
			}
			return nil, fmt.Errorf("must be one of %s, got %q", strings.Join(p.Enum, "|"), s)
		}
		return s, nil

	case Number, Integer:
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("must be a %s, got %v", p.Type, v)
		}
		if p.Type == Integer && f != math.Trunc(f) {
			return nil, fmt.Errorf("must be an integer, got %v", v)
		}
		if p.Min != nil && f < *p.Min {
			return nil, fmt.Errorf("must be >= %v, got %v", *p.Min, f)
		}
		if p.Max != nil && f > *p.Max {
			return nil, fmt.Errorf("must be <= %v, got %v", *p.Max, f)
		}
		if p.Type == Integer {
			return int(f), nil
		}
		return f, nil

	case Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("must be a bool, got %T", v)
		}
		return b, nil
	}
	return nil, fmt.Errorf("undeclared type")
}

// toFloat accepts the numeric shapes JSON and YAML decoders produce
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}
