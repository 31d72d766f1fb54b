package hyper

import (
	"fmt"
	"slices"
	"strings"
)

// Axis is one tunable hyperparameter with the values to try, in order.
// The first value is the default used by combinations that do not vary it.
type Axis struct {
	Name   string
	Values []any
}

// CombinationDef names a group of axes that vary together.
type CombinationDef struct {
	Name string
	Axes []string
}

// Params is one concrete assignment of a value to every axis.
type Params map[string]any

// Float returns the named value as float64, or def when missing or not numeric.
func (p Params) Float(name string, def float64) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// Int returns the named value as int, or def when missing or not an integer.
func (p Params) Int(name string, def int) int {
	switch v := p[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return def
}

// String returns the named value as string, or def when missing or not a string.
func (p Params) String(name string, def string) string {
	if v, ok := p[name].(string); ok {
		return v
	}
	return def
}

// Key renders p deterministically, e.g. "a=1 b=soft".
func (p Params) Key() string {
	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	slices.Sort(names)

	var sb strings.Builder
	for i, n := range names {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%v", n, p[n])
	}
	return sb.String()
}

// combination is one expanded entry before its solver is built.
type combination struct {
	def    string
	params Params
}

// expand builds the cartesian product of every def's axes, first axis
// slowest. Axes outside a def take their first value. A combination equal to
// an earlier one is dropped.
func expand(axes []Axis, defs []CombinationDef) ([]combination, error) {
	byName := make(map[string]int, len(axes))
	for i, a := range axes {
		if a.Name == "" {
			return nil, fmt.Errorf("%w: axis %d has no name", ErrBadAxis, i)
		}
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("%w: axis %q has no values", ErrBadAxis, a.Name)
		}
		if _, dup := byName[a.Name]; dup {
			return nil, fmt.Errorf("%w: axis %q declared twice", ErrBadAxis, a.Name)
		}
		byName[a.Name] = i
	}

	if len(defs) == 0 {
		all := CombinationDef{Name: "all", Axes: make([]string, len(axes))}
		for i, a := range axes {
			all.Axes[i] = a.Name
		}
		defs = []CombinationDef{all}
	}

	var out []combination
	seen := make(map[string]bool)
	for _, def := range defs {
		varying := make([]int, len(def.Axes))
		for i, name := range def.Axes {
			idx, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: combination %q names axis %q", ErrBadAxis, def.Name, name)
			}
			varying[i] = idx
		}

		// odometer over the varying axes; the last one turns fastest
		pos := make([]int, len(varying))
		for {
			p := make(Params, len(axes))
			for _, a := range axes {
				p[a.Name] = a.Values[0]
			}
			for i, idx := range varying {
				p[axes[idx].Name] = axes[idx].Values[pos[i]]
			}
			if key := p.Key(); !seen[key] {
				seen[key] = true
				out = append(out, combination{def: def.Name, params: p})
			}

			k := len(pos) - 1
			for ; k >= 0; k-- {
				pos[k]++
				if pos[k] < len(axes[varying[k]].Values) {
					break
				}
				pos[k] = 0
			}
			if k < 0 {
				break
			}
		}
	}

	return out, nil
}
