// Package units provides a small physical-quantity value type: a float64
// payload tagged with a unit symbol. Quantities are converted to the
// simulator's base unit system (g, cm, hr, K) at configuration boundaries, so
// the model formulas only ever see dimensionally consistent plain numbers.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownUnit is returned when a unit symbol is not in the registry.
	ErrUnknownUnit = errors.New("units: unknown unit")
	// ErrDimensionMismatch is returned when converting between incompatible units.
	ErrDimensionMismatch = errors.New("units: dimension mismatch")
)

// Dimension names the physical dimension of a unit.
type Dimension string

const (
	Dimensionless   Dimension = "dimensionless"
	Time            Dimension = "time"
	Mass            Dimension = "mass"
	Length          Dimension = "length"
	Temperature     Dimension = "temperature"
	ConditionFactor Dimension = "mass/length^3"
	ThermalUnit     Dimension = "temperature*time/length"
	MassFlow        Dimension = "mass/time"
)

// Unit describes how a symbol maps onto the base unit of its dimension:
// base = value*Factor/Per + Offset. Sub-multiples use Per so that values
// such as "15 min" convert exactly.
type Unit struct {
	Symbol string
	Dim    Dimension
	Factor float64
	Per    float64
	Offset float64
}

func unit(symbol string, dim Dimension, factor, per, offset float64) Unit {
	return Unit{Symbol: symbol, Dim: dim, Factor: factor, Per: per, Offset: offset}
}

// registry of supported symbols. Base units: hr, g, cm, K.
var registry = map[string]Unit{
	"":  unit("", Dimensionless, 1, 1, 0),
	"1": unit("1", Dimensionless, 1, 1, 0),
	"%": unit("%", Dimensionless, 1, 100, 0),

	"s":   unit("s", Time, 1, 3600, 0),
	"min": unit("min", Time, 1, 60, 0),
	"hr":  unit("hr", Time, 1, 1, 0),
	"h":   unit("h", Time, 1, 1, 0),
	"day": unit("day", Time, 24, 1, 0),

	"mg": unit("mg", Mass, 1, 1000, 0),
	"g":  unit("g", Mass, 1, 1, 0),
	"kg": unit("kg", Mass, 1000, 1, 0),

	"mm": unit("mm", Length, 1, 10, 0),
	"cm": unit("cm", Length, 1, 1, 0),
	"m":  unit("m", Length, 100, 1, 0),

	"K":    unit("K", Temperature, 1, 1, 0),
	"degC": unit("degC", Temperature, 1, 1, 273.15),

	"g/cm**3":  unit("g/cm**3", ConditionFactor, 1, 1, 0),
	"kg/m**3":  unit("kg/m**3", ConditionFactor, 1, 1000, 0),
	"K*hr/cm":  unit("K*hr/cm", ThermalUnit, 1, 1, 0),
	"K*day/cm": unit("K*day/cm", ThermalUnit, 24, 1, 0),

	"g/hr":   unit("g/hr", MassFlow, 1, 1, 0),
	"g/s":    unit("g/s", MassFlow, 3600, 1, 0),
	"g/day":  unit("g/day", MassFlow, 1, 24, 0),
	"kg/hr":  unit("kg/hr", MassFlow, 1000, 1, 0),
	"kg/day": unit("kg/day", MassFlow, 1000, 24, 0),
}

// Lookup returns the registered unit for symbol.
func Lookup(symbol string) (Unit, error) {
	u, ok := registry[symbol]
	if !ok {
		return Unit{}, fmt.Errorf("%w %q", ErrUnknownUnit, symbol)
	}
	return u, nil
}

// BaseSymbol returns the base unit symbol of a dimension.
func BaseSymbol(dim Dimension) string {
	switch dim {
	case Time:
		return "hr"
	case Mass:
		return "g"
	case Length:
		return "cm"
	case Temperature:
		return "K"
	case ConditionFactor:
		return "g/cm**3"
	case ThermalUnit:
		return "K*hr/cm"
	case MassFlow:
		return "g/hr"
	}
	return ""
}

// Quantity is a numeric value tagged with a unit symbol.
type Quantity struct {
	Value float64
	Unit  string
}

// Q builds a Quantity. The unit is not validated until it is converted.
func Q(value float64, unit string) Quantity {
	return Quantity{Value: value, Unit: unit}
}

// Parse reads a quantity written as "<number> [unit]", e.g. "15 min",
// "2.08 g/cm**3" or "0.02".
func Parse(s string) (Quantity, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Quantity{}, fmt.Errorf("units: cannot parse quantity %q", s)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("units: cannot parse quantity %q: %w", s, err)
	}
	q := Quantity{Value: v}
	if len(fields) == 2 {
		q.Unit = fields[1]
	}
	if _, err := Lookup(q.Unit); err != nil {
		return Quantity{}, err
	}
	return q, nil
}

// MustParse is like Parse but panics on error. Intended for literals in tests
// and defaults.
func MustParse(s string) Quantity {
	q, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return q
}

// Dim returns the dimension of the quantity's unit.
func (q Quantity) Dim() (Dimension, error) {
	u, err := Lookup(q.Unit)
	if err != nil {
		return "", err
	}
	return u.Dim, nil
}

// To converts q to the given unit symbol.
func (q Quantity) To(symbol string) (Quantity, error) {
	from, err := Lookup(q.Unit)
	if err != nil {
		return Quantity{}, err
	}
	to, err := Lookup(symbol)
	if err != nil {
		return Quantity{}, err
	}
	if from.Dim != to.Dim {
		return Quantity{}, fmt.Errorf("%w: cannot convert %s (%s) to %s (%s)",
			ErrDimensionMismatch, q.Unit, from.Dim, symbol, to.Dim)
	}
	base := q.Value*from.Factor/from.Per + from.Offset
	return Quantity{Value: (base - to.Offset) * to.Per / to.Factor, Unit: to.Symbol}, nil
}

// BaseValue returns q in the base unit of dim, failing when q has a
// different dimension or a non-finite value.
func (q Quantity) BaseValue(dim Dimension) (float64, error) {
	if math.IsNaN(q.Value) || math.IsInf(q.Value, 0) {
		return 0, fmt.Errorf("units: quantity %v is not finite", q)
	}
	b, err := q.To(BaseSymbol(dim))
	if err != nil {
		return 0, err
	}
	return b.Value, nil
}

// IsZero reports whether q is the zero Quantity, i.e. was never set.
func (q Quantity) IsZero() bool {
	return q == Quantity{}
}

func (q Quantity) String() string {
	v := strconv.FormatFloat(q.Value, 'g', -1, 64)
	if q.Unit == "" {
		return v
	}
	return v + " " + q.Unit
}

// UnmarshalYAML accepts either a bare number or a "<number> <unit>" string.
func (q *Quantity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("units: line %d: quantity must be a scalar", node.Line)
	}
	parsed, err := Parse(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*q = parsed
	return nil
}

// MarshalYAML writes the quantity in the same form Parse reads.
func (q Quantity) MarshalYAML() (interface{}, error) {
	return q.String(), nil
}

// conditionFactorUnits splits each condition factor symbol into its mass and
// length units.
var conditionFactorUnits = map[string]struct{ mass, length string }{
	"g/cm**3": {"g", "cm"},
	"kg/m**3": {"kg", "m"},
}

// ConditionFactorBase returns a condition factor in g/cm**n, where n is the
// length exponent of the allometric relation. The symbols are written with
// the usual exponent of 3; the length unit is raised to n when converting.
func (q Quantity) ConditionFactorBase(exponent float64) (float64, error) {
	if _, err := q.BaseValue(ConditionFactor); err != nil {
		return 0, err
	}
	parts := conditionFactorUnits[q.Unit]
	mass, err := Q(1, parts.mass).To("g")
	if err != nil {
		return 0, err
	}
	length, err := Q(1, parts.length).To("cm")
	if err != nil {
		return 0, err
	}
	return q.Value * mass.Value / math.Pow(length.Value, exponent), nil
}
