package tickets

import (
	"encoding/json"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// maxExponent bounds exponent notation such as "1e20" so a short literal
// cannot expand into a huge integer.
const maxExponent = 400

type CanonicalPick struct {
	Numbers []*big.Int
	Text    string
}

type Validator struct {
	rules Rules
}

func NewValidator(rules Rules) *Validator {
	return &Validator{rules: rules}
}

// Validate checks the shape of a raw pick and returns it sorted ascending
// together with its comma-joined text form. Values are not range checked
// unless the range rule is enabled. Integers of any size are kept exactly.
func (v *Validator) Validate(raw []any) (CanonicalPick, error) {
	if len(raw) != v.rules.NumbersPerPick {
		return CanonicalPick{}, &ShapeError{Want: v.rules.NumbersPerPick, Got: len(raw)}
	}

	numbers := make([]*big.Int, 0, len(raw))
	for _, value := range raw {
		n, ok := toBigInt(value)
		if !ok {
			return CanonicalPick{}, &NumberError{Value: value}
		}
		if v.rules.EnforceRange && !v.inRange(n) {
			return CanonicalPick{}, &RangeError{Value: n.String(), Min: v.rules.MinNumber, Max: v.rules.MaxNumber}
		}
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i].Cmp(numbers[j]) < 0 })

	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = n.String()
	}

	return CanonicalPick{Numbers: numbers, Text: strings.Join(parts, ",")}, nil
}

func (v *Validator) inRange(n *big.Int) bool {
	return n.Cmp(big.NewInt(int64(v.rules.MinNumber))) >= 0 &&
		n.Cmp(big.NewInt(int64(v.rules.MaxNumber))) <= 0
}

func toBigInt(value any) (*big.Int, bool) {
	switch v := value.(type) {
	case int:
		return big.NewInt(int64(v)), true
	case int8:
		return big.NewInt(int64(v)), true
	case int16:
		return big.NewInt(int64(v)), true
	case int32:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case float32:
		return floatToBigInt(float64(v))
	case float64:
		return floatToBigInt(v)
	case *big.Int:
		if v == nil {
			return nil, false
		}
		return new(big.Int).Set(v), true
	case json.Number:
		return parseInteger(v.String())
	case string:
		return parseInteger(strings.TrimSpace(v))
	default:
		return nil, false
	}
}

func floatToBigInt(f float64) (*big.Int, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return nil, false
	}
	n, _ := big.NewFloat(f).Int(nil)
	return n, true
}

// parseInteger reads decimal text. Besides plain integers it accepts
// decimal and exponent forms ("10.0", "1e2") when they denote a whole number.
func parseInteger(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return n, true
	}

	if strings.ContainsAny(s, "/_bBoOxXpP") {
		return nil, false
	}
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		exp, err := strconv.Atoi(s[i+1:])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return nil, false
		}
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok || !r.IsInt() {
		return nil, false
	}
	return new(big.Int).Set(r.Num()), true
}
