package expr

import (
	"fmt"
	"strings"
)

// Comparator is one of the comparison operators accepted by DynamoDB
// condition and key condition grammars.
type Comparator string

const (
	CompareEqual            Comparator = "="
	CompareNotEqual         Comparator = "<>"
	CompareLessThan         Comparator = "<"
	CompareLessThanEqual    Comparator = "<="
	CompareGreaterThan      Comparator = ">"
	CompareGreaterThanEqual Comparator = ">="
)

// AttributeType is a type tag accepted by attribute_type().
type AttributeType string

const (
	TypeString    AttributeType = "S"
	TypeStringSet AttributeType = "SS"
	TypeNumber    AttributeType = "N"
	TypeNumberSet AttributeType = "NS"
	TypeBinary    AttributeType = "B"
	TypeBinarySet AttributeType = "BS"
	TypeBool      AttributeType = "BOOL"
	TypeNull      AttributeType = "NULL"
	TypeList      AttributeType = "L"
	TypeMap       AttributeType = "M"
)

// resolvePathOperand renders an operand appearing in path position: a
// nested Resolver is rendered as-is, a plain string is treated as a
// document path, anything else is rejected.
func resolvePathOperand(a *Aliases, op any) (string, error) {
	switch v := op.(type) {
	case Resolver:
		return v.Resolve(a, HintNone)
	case string:
		return a.AddPath(v), nil
	default:
		return "", fmt.Errorf("%w: operand of type %T cannot be used as a path", ErrUsage, op)
	}
}

// resolveValueOperand renders an operand appearing in value position: a
// nested Resolver is rendered as-is, anything else becomes a fresh
// value placeholder.
func resolveValueOperand(a *Aliases, op any, h Hint) (string, error) {
	if r, ok := op.(Resolver); ok {
		return r.Resolve(a, h)
	}
	av, err := marshalOperand(op, h)
	if err != nil {
		return "", err
	}
	return a.AddValue(av), nil
}

// Compare renders "<left> <op> <right>". The left operand is treated
// as a document path when it is a plain string; the right operand is
// treated as a literal value unless it is itself a Resolver, which
// allows path-vs-path comparisons and size() operands on either side.
func Compare(left any, op Comparator, right any) Resolver {
	return ResolverFunc(func(a *Aliases, _ Hint) (string, error) {
		l, err := resolvePathOperand(a, left)
		if err != nil {
			return "", err
		}
		r, err := resolveValueOperand(a, right, HintNone)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", l, op, r), nil
	})
}

func Equal(left, right any) Resolver    { return Compare(left, CompareEqual, right) }
func NotEqual(left, right any) Resolver { return Compare(left, CompareNotEqual, right) }
func LessThan(left, right any) Resolver { return Compare(left, CompareLessThan, right) }
func LessThanEqual(left, right any) Resolver {
	return Compare(left, CompareLessThanEqual, right)
}
func GreaterThan(left, right any) Resolver { return Compare(left, CompareGreaterThan, right) }
func GreaterThanEqual(left, right any) Resolver {
	return Compare(left, CompareGreaterThanEqual, right)
}

// Between renders "<path> BETWEEN <lo> AND <hi>".
func Between(path string, lo, hi any) Resolver {
	return ResolverFunc(func(a *Aliases, _ Hint) (string, error) {
		p := a.AddPath(path)
		l, err := resolveValueOperand(a, lo, HintNone)
		if err != nil {
			return "", err
		}
		h, err := resolveValueOperand(a, hi, HintNone)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", p, l, h), nil
	})
}

// In renders "<path> IN (<v0>, <v1>, ...)". At least one candidate
// value is required.
func In(path string, values ...any) Resolver {
	return ResolverFunc(func(a *Aliases, _ Hint) (string, error) {
		if len(values) == 0 {
			return "", fmt.Errorf("%w: IN requires at least one value", ErrUsage)
		}
		p := a.AddPath(path)
		rendered := make([]string, 0, len(values))
		for _, v := range values {
			r, err := resolveValueOperand(a, v, HintNone)
			if err != nil {
				return "", err
			}
			rendered = append(rendered, r)
		}
		return fmt.Sprintf("%s IN (%s)", p, strings.Join(rendered, ", ")), nil
	})
}

// Contains renders "contains(<path>, <v>)".
func Contains(path string, v any) Resolver {
	return pathValueFunc("contains", path, v)
}

// BeginsWith renders "begins_with(<path>, <v>)".
func BeginsWith(path string, prefix string) Resolver {
	return pathValueFunc("begins_with", path, prefix)
}

// HasAttributeType renders "attribute_type(<path>, <v>)" with the
// type tag registered as a string value.
func HasAttributeType(path string, t AttributeType) Resolver {
	return pathValueFunc("attribute_type", path, string(t))
}

func pathValueFunc(fn, path string, v any) Resolver {
	return ResolverFunc(func(a *Aliases, _ Hint) (string, error) {
		p := a.AddPath(path)
		r, err := resolveValueOperand(a, v, HintNone)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s, %s)", fn, p, r), nil
	})
}

// AttributeExists renders "attribute_exists(<path>)".
func AttributeExists(path string) Resolver {
	return ResolverFunc(func(a *Aliases, _ Hint) (string, error) {
		return fmt.Sprintf("attribute_exists(%s)", a.AddPath(path)), nil
	})
}

// AttributeNotExists renders "attribute_not_exists(<path>)".
func AttributeNotExists(path string) Resolver {
	return ResolverFunc(func(a *Aliases, _ Hint) (string, error) {
		return fmt.Sprintf("attribute_not_exists(%s)", a.AddPath(path)), nil
	})
}

// Size renders "size(<path>)" and is usable wherever a path or value
// operand is expected.
func Size(path string) Resolver {
	return ResolverFunc(func(a *Aliases, _ Hint) (string, error) {
		return fmt.Sprintf("size(%s)", a.AddPath(path)), nil
	})
}

// And joins conditions with AND. The result is always parenthesized,
// including the zero- and one-operand cases, so composition stays
// uniform no matter how the operand list was assembled.
func And(conds ...Resolver) Resolver {
	return joined(" AND ", conds)
}

// Or joins conditions with OR, parenthesized like And.
func Or(conds ...Resolver) Resolver {
	return joined(" OR ", conds)
}

func joined(sep string, conds []Resolver) Resolver {
	return ResolverFunc(func(a *Aliases, _ Hint) (string, error) {
		rendered := make([]string, 0, len(conds))
		for _, c := range conds {
			r, err := c.Resolve(a, HintNone)
			if err != nil {
				return "", err
			}
			rendered = append(rendered, r)
		}
		return "(" + strings.Join(rendered, sep) + ")", nil
	})
}

// Not renders "(NOT <c>)". The single operand is enforced by the
// signature.
func Not(cond Resolver) Resolver {
	return ResolverFunc(func(a *Aliases, _ Hint) (string, error) {
		r, err := cond.Resolve(a, HintNone)
		if err != nil {
			return "", err
		}
		return "(NOT " + r + ")", nil
	})
}
