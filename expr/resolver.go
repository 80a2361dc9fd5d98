package expr

// A Resolver is a deferred expression fragment. Given the alias table
// of the surrounding build it produces the rendered text of the
// fragment, registering whatever names and values it references.
//
// Resolvers compose: a Resolver may stand in for a path, a value, or a
// whole sub-expression wherever an operand is expected.
type Resolver interface {
	Resolve(a *Aliases, h Hint) (string, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(a *Aliases, h Hint) (string, error)

func (f ResolverFunc) Resolve(a *Aliases, h Hint) (string, error) {
	return f(a, h)
}

// A Hint nudges operand marshaling when the target attribute type is
// ambiguous from the Go value alone, e.g. forcing a slice into a set
// instead of a list.
type Hint int

const (
	HintNone Hint = iota
	HintSet
)

// Name resolves to the aliased form of a document path. Use it to
// compare one attribute against another, or as an update operand.
func Name(path string) Resolver {
	return ResolverFunc(func(a *Aliases, _ Hint) (string, error) {
		return a.AddPath(path), nil
	})
}

// Value resolves to a fresh value placeholder holding v.
func Value(v any) Resolver {
	return ResolverFunc(func(a *Aliases, h Hint) (string, error) {
		av, err := marshalOperand(v, h)
		if err != nil {
			return "", err
		}
		return a.AddValue(av), nil
	})
}
