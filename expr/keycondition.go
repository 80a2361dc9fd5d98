package expr

import (
	"fmt"
	"strings"
)

// A KeyResolver renders one key condition clause once it is told which
// key attribute it applies to. Only the operators DynamoDB's key
// condition grammar accepts are provided: equality and ordering
// comparisons, BETWEEN and begins_with. There is deliberately no
// not-equal, IN or contains variant.
type KeyResolver func(name string, a *Aliases) (string, error)

func keyCompare(op Comparator, v any) KeyResolver {
	return func(name string, a *Aliases) (string, error) {
		p := a.AddPath(name)
		r, err := resolveValueOperand(a, v, HintNone)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", p, op, r), nil
	}
}

// KeyEqual matches items whose key attribute equals v.
func KeyEqual(v any) KeyResolver { return keyCompare(CompareEqual, v) }

// KeyLessThan matches items whose key attribute sorts before v.
func KeyLessThan(v any) KeyResolver { return keyCompare(CompareLessThan, v) }

// KeyLessThanEqual matches items whose key attribute sorts before or
// equals v.
func KeyLessThanEqual(v any) KeyResolver { return keyCompare(CompareLessThanEqual, v) }

// KeyGreaterThan matches items whose key attribute sorts after v.
func KeyGreaterThan(v any) KeyResolver { return keyCompare(CompareGreaterThan, v) }

// KeyGreaterThanEqual matches items whose key attribute sorts after or
// equals v.
func KeyGreaterThanEqual(v any) KeyResolver { return keyCompare(CompareGreaterThanEqual, v) }

// KeyBetween matches items whose key attribute is between lo and hi,
// inclusive.
func KeyBetween(lo, hi any) KeyResolver {
	return func(name string, a *Aliases) (string, error) {
		p := a.AddPath(name)
		l, err := resolveValueOperand(a, lo, HintNone)
		if err != nil {
			return "", err
		}
		h, err := resolveValueOperand(a, hi, HintNone)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", p, l, h), nil
	}
}

// KeyBeginsWith matches items whose key attribute starts with prefix.
func KeyBeginsWith(prefix string) KeyResolver {
	return func(name string, a *Aliases) (string, error) {
		p := a.AddPath(name)
		r, err := resolveValueOperand(a, prefix, HintNone)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("begins_with(%s, %s)", p, r), nil
	}
}

// maxKeyClauses is the most clauses a key condition expression can
// carry: one for the partition key, one for the sort key.
const maxKeyClauses = 2

// KeyConditions accumulates the clauses of one key condition
// expression. Clauses past the partition/sort pair are silently
// dropped; the store's grammar has no room for them.
type KeyConditions struct {
	clauses []string
}

// Add records one rendered clause. It is a no-op once two clauses have
// been recorded.
func (k *KeyConditions) Add(clause string) {
	if len(k.clauses) >= maxKeyClauses {
		return
	}
	k.clauses = append(k.clauses, clause)
}

// AddEqual records a plain "<name> = <value>" clause.
func (k *KeyConditions) AddEqual(a *Aliases, name string, v any) error {
	clause, err := KeyEqual(v)(name, a)
	if err != nil {
		return err
	}
	k.Add(clause)
	return nil
}

// Expression joins the recorded clauses with AND.
func (k *KeyConditions) Expression() string {
	return strings.Join(k.clauses, " AND ")
}

// KeyEntry pairs one key attribute with either a KeyResolver or a
// literal value; a literal is shorthand for KeyEqual.
type KeyEntry struct {
	Name  string
	Value any
}

// BuildKeyExpression renders the key condition for the given entries,
// in order. Entries beyond the partition/sort pair are ignored.
func BuildKeyExpression(a *Aliases, entries ...KeyEntry) (string, error) {
	var kc KeyConditions
	for _, e := range entries {
		if len(kc.clauses) >= maxKeyClauses {
			break
		}
		var (
			clause string
			err    error
		)
		if kr, ok := e.Value.(KeyResolver); ok {
			clause, err = kr(e.Name, a)
		} else {
			clause, err = KeyEqual(e.Value)(e.Name, a)
		}
		if err != nil {
			return "", err
		}
		kc.Add(clause)
	}
	return kc.Expression(), nil
}
