package expr

import (
	"fmt"
	"sort"
	"strings"
)

// opKind discriminates UpdateOp variants. The zero value is the
// skipped op, so an unset FieldUpdate.Op of type UpdateOp compiles to
// nothing.
type opKind int

const (
	opSkip opKind = iota
	opSet
	opRemove
	opSetDefault
	opPathRef
	opPathDefault
	opIncrement
	opDecrement
	opAdd
	opSubtract
	opAppend
	opPrepend
	opJoin
	opDeleteIndexes
	opSetIndexes
	opAddToSet
	opRemoveFromSet
	opMap
)

// UpdateOp is one tagged mutation of a single attribute. Construct
// values with the package functions below; the zero value is skipped
// silently during compilation.
type UpdateOp struct {
	kind        opKind
	operand     any
	left, right any
	indexes     []int
	indexed     map[int]any
	children    []FieldUpdate
}

// FieldUpdate pairs a document path with the mutation applied to it.
// Op may be an UpdateOp or any literal value; a literal compiles like
// Set, and a nil literal compiles to REMOVE.
type FieldUpdate struct {
	Path string
	Op   any
}

// Field is shorthand for constructing a FieldUpdate.
func Field(path string, op any) FieldUpdate {
	return FieldUpdate{Path: path, Op: op}
}

// Set assigns a value: "path = :v".
func Set(v any) UpdateOp { return UpdateOp{kind: opSet, operand: v} }

// Remove deletes the attribute: "REMOVE path".
func Remove() UpdateOp { return UpdateOp{kind: opRemove} }

// Skip compiles to nothing. It lets callers keep a field in a
// statically assembled update list while emitting no clause for it.
func Skip() UpdateOp { return UpdateOp{} }

// SetDefault assigns only when absent: "path = if_not_exists(path, :v)".
func SetDefault(v any) UpdateOp { return UpdateOp{kind: opSetDefault, operand: v} }

// PathRef copies another attribute: "path = #ref". It is also usable
// as the operand of any arithmetic or list op in place of a literal.
func PathRef(ref string) UpdateOp { return UpdateOp{kind: opPathRef, operand: ref} }

// PathDefault copies another attribute, falling back to a literal when
// the source is absent: "path = if_not_exists(#ref, :v)".
func PathDefault(ref string, fallback any) UpdateOp {
	return UpdateOp{kind: opPathDefault, left: ref, right: fallback}
}

// Increment adds to the attribute itself: "path = path + <operand>".
func Increment(n any) UpdateOp { return UpdateOp{kind: opIncrement, operand: n} }

// Decrement subtracts from the attribute itself: "path = path - <operand>".
func Decrement(n any) UpdateOp { return UpdateOp{kind: opDecrement, operand: n} }

// Add assigns the sum of two explicit operands: "path = <a> + <b>".
// Neither operand is implicitly the target attribute.
func Add(x, y any) UpdateOp { return UpdateOp{kind: opAdd, left: x, right: y} }

// Subtract assigns the difference of two explicit operands:
// "path = <a> - <b>".
func Subtract(x, y any) UpdateOp { return UpdateOp{kind: opSubtract, left: x, right: y} }

// Append concatenates onto the end of the list attribute:
// "path = list_append(path, <operand>)".
func Append(list any) UpdateOp { return UpdateOp{kind: opAppend, operand: list} }

// Prepend concatenates onto the front of the list attribute:
// "path = list_append(<operand>, path)".
func Prepend(list any) UpdateOp { return UpdateOp{kind: opPrepend, operand: list} }

// Join assigns the concatenation of two explicit operands:
// "path = list_append(<a>, <b>)". Argument order is preserved as
// given; neither operand is special-cased even when both are path
// references.
func Join(x, y any) UpdateOp { return UpdateOp{kind: opJoin, left: x, right: y} }

// DeleteIndexes removes list elements, one REMOVE entry per index in
// the order given: "REMOVE path[i0], path[i1]".
func DeleteIndexes(indexes ...int) UpdateOp {
	return UpdateOp{kind: opDeleteIndexes, indexes: indexes}
}

// SetIndexes assigns list elements: "path[i] = :v" per entry, emitted
// in ascending index order.
func SetIndexes(values map[int]any) UpdateOp {
	return UpdateOp{kind: opSetIndexes, indexed: values}
}

// AddToSet adds members to a set attribute: "ADD path :v". Scalar
// operands become single-member sets.
func AddToSet(v any) UpdateOp { return UpdateOp{kind: opAddToSet, operand: v} }

// RemoveFromSet deletes members from a set attribute: "DELETE path :v".
func RemoveFromSet(v any) UpdateOp { return UpdateOp{kind: opRemoveFromSet, operand: v} }

// Map descends into a nested map attribute. Children compile with the
// parent path as a dotted prefix and may nest further Maps without
// bound; their clauses merge into the same four clause groups.
func Map(children ...FieldUpdate) UpdateOp {
	return UpdateOp{kind: opMap, children: children}
}

// clauseLists collects the four clause groups of one compilation pass.
// Lists are append-only; traversal order is preserved within each.
type clauseLists struct {
	set    []string
	remove []string
	add    []string
	del    []string
}

// render joins the groups into the final update expression, omitting
// empty groups entirely.
func (c *clauseLists) render() string {
	groups := make([]string, 0, 4)
	if len(c.set) > 0 {
		groups = append(groups, "SET "+strings.Join(c.set, ", "))
	}
	if len(c.remove) > 0 {
		groups = append(groups, "REMOVE "+strings.Join(c.remove, ", "))
	}
	if len(c.add) > 0 {
		groups = append(groups, "ADD "+strings.Join(c.add, ", "))
	}
	if len(c.del) > 0 {
		groups = append(groups, "DELETE "+strings.Join(c.del, ", "))
	}
	return strings.Join(groups, " ")
}

// CompileUpdate flattens a mutation tree into one update expression.
// Fields compile in the order given; within the rendered expression
// all SET entries come first, then REMOVE, then ADD, then DELETE.
func CompileUpdate(a *Aliases, fields ...FieldUpdate) (string, error) {
	var c clauseLists
	for _, f := range fields {
		if err := compileField(a, &c, "", f); err != nil {
			return "", err
		}
	}
	return c.render(), nil
}

func compileField(a *Aliases, c *clauseLists, prefix string, f FieldUpdate) error {
	raw := f.Path
	if prefix != "" {
		raw = prefix + "." + raw
	}

	op, ok := f.Op.(UpdateOp)
	if !ok {
		// A literal: nil removes the attribute, anything else is a
		// plain assignment. There is no way to express "set to NULL"
		// through this path.
		if f.Op == nil {
			op = Remove()
		} else {
			op = Set(f.Op)
		}
	}

	switch op.kind {
	case opSkip:
		return nil

	case opSet:
		if op.operand == nil {
			c.remove = append(c.remove, a.AddPath(raw))
			return nil
		}
		p := a.AddPath(raw)
		v, err := resolveUpdateOperand(a, op.operand, HintNone)
		if err != nil {
			return err
		}
		c.set = append(c.set, fmt.Sprintf("%s = %s", p, v))

	case opRemove:
		c.remove = append(c.remove, a.AddPath(raw))

	case opSetDefault:
		p := a.AddPath(raw)
		v, err := resolveUpdateOperand(a, op.operand, HintNone)
		if err != nil {
			return err
		}
		c.set = append(c.set, fmt.Sprintf("%s = if_not_exists(%s, %s)", p, p, v))

	case opPathRef:
		p := a.AddPath(raw)
		ref, err := refPath(a, op.operand)
		if err != nil {
			return err
		}
		c.set = append(c.set, fmt.Sprintf("%s = %s", p, ref))

	case opPathDefault:
		p := a.AddPath(raw)
		ref, err := refPath(a, op.left)
		if err != nil {
			return err
		}
		v, err := resolveUpdateOperand(a, op.right, HintNone)
		if err != nil {
			return err
		}
		c.set = append(c.set, fmt.Sprintf("%s = if_not_exists(%s, %s)", p, ref, v))

	case opIncrement, opDecrement:
		p := a.AddPath(raw)
		v, err := resolveUpdateOperand(a, op.operand, HintNone)
		if err != nil {
			return err
		}
		sign := "+"
		if op.kind == opDecrement {
			sign = "-"
		}
		c.set = append(c.set, fmt.Sprintf("%s = %s %s %s", p, p, sign, v))

	case opAdd, opSubtract:
		p := a.AddPath(raw)
		x, err := resolveUpdateOperand(a, op.left, HintNone)
		if err != nil {
			return err
		}
		y, err := resolveUpdateOperand(a, op.right, HintNone)
		if err != nil {
			return err
		}
		sign := "+"
		if op.kind == opSubtract {
			sign = "-"
		}
		c.set = append(c.set, fmt.Sprintf("%s = %s %s %s", p, x, sign, y))

	case opAppend:
		p := a.AddPath(raw)
		v, err := resolveUpdateOperand(a, op.operand, HintNone)
		if err != nil {
			return err
		}
		c.set = append(c.set, fmt.Sprintf("%s = list_append(%s, %s)", p, p, v))

	case opPrepend:
		p := a.AddPath(raw)
		v, err := resolveUpdateOperand(a, op.operand, HintNone)
		if err != nil {
			return err
		}
		c.set = append(c.set, fmt.Sprintf("%s = list_append(%s, %s)", p, v, p))

	case opJoin:
		p := a.AddPath(raw)
		x, err := resolveUpdateOperand(a, op.left, HintNone)
		if err != nil {
			return err
		}
		y, err := resolveUpdateOperand(a, op.right, HintNone)
		if err != nil {
			return err
		}
		c.set = append(c.set, fmt.Sprintf("%s = list_append(%s, %s)", p, x, y))

	case opDeleteIndexes:
		p := a.AddPath(raw)
		for _, i := range op.indexes {
			c.remove = append(c.remove, fmt.Sprintf("%s[%d]", p, i))
		}

	case opSetIndexes:
		p := a.AddPath(raw)
		keys := make([]int, 0, len(op.indexed))
		for i := range op.indexed {
			keys = append(keys, i)
		}
		sort.Ints(keys)
		for _, i := range keys {
			v, err := resolveUpdateOperand(a, op.indexed[i], HintNone)
			if err != nil {
				return err
			}
			c.set = append(c.set, fmt.Sprintf("%s[%d] = %s", p, i, v))
		}

	case opAddToSet:
		p := a.AddPath(raw)
		v, err := resolveUpdateOperand(a, op.operand, HintSet)
		if err != nil {
			return err
		}
		c.add = append(c.add, fmt.Sprintf("%s %s", p, v))

	case opRemoveFromSet:
		p := a.AddPath(raw)
		v, err := resolveUpdateOperand(a, op.operand, HintSet)
		if err != nil {
			return err
		}
		c.del = append(c.del, fmt.Sprintf("%s %s", p, v))

	case opMap:
		for _, child := range op.children {
			if err := compileField(a, c, raw, child); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("%w: unknown update operation %d", ErrUsage, op.kind)
	}
	return nil
}

// resolveUpdateOperand renders one right-hand-side operand: a PathRef
// resolves to an aliased path, a Resolver renders itself, everything
// else becomes a fresh value placeholder.
func resolveUpdateOperand(a *Aliases, v any, h Hint) (string, error) {
	switch t := v.(type) {
	case UpdateOp:
		if t.kind != opPathRef {
			return "", fmt.Errorf("%w: update operation cannot be used as an operand", ErrUsage)
		}
		return refPath(a, t.operand)
	case Resolver:
		return t.Resolve(a, h)
	default:
		av, err := marshalOperand(v, h)
		if err != nil {
			return "", err
		}
		return a.AddValue(av), nil
	}
}

func refPath(a *Aliases, ref any) (string, error) {
	s, ok := ref.(string)
	if !ok {
		return "", fmt.Errorf("%w: path reference must be a string, got %T", ErrUsage, ref)
	}
	return a.AddPath(s), nil
}
