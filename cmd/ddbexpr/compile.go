package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"gopkg.in/yaml.v3"

	"github.com/solhaug/ddbexpr/expr"
	"github.com/solhaug/ddbexpr/expr/reserved"
)

func runCompile() error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	useReserved := fs.Bool("reserved", false, "alias reserved words as literal #name placeholders")
	useBare := fs.Bool("bare", false, "emit names that need no alias unaliased")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one input file (or - for stdin)")
	}

	var (
		data []byte
		err  error
	)
	if fs.Arg(0) == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(fs.Arg(0))
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var opts []expr.AliasOption
	if *useReserved {
		opts = append(opts, expr.WithReservedNames(reserved.IsReserved))
	}
	if *useBare {
		opts = append(opts, expr.WithValidNames(reserved.IsValidName))
	}

	out, err := compileDocument(data, opts...)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(out)
}

// document is the YAML input shape: ordered clause lists for the key
// condition, the condition and filter predicates, and the update tree.
type document struct {
	Key       []keyClause    `yaml:"key"`
	Condition []condClause   `yaml:"condition"`
	Filter    []condClause   `yaml:"filter"`
	Update    []updateClause `yaml:"update"`
}

type keyClause struct {
	Name             string  `yaml:"name"`
	Equal            any     `yaml:"equal"`
	LessThan         any     `yaml:"lessThan"`
	LessThanEqual    any     `yaml:"lessThanEqual"`
	GreaterThan      any     `yaml:"greaterThan"`
	GreaterThanEqual any     `yaml:"greaterThanEqual"`
	Between          []any   `yaml:"between"`
	BeginsWith       *string `yaml:"beginsWith"`
}

type condClause struct {
	Path             string  `yaml:"path"`
	Equal            any     `yaml:"equal"`
	NotEqual         any     `yaml:"notEqual"`
	LessThan         any     `yaml:"lessThan"`
	LessThanEqual    any     `yaml:"lessThanEqual"`
	GreaterThan      any     `yaml:"greaterThan"`
	GreaterThanEqual any     `yaml:"greaterThanEqual"`
	Between          []any   `yaml:"between"`
	In               []any   `yaml:"in"`
	Contains         any     `yaml:"contains"`
	BeginsWith       *string `yaml:"beginsWith"`
	Exists           *bool   `yaml:"exists"`
}

type updateClause struct {
	Path          string         `yaml:"path"`
	Set           any            `yaml:"set"`
	SetDefault    any            `yaml:"setDefault"`
	Remove        bool           `yaml:"remove"`
	Increment     any            `yaml:"increment"`
	Decrement     any            `yaml:"decrement"`
	Append        any            `yaml:"append"`
	Prepend       any            `yaml:"prepend"`
	AddToSet      any            `yaml:"addToSet"`
	RemoveFromSet any            `yaml:"removeFromSet"`
	DeleteIndexes []int          `yaml:"deleteIndexes"`
	SetIndexes    map[int]any    `yaml:"setIndexes"`
	CopyFrom      *string        `yaml:"copyFrom"`
	Fields        []updateClause `yaml:"fields"`
}

// output is the YAML result shape, mirroring the wire-parameter fields.
type output struct {
	KeyConditionExpression string            `yaml:"keyConditionExpression,omitempty"`
	ConditionExpression    string            `yaml:"conditionExpression,omitempty"`
	FilterExpression       string            `yaml:"filterExpression,omitempty"`
	UpdateExpression       string            `yaml:"updateExpression,omitempty"`
	Names                  map[string]string `yaml:"names,omitempty"`
	Values                 map[string]any    `yaml:"values,omitempty"`
}

func compileDocument(data []byte, opts ...expr.AliasOption) (*output, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	aliases := expr.NewAliases(opts...)
	var p expr.Params

	entries := make([]expr.KeyEntry, 0, len(doc.Key))
	for _, k := range doc.Key {
		kr, err := k.resolver()
		if err != nil {
			return nil, err
		}
		entries = append(entries, expr.KeyEntry{Name: k.Name, Value: kr})
	}
	if err := p.ApplyKeyCondition(aliases, entries...); err != nil {
		return nil, err
	}

	conds, err := resolvers(doc.Condition)
	if err != nil {
		return nil, err
	}
	if err := p.ApplyCondition(aliases, conds...); err != nil {
		return nil, err
	}

	filters, err := resolvers(doc.Filter)
	if err != nil {
		return nil, err
	}
	if err := p.ApplyFilter(aliases, filters...); err != nil {
		return nil, err
	}

	fields := make([]expr.FieldUpdate, 0, len(doc.Update))
	for _, u := range doc.Update {
		f, err := u.field()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if err := p.ApplyUpdate(aliases, fields...); err != nil {
		return nil, err
	}

	p.FinishAliases(aliases)

	out := &output{Names: p.ExpressionAttributeNames}
	if p.KeyConditionExpression != nil {
		out.KeyConditionExpression = *p.KeyConditionExpression
	}
	if p.ConditionExpression != nil {
		out.ConditionExpression = *p.ConditionExpression
	}
	if p.FilterExpression != nil {
		out.FilterExpression = *p.FilterExpression
	}
	if p.UpdateExpression != nil {
		out.UpdateExpression = *p.UpdateExpression
	}
	if len(p.ExpressionAttributeValues) > 0 {
		out.Values = make(map[string]any, len(p.ExpressionAttributeValues))
		for alias, av := range p.ExpressionAttributeValues {
			var v any
			if err := attributevalue.Unmarshal(av, &v); err != nil {
				return nil, fmt.Errorf("render value %s: %w", alias, err)
			}
			out.Values[alias] = v
		}
	}
	return out, nil
}

func (k keyClause) resolver() (expr.KeyResolver, error) {
	if k.Name == "" {
		return nil, fmt.Errorf("key clause is missing a name")
	}
	switch {
	case k.Equal != nil:
		return expr.KeyEqual(k.Equal), nil
	case k.LessThan != nil:
		return expr.KeyLessThan(k.LessThan), nil
	case k.LessThanEqual != nil:
		return expr.KeyLessThanEqual(k.LessThanEqual), nil
	case k.GreaterThan != nil:
		return expr.KeyGreaterThan(k.GreaterThan), nil
	case k.GreaterThanEqual != nil:
		return expr.KeyGreaterThanEqual(k.GreaterThanEqual), nil
	case len(k.Between) == 2:
		return expr.KeyBetween(k.Between[0], k.Between[1]), nil
	case k.BeginsWith != nil:
		return expr.KeyBeginsWith(*k.BeginsWith), nil
	default:
		return nil, fmt.Errorf("key clause %q selects no operator", k.Name)
	}
}

func resolvers(clauses []condClause) ([]expr.Resolver, error) {
	out := make([]expr.Resolver, 0, len(clauses))
	for _, c := range clauses {
		r, err := c.resolver()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (c condClause) resolver() (expr.Resolver, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("condition clause is missing a path")
	}
	switch {
	case c.Equal != nil:
		return expr.Equal(c.Path, c.Equal), nil
	case c.NotEqual != nil:
		return expr.NotEqual(c.Path, c.NotEqual), nil
	case c.LessThan != nil:
		return expr.LessThan(c.Path, c.LessThan), nil
	case c.LessThanEqual != nil:
		return expr.LessThanEqual(c.Path, c.LessThanEqual), nil
	case c.GreaterThan != nil:
		return expr.GreaterThan(c.Path, c.GreaterThan), nil
	case c.GreaterThanEqual != nil:
		return expr.GreaterThanEqual(c.Path, c.GreaterThanEqual), nil
	case len(c.Between) == 2:
		return expr.Between(c.Path, c.Between[0], c.Between[1]), nil
	case len(c.In) > 0:
		return expr.In(c.Path, c.In...), nil
	case c.Contains != nil:
		return expr.Contains(c.Path, c.Contains), nil
	case c.BeginsWith != nil:
		return expr.BeginsWith(c.Path, *c.BeginsWith), nil
	case c.Exists != nil:
		if *c.Exists {
			return expr.AttributeExists(c.Path), nil
		}
		return expr.AttributeNotExists(c.Path), nil
	default:
		return nil, fmt.Errorf("condition clause %q selects no operator", c.Path)
	}
}

func (u updateClause) field() (expr.FieldUpdate, error) {
	if u.Path == "" {
		return expr.FieldUpdate{}, fmt.Errorf("update clause is missing a path")
	}
	op, err := u.op()
	if err != nil {
		return expr.FieldUpdate{}, err
	}
	return expr.Field(u.Path, op), nil
}

func (u updateClause) op() (expr.UpdateOp, error) {
	switch {
	case u.Remove:
		return expr.Remove(), nil
	case u.Set != nil:
		return expr.Set(u.Set), nil
	case u.SetDefault != nil:
		return expr.SetDefault(u.SetDefault), nil
	case u.Increment != nil:
		return expr.Increment(u.Increment), nil
	case u.Decrement != nil:
		return expr.Decrement(u.Decrement), nil
	case u.Append != nil:
		return expr.Append(u.Append), nil
	case u.Prepend != nil:
		return expr.Prepend(u.Prepend), nil
	case u.AddToSet != nil:
		return expr.AddToSet(setOperand(u.AddToSet)), nil
	case u.RemoveFromSet != nil:
		return expr.RemoveFromSet(setOperand(u.RemoveFromSet)), nil
	case len(u.DeleteIndexes) > 0:
		return expr.DeleteIndexes(u.DeleteIndexes...), nil
	case len(u.SetIndexes) > 0:
		return expr.SetIndexes(u.SetIndexes), nil
	case u.CopyFrom != nil:
		return expr.PathRef(*u.CopyFrom), nil
	case len(u.Fields) > 0:
		children := make([]expr.FieldUpdate, 0, len(u.Fields))
		for _, child := range u.Fields {
			f, err := child.field()
			if err != nil {
				return expr.UpdateOp{}, err
			}
			children = append(children, f)
		}
		return expr.Map(children...), nil
	default:
		return expr.UpdateOp{}, fmt.Errorf("update clause %q selects no operation", u.Path)
	}
}

// setOperand narrows the untyped YAML decoding of a set operand so the
// engine can shape SS and NS members from it.
func setOperand(v any) any {
	items, ok := v.([]any)
	if !ok {
		return v
	}
	strs := make([]string, 0, len(items))
	nums := make([]float64, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			strs = append(strs, t)
		case int:
			nums = append(nums, float64(t))
		case float64:
			nums = append(nums, t)
		}
	}
	if len(strs) == len(items) {
		return strs
	}
	if len(nums) == len(items) {
		return nums
	}
	return v
}
