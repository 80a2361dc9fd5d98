package expr

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Params is the wire-parameter shape handed to the store client. Every
// field is optional: expression strings stay nil when nothing was
// built, and the alias maps stay nil when empty so callers can forward
// the struct field-for-field into a request without emptiness checks.
type Params struct {
	ConditionExpression       *string
	FilterExpression          *string
	KeyConditionExpression    *string
	UpdateExpression          *string
	ExpressionAttributeNames  map[string]string
	ExpressionAttributeValues map[string]types.AttributeValue
}

// joinAnd renders the conditions joined with a plain " AND ", with no
// outer parentheses, or nil when there is nothing to join.
func joinAnd(a *Aliases, conds []Resolver) (*string, error) {
	if len(conds) == 0 {
		return nil, nil
	}
	rendered := make([]string, 0, len(conds))
	for _, c := range conds {
		r, err := c.Resolve(a, HintNone)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, r)
	}
	return aws.String(strings.Join(rendered, " AND ")), nil
}

// ApplyCondition renders the conditions into ConditionExpression. An
// empty condition list leaves the field unset.
func (p *Params) ApplyCondition(a *Aliases, conds ...Resolver) error {
	s, err := joinAnd(a, conds)
	if err != nil {
		return err
	}
	if s != nil {
		p.ConditionExpression = s
	}
	return nil
}

// ApplyFilter renders the conditions into FilterExpression, with the
// same joining and omission rules as ApplyCondition.
func (p *Params) ApplyFilter(a *Aliases, conds ...Resolver) error {
	s, err := joinAnd(a, conds)
	if err != nil {
		return err
	}
	if s != nil {
		p.FilterExpression = s
	}
	return nil
}

// ApplyKeyCondition renders the key entries into
// KeyConditionExpression.
func (p *Params) ApplyKeyCondition(a *Aliases, entries ...KeyEntry) error {
	if len(entries) == 0 {
		return nil
	}
	s, err := BuildKeyExpression(a, entries...)
	if err != nil {
		return err
	}
	p.KeyConditionExpression = aws.String(s)
	return nil
}

// ApplyUpdate compiles the mutation tree into UpdateExpression.
func (p *Params) ApplyUpdate(a *Aliases, fields ...FieldUpdate) error {
	if len(fields) == 0 {
		return nil
	}
	s, err := CompileUpdate(a, fields...)
	if err != nil {
		return err
	}
	if s != "" {
		p.UpdateExpression = aws.String(s)
	}
	return nil
}

// FinishAliases copies the accumulated alias maps out of the table.
// Call it once, after every expression sharing the table has been
// applied.
func (p *Params) FinishAliases(a *Aliases) {
	p.ExpressionAttributeNames = a.Names()
	p.ExpressionAttributeValues = a.Values()
}
