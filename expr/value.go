package expr

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/exp/constraints"
)

// marshalOperand turns a Go operand into the attribute value stored in
// the alias table. Already-marshaled attribute values pass through
// verbatim; everything else goes through the SDK marshaler, except set
// hinted operands which are shaped into SS/NS/BS members.
func marshalOperand(v any, h Hint) (types.AttributeValue, error) {
	if av, ok := v.(types.AttributeValue); ok {
		return av, nil
	}
	if h == HintSet {
		return marshalSet(v)
	}
	av, err := attributevalue.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal operand of type %T: %v", ErrUsage, v, err)
	}
	return av, nil
}

// marshalSet shapes a set operand. Scalars become single-element sets
// so callers can add or delete one member without wrapping it.
func marshalSet(v any) (types.AttributeValue, error) {
	switch s := v.(type) {
	case string:
		return &types.AttributeValueMemberSS{Value: []string{s}}, nil
	case []string:
		return &types.AttributeValueMemberSS{Value: s}, nil
	case []byte:
		return &types.AttributeValueMemberBS{Value: [][]byte{s}}, nil
	case [][]byte:
		return &types.AttributeValueMemberBS{Value: s}, nil
	case int:
		return numberSet(s)
	case int32:
		return numberSet(s)
	case int64:
		return numberSet(s)
	case uint:
		return numberSet(s)
	case uint64:
		return numberSet(s)
	case float32:
		return numberSet(s)
	case float64:
		return numberSet(s)
	case []int:
		return numberSet(s...)
	case []int32:
		return numberSet(s...)
	case []int64:
		return numberSet(s...)
	case []uint:
		return numberSet(s...)
	case []uint64:
		return numberSet(s...)
	case []float32:
		return numberSet(s...)
	case []float64:
		return numberSet(s...)
	default:
		return nil, fmt.Errorf("%w: cannot form a set from operand of type %T", ErrUsage, v)
	}
}

// numberSet renders numbers the way the SDK marshaler does, so NS
// members match what a plain Marshal of the scalar would produce.
func numberSet[N constraints.Integer | constraints.Float](ns ...N) (types.AttributeValue, error) {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		av, err := attributevalue.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal set member %v: %v", ErrUsage, n, err)
		}
		member, ok := av.(*types.AttributeValueMemberN)
		if !ok {
			return nil, fmt.Errorf("%w: set member %v did not marshal to a number", ErrUsage, n)
		}
		out = append(out, member.Value)
	}
	return &types.AttributeValueMemberNS{Value: out}, nil
}
