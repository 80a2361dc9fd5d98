package expr

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

func TestConditionRendering(t *testing.T) {
	testCases := []struct {
		name     string
		cond     Resolver
		expected string
	}{
		{
			name:     "equal",
			cond:     Equal("p", "v"),
			expected: "#n0 = :v0",
		},
		{
			name:     "not equal",
			cond:     NotEqual("p", "v"),
			expected: "#n0 <> :v0",
		},
		{
			name:     "ordering comparisons",
			cond:     And(LessThan("a", 1), LessThanEqual("b", 2), GreaterThan("c", 3), GreaterThanEqual("d", 4)),
			expected: "(#n0 < :v0 AND #n1 <= :v1 AND #n2 > :v2 AND #n3 >= :v3)",
		},
		{
			name:     "path versus path",
			cond:     Equal("a", Name("b")),
			expected: "#n0 = #n1",
		},
		{
			name:     "size as an operand",
			cond:     GreaterThan(Size("tags"), 3),
			expected: "size(#n0) > :v0",
		},
		{
			name:     "between",
			cond:     Between("age", 18, 65),
			expected: "#n0 BETWEEN :v0 AND :v1",
		},
		{
			name:     "in",
			cond:     In("status", "a", "b", "c"),
			expected: "#n0 IN (:v0, :v1, :v2)",
		},
		{
			name:     "contains",
			cond:     Contains("tags", "go"),
			expected: "contains(#n0, :v0)",
		},
		{
			name:     "begins with",
			cond:     BeginsWith("sk", "order#"),
			expected: "begins_with(#n0, :v0)",
		},
		{
			name:     "attribute type",
			cond:     HasAttributeType("blob", TypeBinary),
			expected: "attribute_type(#n0, :v0)",
		},
		{
			name:     "exists",
			cond:     AttributeExists("id"),
			expected: "attribute_exists(#n0)",
		},
		{
			name:     "not exists",
			cond:     AttributeNotExists("id"),
			expected: "attribute_not_exists(#n0)",
		},
		{
			name:     "and of two",
			cond:     And(Equal("p", "v"), GreaterThanEqual("q", 1)),
			expected: "(#n0 = :v0 AND #n1 >= :v1)",
		},
		{
			name:     "or of two",
			cond:     Or(Equal("p", "v"), Equal("q", "w")),
			expected: "(#n0 = :v0 OR #n1 = :v1)",
		},
		{
			name:     "single operand still parenthesized",
			cond:     And(Equal("p", "v")),
			expected: "(#n0 = :v0)",
		},
		{
			name:     "zero operands still parenthesized",
			cond:     And(),
			expected: "()",
		},
		{
			name:     "not",
			cond:     Not(Equal("p", "v")),
			expected: "(NOT #n0 = :v0)",
		},
		{
			name:     "nested composition",
			cond:     Or(And(Equal("a", 1), Equal("b", 2)), Not(AttributeExists("c"))),
			expected: "((#n0 = :v0 AND #n1 = :v1) OR (NOT attribute_exists(#n2)))",
		},
		{
			name:     "deep path in comparison",
			cond:     Equal("user.addresses[0].zip", "12345"),
			expected: "#n0.#n1[0].#n2 = :v0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAliases()
			got, err := tc.cond.Resolve(a, HintNone)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestConditionAliasMaps(t *testing.T) {
	a := NewAliases()
	got, err := And(Equal("p", "v"), GreaterThanEqual("q", 1)).Resolve(a, HintNone)
	require.NoError(t, err)
	require.Equal(t, "(#n0 = :v0 AND #n1 >= :v1)", got)
	require.Equal(t, map[string]string{"#n0": "p", "#n1": "q"}, a.Names())
	require.Equal(t, map[string]types.AttributeValue{
		":v0": &types.AttributeValueMemberS{Value: "v"},
		":v1": &types.AttributeValueMemberN{Value: "1"},
	}, a.Values())
}

func TestConditionUsageErrors(t *testing.T) {
	a := NewAliases()

	_, err := In("p").Resolve(a, HintNone)
	require.ErrorIs(t, err, ErrUsage)

	_, err = Compare(42, CompareEqual, "v").Resolve(a, HintNone)
	require.ErrorIs(t, err, ErrUsage)
}

func TestSharedValuesNeverCollapse(t *testing.T) {
	a := NewAliases()
	got, err := And(Equal("p", "same"), Equal("q", "same")).Resolve(a, HintNone)
	require.NoError(t, err)
	require.Equal(t, "(#n0 = :v0 AND #n1 = :v1)", got)
	require.Len(t, a.Values(), 2)
}
