package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildKeyExpression(t *testing.T) {
	testCases := []struct {
		name     string
		entries  []KeyEntry
		expected string
	}{
		{
			name:     "partition key only has no trailing AND",
			entries:  []KeyEntry{{Name: "pk", Value: KeyEqual("user#42")}},
			expected: "#n0 = :v0",
		},
		{
			name: "partition and sort",
			entries: []KeyEntry{
				{Name: "pk", Value: KeyEqual("user#42")},
				{Name: "sk", Value: KeyBeginsWith("order#")},
			},
			expected: "#n0 = :v0 AND begins_with(#n1, :v1)",
		},
		{
			name: "literal value is shorthand for equality",
			entries: []KeyEntry{
				{Name: "pk", Value: "user#42"},
				{Name: "sk", Value: 7},
			},
			expected: "#n0 = :v0 AND #n1 = :v1",
		},
		{
			name: "between on the sort key",
			entries: []KeyEntry{
				{Name: "pk", Value: KeyEqual("day#2026-08-26")},
				{Name: "ts", Value: KeyBetween(100, 200)},
			},
			expected: "#n0 = :v0 AND #n1 BETWEEN :v1 AND :v2",
		},
		{
			name: "ordering comparison on the sort key",
			entries: []KeyEntry{
				{Name: "pk", Value: KeyEqual("x")},
				{Name: "sk", Value: KeyGreaterThanEqual(10)},
			},
			expected: "#n0 = :v0 AND #n1 >= :v1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAliases()
			got, err := BuildKeyExpression(a, tc.entries...)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

// The key condition grammar holds at most a partition and a sort
// clause. Anything past the second entry is dropped without error.
func TestKeyConditionTruncatesPastTwoClauses(t *testing.T) {
	a := NewAliases()
	got, err := BuildKeyExpression(a,
		KeyEntry{Name: "pk", Value: KeyEqual("x")},
		KeyEntry{Name: "sk", Value: KeyEqual("y")},
		KeyEntry{Name: "extra", Value: KeyEqual("z")},
	)
	require.NoError(t, err)
	require.Equal(t, "#n0 = :v0 AND #n1 = :v1", got)
	// The dropped entry registered nothing.
	require.Len(t, a.Names(), 2)
	require.Len(t, a.Values(), 2)
}

func TestKeyConditionsAddIsSilentAtCapacity(t *testing.T) {
	var kc KeyConditions
	kc.Add("a = :v0")
	kc.Add("b = :v1")
	kc.Add("c = :v2")
	require.Equal(t, "a = :v0 AND b = :v1", kc.Expression())
}

func TestKeyConditionsAddEqual(t *testing.T) {
	a := NewAliases()
	var kc KeyConditions
	require.NoError(t, kc.AddEqual(a, "pk", "user#42"))
	require.Equal(t, "#n0 = :v0", kc.Expression())
}
