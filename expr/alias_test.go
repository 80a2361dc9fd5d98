package expr

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

func TestAddPathSplitsSegments(t *testing.T) {
	testCases := []struct {
		name      string
		path      string
		expected  string
		wantPaths map[string]string
	}{
		{
			name:      "single name",
			path:      "x",
			expected:  "#n0",
			wantPaths: map[string]string{"#n0": "x"},
		},
		{
			name:      "dotted path",
			path:      "path.l1.l2",
			expected:  "#n0.#n1.#n2",
			wantPaths: map[string]string{"#n0": "path", "#n1": "l1", "#n2": "l2"},
		},
		{
			name:      "chained indexes are never aliased",
			path:      "path[3][2][1]",
			expected:  "#n0[3][2][1]",
			wantPaths: map[string]string{"#n0": "path"},
		},
		{
			name:      "index inside a dotted path",
			path:      "l1.l2[3].l3",
			expected:  "#n0.#n1[3].#n2",
			wantPaths: map[string]string{"#n0": "l1", "#n1": "l2", "#n2": "l3"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAliases()
			require.Equal(t, tc.expected, a.AddPath(tc.path))
			require.Equal(t, tc.wantPaths, a.Names())
		})
	}
}

func TestAddPathDeduplicatesNames(t *testing.T) {
	a := NewAliases()
	first := a.AddPath("status")
	second := a.AddPath("status")
	require.Equal(t, first, second)
	require.Len(t, a.Names(), 1)

	// Shared segments across different paths reuse the same alias.
	require.Equal(t, "#n0.#n1", a.AddPath("status.code"))
	require.Equal(t, "#n0.#n1", a.AddPath("status.code"))
	require.Len(t, a.Names(), 2)
}

func TestAddValueNeverDeduplicates(t *testing.T) {
	a := NewAliases()
	v := &types.AttributeValueMemberS{Value: "same"}
	require.Equal(t, ":v0", a.AddValue(v))
	require.Equal(t, ":v1", a.AddValue(v))
	require.Equal(t, map[string]types.AttributeValue{":v0": v, ":v1": v}, a.Values())
}

func TestReset(t *testing.T) {
	a := NewAliases()
	a.AddPath("first")
	a.AddValue(&types.AttributeValueMemberN{Value: "1"})
	a.Reset()

	require.Nil(t, a.Names())
	require.Nil(t, a.Values())
	require.Equal(t, "#n0", a.AddPath("x"))
	require.Equal(t, ":v0", a.AddValue(&types.AttributeValueMemberN{Value: "1"}))
}

func TestEmptyMapsAreAbsent(t *testing.T) {
	a := NewAliases()
	require.Nil(t, a.Names())
	require.Nil(t, a.Values())
}

func TestReservedNameStrategy(t *testing.T) {
	a := NewAliases(WithReservedNames(func(s string) bool { return s == "status" }))
	require.Equal(t, "#status", a.AddPath("status"))
	require.Equal(t, "#n0.#status", a.AddPath("meta.status"))
	require.Equal(t, map[string]string{"#status": "status", "#n0": "meta"}, a.Names())
}

func TestValidNameStrategy(t *testing.T) {
	a := NewAliases(WithValidNames(func(s string) bool { return s == "ok" }))
	require.Equal(t, "ok", a.AddPath("ok"))
	require.Equal(t, "ok.#n0", a.AddPath("ok.nope"))
	// Valid names are never recorded.
	require.Equal(t, map[string]string{"#n0": "nope"}, a.Names())
}

func TestOpaqueNames(t *testing.T) {
	a := NewAliases(WithOpaqueNames())
	require.Equal(t, "#n0", a.AddPath("looks.like.a[3].path"))
	require.Equal(t, map[string]string{"#n0": "looks.like.a[3].path"}, a.Names())
}

func TestCustomDelimiter(t *testing.T) {
	a := NewAliases(WithDelimiter("/"))
	require.Equal(t, "#n0.#n1", a.AddPath("a/b"))
	// The default delimiter is now an ordinary name character.
	require.Equal(t, "#n2", a.AddPath("a.b"))
}
