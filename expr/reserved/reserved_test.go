package reserved

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsReserved(t *testing.T) {
	require.True(t, IsReserved("SET"))
	require.True(t, IsReserved("set"))
	require.True(t, IsReserved("Between"))
	require.True(t, IsReserved("ttl"))
	require.False(t, IsReserved("userId"))
	require.False(t, IsReserved(""))
}

func TestIsValidName(t *testing.T) {
	testCases := []struct {
		name  string
		valid bool
	}{
		{"userId", true},
		{"a", true},
		{"snake_case_2", true},
		{"", false},
		{"2fast", false},
		{"has-dash", false},
		{"has.dot", false},
		{"status", false}, // reserved
		{"_leading", false},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.valid, IsValidName(tc.name), tc.name)
	}
}
