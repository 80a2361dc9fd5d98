package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solhaug/ddbexpr/expr"
	"github.com/solhaug/ddbexpr/expr/reserved"
)

const queryDoc = `
key:
  - name: pk
    equal: "user#42"
  - name: sk
    beginsWith: "order#"
filter:
  - path: total
    greaterThan: 100
  - path: archived
    exists: false
`

const updateDoc = `
update:
  - path: loginCount
    increment: 1
  - path: profile
    fields:
      - path: displayName
        set: Ada
      - path: legacyField
        remove: true
  - path: tags
    addToSet: [alpha, beta]
  - path: drafts
    deleteIndexes: [0, 2]
`

func TestCompileQueryDocument(t *testing.T) {
	out, err := compileDocument([]byte(queryDoc))
	require.NoError(t, err)

	require.Equal(t, "#n0 = :v0 AND begins_with(#n1, :v1)", out.KeyConditionExpression)
	require.Equal(t, "#n2 > :v2 AND attribute_not_exists(#n3)", out.FilterExpression)
	require.Empty(t, out.UpdateExpression)
	require.Equal(t, map[string]string{
		"#n0": "pk", "#n1": "sk", "#n2": "total", "#n3": "archived",
	}, out.Names)
	require.Equal(t, "user#42", out.Values[":v0"])
	require.Equal(t, "order#", out.Values[":v1"])
}

func TestCompileUpdateDocument(t *testing.T) {
	out, err := compileDocument([]byte(updateDoc))
	require.NoError(t, err)

	require.Equal(t,
		"SET #n0 = #n0 + :v0, #n1.#n2 = :v1 REMOVE #n1.#n3, #n5[0], #n5[2] ADD #n4 :v2",
		out.UpdateExpression)
	require.Equal(t, map[string]string{
		"#n0": "loginCount",
		"#n1": "profile",
		"#n2": "displayName",
		"#n3": "legacyField",
		"#n4": "tags",
		"#n5": "drafts",
	}, out.Names)
}

func TestCompileDocumentWithNameStrategies(t *testing.T) {
	doc := []byte(`
filter:
  - path: status
    equal: open
  - path: userId
    equal: 42
`)
	out, err := compileDocument(doc,
		expr.WithReservedNames(reserved.IsReserved),
		expr.WithValidNames(reserved.IsValidName),
	)
	require.NoError(t, err)
	require.Equal(t, "#status = :v0 AND userId = :v1", out.FilterExpression)
	require.Equal(t, map[string]string{"#status": "status"}, out.Names)
}

func TestCompileDocumentRejectsEmptyClauses(t *testing.T) {
	_, err := compileDocument([]byte("filter:\n  - path: a\n"))
	require.Error(t, err)

	_, err = compileDocument([]byte("update:\n  - set: 1\n"))
	require.Error(t, err)

	_, err = compileDocument([]byte("key:\n  - name: pk\n"))
	require.Error(t, err)
}
