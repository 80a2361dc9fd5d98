// Package expr compiles structured descriptions of conditions, key
// lookups and mutations into DynamoDB's expression mini-language.
//
// Every attribute name and value referenced by a rendered expression
// goes through an alias table: names become #n<seq> placeholders
// (deduplicated), values become :v<seq> placeholders (never
// deduplicated). The rendered strings plus the alias maps form the
// ExpressionAttributeNames/ExpressionAttributeValues wire fields.
package expr

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Aliases is the alias table shared by every builder participating in
// one expression build. It is mutable and must have a single writer;
// independent builds running concurrently each need their own instance.
type Aliases struct {
	names    map[string]string
	nameSeq  int
	values   map[string]types.AttributeValue
	valueSeq int

	isReserved func(string) bool
	isValid    func(string) bool

	delimiter string
	opaque    bool
}

// AliasOption configures an alias table at construction time.
type AliasOption func(*Aliases)

// WithReservedNames installs the predicate deciding whether a name must
// be aliased as the literal #<name> instead of a counter placeholder.
func WithReservedNames(pred func(string) bool) AliasOption {
	return func(a *Aliases) { a.isReserved = pred }
}

// WithValidNames installs the predicate deciding whether a name may be
// emitted bare, with no alias recorded at all.
func WithValidNames(pred func(string) bool) AliasOption {
	return func(a *Aliases) { a.isValid = pred }
}

// WithDelimiter overrides the path segment delimiter. Default is ".".
func WithDelimiter(d string) AliasOption {
	return func(a *Aliases) { a.delimiter = d }
}

// WithOpaqueNames disables path splitting: AddPath aliases its whole
// argument as a single attribute name, dots and brackets included.
func WithOpaqueNames() AliasOption {
	return func(a *Aliases) { a.opaque = true }
}

func NewAliases(opts ...AliasOption) *Aliases {
	a := &Aliases{
		names:      make(map[string]string),
		values:     make(map[string]types.AttributeValue),
		isReserved: func(string) bool { return false },
		isValid:    func(string) bool { return false },
		delimiter:  ".",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddPath registers every name segment of a document path and returns
// the path rewritten in terms of aliases. Trailing [idx] groups on a
// segment are kept verbatim; only the name in front of them is aliased.
//
//	AddPath("path.l1.l2")    -> "#n0.#n1.#n2"
//	AddPath("path[3][2][1]") -> "#n0[3][2][1]"
func (a *Aliases) AddPath(path string) string {
	if a.opaque {
		return a.addName(path)
	}
	segments := strings.Split(path, a.delimiter)
	aliased := make([]string, 0, len(segments))
	for _, seg := range segments {
		name, indexes := splitIndexes(seg)
		aliased = append(aliased, a.addName(name)+indexes)
	}
	return strings.Join(aliased, ".")
}

// splitIndexes strips the trailing [idx] groups off a path segment.
func splitIndexes(segment string) (name, indexes string) {
	i := strings.Index(segment, "[")
	if i < 0 || !strings.HasSuffix(segment, "]") {
		return segment, ""
	}
	return segment[:i], segment[i:]
}

// addName returns the alias for one attribute name. Reserved names get
// the literal #<name> form, valid names are returned bare and left
// unrecorded, every other name is deduplicated against the table and
// allocated a #n<seq> placeholder on first sight.
func (a *Aliases) addName(name string) string {
	if a.isReserved(name) {
		alias := "#" + name
		a.names[alias] = name
		return alias
	}
	if a.isValid(name) {
		return name
	}
	for alias, existing := range a.names {
		if existing == name {
			return alias
		}
	}
	alias := fmt.Sprintf("#n%d", a.nameSeq)
	a.nameSeq++
	a.names[alias] = name
	return alias
}

// AddValue stores v under a fresh :v<seq> alias. Equal values are
// never deduplicated; every call allocates the next placeholder.
func (a *Aliases) AddValue(v types.AttributeValue) string {
	alias := fmt.Sprintf(":v%d", a.valueSeq)
	a.valueSeq++
	a.values[alias] = v
	return alias
}

// Names returns the accumulated alias to name map, or nil when no name
// has been aliased so callers can omit the wire field entirely.
func (a *Aliases) Names() map[string]string {
	if len(a.names) == 0 {
		return nil
	}
	return a.names
}

// Values returns the accumulated alias to value map, or nil when no
// value has been registered.
func (a *Aliases) Values() map[string]types.AttributeValue {
	if len(a.values) == 0 {
		return nil
	}
	return a.values
}

// Reset clears both maps and zeroes both counters, so a reused table
// reproduces #n0 and :v0 deterministically.
func (a *Aliases) Reset() {
	a.names = make(map[string]string)
	a.values = make(map[string]types.AttributeValue)
	a.nameSeq = 0
	a.valueSeq = 0
}
