package expr

import "errors"

// ErrUsage marks malformed builder usage: an operand of an unsupported
// type, an IN with no candidate values, a set operand that cannot form
// a DynamoDB set. These surface synchronously from the build entry
// points; nothing is deferred to request time.
var ErrUsage = errors.New("invalid expression usage")
