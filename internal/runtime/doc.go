// Package runtime implements the dialog transition engine: a stateless function from
// (session, input, client-held state) to (next state, reply, context).
package runtime
