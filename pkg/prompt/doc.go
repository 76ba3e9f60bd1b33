// Package prompt implements bounded interactive acquisition of validated
// operator input.
//
// A Prompter wraps a validator predicate in a prompt-validate-retry loop
// with a fixed attempt budget; exhausting the budget is a fatal
// validation error raised before any system mutation. Secret entry uses a
// no-echo terminal read (falling back to plain reads for pipes), requires
// a matching confirmation, and wipes every rejected buffer.
package prompt
