// Package validate provides the pure input predicates of the pipeline:
// hostname format and password strength.
//
// The error-returning forms name the violated rule for operator-facing
// retry prompts; the Is* forms expose the plain boolean contract. Neither
// form has side effects, and password errors never include the candidate
// secret.
package validate
