// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// The error codes mirror the failure taxonomy of the initialization
// pipeline: VALIDATION errors abort before any mutation, ENVIRONMENT
// conditions are downgraded to warnings, MUTATION failures abort the run,
// and INTERNAL marks unexpected failures caught by the global handler.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeMutation,
//	    "failed to load kernel profile",
//	    cause,
//	    map[string]interface{}{
//	        "command": "sysctl",
//	        "file": path,
//	    },
//	)
package errors
