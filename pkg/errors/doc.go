// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTimeout,
//	    "failed to fetch server class catalog",
//	    ctx.Err(),
//	    map[string]interface{}{
//	        "endpoint": "/apis/ngpc.rxt.io/v1/serverclasses",
//	        "region": region,
//	    },
//	)
package errors
