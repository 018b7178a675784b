// Package errors provides the classified error primitives used across notionsite.
//
// Every error that crosses a package boundary (configuration loading, the
// Notion search client, the search cache, HTTP handlers) is expressed as a
// ClassifiedError so that the CLI and HTTP layers can pick exit codes, status
// codes and log levels without string matching.
//
// Key features:
//   - ErrorCategory: broad classification (config, validation, network, storage, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: whether a caller may retry
//   - ErrorBuilder: fluent construction with structured context
//   - HTTP and CLI adapters for presentation
//
// Example usage:
//
//	err := errors.ConfigError("invalid pageUrlOverrides page id").
//		WithContext("label", "pageUrlOverrides").
//		WithContext("page_id", raw).
//		Build()
package errors
