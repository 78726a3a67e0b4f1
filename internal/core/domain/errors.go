package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedDocument indicates a transcript that does not follow
	// the expected header grammar. The whole file is rejected; nothing
	// from it is indexed.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrCourseNotFound indicates a course filter that matched nothing
	// in the catalog. Distinct from a search that ran and returned no
	// content hits.
	ErrCourseNotFound = errors.New("course not found")

	// ErrIndexUnavailable indicates the vector index or its backing
	// store could not serve the operation.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrUnknownTool indicates the model requested a tool that is not
	// registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrToolExecutionFailed indicates a registered tool failed while
	// executing. The orchestrator converts this to a textual tool
	// result rather than aborting the query.
	ErrToolExecutionFailed = errors.New("tool execution failed")

	// ErrMalformedModelResponse indicates the model returned a response
	// the orchestrator cannot use: no content, or no text block where
	// one was required.
	ErrMalformedModelResponse = errors.New("malformed model response")

	// ErrLLMUnavailable indicates the LLM service is not configured or
	// not reachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or not reachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the provider API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
