// Package provider implements embedding providers: a local ONNX model via
// hugot and remote OpenAI-compatible endpoints.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupportedOperation indicates the provider does not support the
// requested operation.
var ErrUnsupportedOperation = errors.New("operation not supported by provider")

// Embedder generates vector embeddings for batches of text.
type Embedder interface {
	// Embed generates one embedding per input text, in input order.
	// The number of texts must not exceed Capacity().
	Embed(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error)

	// Capacity returns the maximum number of texts per Embed call.
	Capacity() int

	// Close releases provider resources.
	Close() error
}

// EmbeddingRequest holds the texts to embed.
type EmbeddingRequest struct {
	texts []string
}

// NewEmbeddingRequest creates an embedding request.
func NewEmbeddingRequest(texts []string) EmbeddingRequest {
	ts := make([]string, len(texts))
	copy(ts, texts)
	return EmbeddingRequest{texts: ts}
}

// Texts returns the texts to embed.
func (r EmbeddingRequest) Texts() []string {
	ts := make([]string, len(r.texts))
	copy(ts, r.texts)
	return ts
}

// Usage reports token consumption for a provider call.
type Usage struct {
	promptTokens     int
	completionTokens int
	totalTokens      int
}

// NewUsage creates a usage report.
func NewUsage(prompt, completion, total int) Usage {
	return Usage{promptTokens: prompt, completionTokens: completion, totalTokens: total}
}

// PromptTokens returns the prompt token count.
func (u Usage) PromptTokens() int { return u.promptTokens }

// CompletionTokens returns the completion token count.
func (u Usage) CompletionTokens() int { return u.completionTokens }

// TotalTokens returns the total token count.
func (u Usage) TotalTokens() int { return u.totalTokens }

// EmbeddingResponse holds the generated embeddings, one per input text.
type EmbeddingResponse struct {
	embeddings [][]float64
	usage      Usage
}

// NewEmbeddingResponse creates an embedding response.
func NewEmbeddingResponse(embeddings [][]float64, usage Usage) EmbeddingResponse {
	es := make([][]float64, len(embeddings))
	copy(es, embeddings)
	return EmbeddingResponse{embeddings: es, usage: usage}
}

// Embeddings returns the embedding vectors in input order.
func (r EmbeddingResponse) Embeddings() [][]float64 {
	es := make([][]float64, len(r.embeddings))
	copy(es, r.embeddings)
	return es
}

// Usage returns the token usage for the call.
func (r EmbeddingResponse) Usage() Usage { return r.usage }

// ProviderError wraps a provider failure with operation context.
type ProviderError struct {
	operation  string
	statusCode int
	message    string
	cause      error
}

// NewProviderError creates a provider error.
func NewProviderError(operation string, statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{
		operation:  operation,
		statusCode: statusCode,
		message:    message,
		cause:      cause,
	}
}

// Operation returns the failed operation name.
func (e *ProviderError) Operation() string { return e.operation }

// StatusCode returns the HTTP status code, if any.
func (e *ProviderError) StatusCode() int { return e.statusCode }

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.statusCode > 0 {
		return fmt.Sprintf("provider %s failed (status %d): %s", e.operation, e.statusCode, e.message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.operation, e.message)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error { return e.cause }
