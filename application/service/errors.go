// Package service implements the application services: ingestion,
// document lifecycle, and semantic search.
package service

import "errors"

var (
	// ErrClientClosed is returned when a service is used after Close.
	ErrClientClosed = errors.New("client is closed")

	// ErrNotPDF is returned when an uploaded file is not a PDF.
	ErrNotPDF = errors.New("only PDF files are accepted")
)
