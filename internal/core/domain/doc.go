// Package domain contains the core business types for the answering
// pipeline: documents, chunks, embedding records and answers.
// It has no dependencies on adapters or infrastructure.
package domain
