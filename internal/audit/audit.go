// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audit persists the verification trail and session summaries in a
// SQLite database so past research runs can be inspected after the fact.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/lexengine/pkg/types"
)

// Recorder receives verification results as the gate produces them.
type Recorder interface {
	Record(ctx context.Context, result types.VerificationResult) error
}

// Nop discards everything. Used when auditing is disabled.
type Nop struct{}

func (Nop) Record(ctx context.Context, result types.VerificationResult) error { return nil }

// WriterSink streams verification results as JSON lines, one per checkpoint.
// Useful for piping the trail to a log file without a database.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink wraps w as a Recorder.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Record(ctx context.Context, result types.VerificationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding verification result: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "%s\n", data); err != nil {
		return fmt.Errorf("writing verification result: %w", err)
	}
	return nil
}
