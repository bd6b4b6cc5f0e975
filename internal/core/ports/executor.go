// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/rtcdeps/internal/core/domain"
)

// Executor defines the interface for running a task's steps.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the steps strictly in order, stopping at the first failure.
	//
	// Process output is copied to stdout and stderr as it is produced.
	// Implementations may log the output instead when both are nil.
	// A step that exits non-zero yields an error wrapping domain.ErrProcessFailure.
	Execute(ctx context.Context, steps []domain.Step, stdout, stderr io.Writer) error
}
