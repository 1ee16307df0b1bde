// Package upload implements the client-side file gate: one file at a time,
// checked for extension and size before it is handed to the caller.
package upload

import (
	"context"
	"fmt"
	"strings"

	"loan-dashboard/models"
	"loan-dashboard/utils"
)

const (
	DefaultAccept    = ".csv"
	DefaultMaxSizeMB = 10

	bytesPerMB = 1024 * 1024
)

// Source records how the file was picked.
type Source string

const (
	SourceDrop   Source = "drop"
	SourcePicker Source = "picker"
)

// RejectError is a user-facing rejection; no request was sent.
type RejectError struct {
	Name    string
	Message string
}

func (e *RejectError) Error() string { return e.Message }

// FileFunc receives an accepted upload.
type FileFunc func(ctx context.Context, file models.Upload) error

// Gate validates a selected file and forwards it to OnFile. The gate itself
// never talks to the prediction service.
type Gate struct {
	Accept    string
	MaxSizeMB int
	OnFile    FileFunc

	logger *utils.Logger
}

// NewGate returns a gate for CSV files with the given ceiling. A ceiling of
// zero or less means the 10 MB default.
func NewGate(maxSizeMB int, onFile FileFunc, logger *utils.Logger) *Gate {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	return &Gate{
		Accept:    DefaultAccept,
		MaxSizeMB: maxSizeMB,
		OnFile:    onFile,
		logger:    logger.With("upload"),
	}
}

// Check applies the extension and size rules without forwarding.
func (g *Gate) Check(file models.Upload) error {
	if !strings.HasSuffix(strings.ToLower(file.Name), strings.ToLower(g.Accept)) {
		return &RejectError{Name: file.Name, Message: "Please upload a CSV file"}
	}

	sizeMB := float64(file.Size) / bytesPerMB
	if sizeMB > float64(g.MaxSizeMB) {
		return &RejectError{
			Name:    file.Name,
			Message: fmt.Sprintf("File size exceeds the maximum limit of %dMB", g.MaxSizeMB),
		}
	}
	return nil
}

// Select is the single entry point for both drag-drop and the file picker.
func (g *Gate) Select(ctx context.Context, source Source, file models.Upload) error {
	if err := g.Check(file); err != nil {
		g.logger.Warn("Rejected %s via %s: %v", file.Name, source, err)
		return err
	}

	g.logger.Info("Accepted %s via %s (%d bytes)", file.Name, source, file.Size)
	return g.OnFile(ctx, file)
}

// CeilingBytes is the largest accepted size in bytes.
func (g *Gate) CeilingBytes() int64 {
	return int64(g.MaxSizeMB) * bytesPerMB
}
