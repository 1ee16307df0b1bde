package storage

import (
	"errors"

	"loan-dashboard/models"
)

// PredictionWriter is the interface any prediction sink must satisfy.
type PredictionWriter interface {
	Write(records []models.StoredPrediction) error
	Close() error
}

// PredictionReader lists previously stored predictions, newest first.
type PredictionReader interface {
	FetchRecent(limit int) ([]models.StoredPrediction, error)
}

// MultiWriter fans every write out to several sinks. A failing sink does
// not stop the others; their errors are joined.
type MultiWriter []PredictionWriter

func (m MultiWriter) Write(records []models.StoredPrediction) error {
	var errs []error
	for _, w := range m {
		if err := w.Write(records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiWriter) Close() error {
	var errs []error
	for _, w := range m {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
