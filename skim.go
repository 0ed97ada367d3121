package sacamantecas

import (
	"context"
	"time"
)

// Skim is the recorded outcome of processing one URI.
type Skim struct {
	ID          string          `json:"id"`
	URI         string          `json:"uri"`
	Profile     string          `json:"profile"`
	ContentHash string          `json:"contentHash"`
	Entries     []MetadataEntry `json:"entries"`
	Warnings    []Warning       `json:"warnings"`
	ErrorCode   string          `json:"errorCode"`
	Error       string          `json:"error"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Validate returns an error if the skim contains invalid fields.
func (s *Skim) Validate() error {
	if s.URI == "" {
		return Errorf(EINVALID, "skim URI required")
	}
	return nil
}

// Succeeded reports whether the skim produced a result without error.
func (s *Skim) Succeeded() bool {
	return s.ErrorCode == ""
}

// SkimService represents a service for recording skims.
type SkimService interface {
	// CreateSkim records a new skim.
	CreateSkim(ctx context.Context, skim *Skim) error

	// FindSkimByID retrieves a skim by ID.
	// Returns ENOTFOUND if the skim does not exist.
	FindSkimByID(ctx context.Context, id string) (*Skim, error)

	// FindSkims retrieves skims matching the filter, newest first.
	FindSkims(ctx context.Context, filter SkimFilter) ([]*Skim, error)

	// SkimmedURIs returns every URI that has at least one successful skim.
	SkimmedURIs(ctx context.Context) ([]string, error)
}

// SkimFilter represents a filter for FindSkims.
type SkimFilter struct {
	URI       *string `json:"uri"`
	Profile   *string `json:"profile"`
	Succeeded *bool   `json:"succeeded"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
