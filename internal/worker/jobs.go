package worker

import (
	"context"
	"time"
)

// CatalogReloader replaces the live card catalog from its source.
type CatalogReloader interface {
	LoadCatalog(ctx context.Context) error
}

// LoadCatalogJob re-reads the card catalog in the background. A failed
// reload leaves the previous catalog in place.
type LoadCatalogJob struct {
	Study   CatalogReloader
	Timeout time.Duration
}

func (j *LoadCatalogJob) Name() string { return "load_catalog" }

func (j *LoadCatalogJob) Run(ctx context.Context) error {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}
	return j.Study.LoadCatalog(ctx)
}
