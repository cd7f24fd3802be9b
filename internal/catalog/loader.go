package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vytor/phrasecards/internal/logger"
)

type Loader struct {
	source Source
}

func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Load fetches and parses the catalog. Any error means the catalog is
// unavailable; skipped rows are not errors.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog").WithField("source", l.source.String())
	start := time.Now()

	text, err := l.source.Fetch(ctx)
	if err != nil {
		log.Error("failed to fetch catalog: %v", err)
		return Result{}, err
	}

	res, err := Parse(text)
	if err != nil {
		log.Error("failed to parse catalog: %v", err)
		return Result{}, errors.Wrap(err, "parse catalog")
	}

	if res.HeaderMismatch {
		log.Warn("unexpected header %q, expected %q; reading rows by position", strings.Join(res.Header, ","), strings.Join(Columns, ","))
	}
	for _, s := range res.Skipped {
		log.Warn("skipped line %d: %s", s.Line, s.Reason)
	}
	log.Info("loaded %d cards (%d skipped) in %v", len(res.Cards), len(res.Skipped), time.Since(start))
	return res, nil
}

func (l *Loader) String() string {
	return l.source.String()
}
