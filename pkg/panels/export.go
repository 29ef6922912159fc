package panels

import (
	"context"
	"io"

	"github.com/rubiojr/letterpress/pkg/search"
)

// Exporter downloads the letters matching the filters as plain text.
type Exporter struct {
	archive  Archive
	criteria search.CriteriaSource
}

func NewExporter(archive Archive, criteria search.CriteriaSource) *Exporter {
	return &Exporter{archive: archive, criteria: criteria}
}

func (e *Exporter) Export(ctx context.Context, w io.Writer) (int64, error) {
	n, err := e.archive.Export(ctx, e.criteria.Get(), w)
	if err != nil {
		return n, err
	}
	logger.Debugf("exported %d bytes", n)
	return n, nil
}
