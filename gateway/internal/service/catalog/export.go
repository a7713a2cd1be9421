package catalog

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var compositionHeaders = []string{"id", "titulo", "compositor", "tipo", "anio", "url_partitura", "notas"}

// ExportCompositions writes every composition matching f as CSV, ignoring
// pagination.
func (s *Service) ExportCompositions(ctx context.Context, w io.Writer, f Filter) error {
	items, err := s.filterCompositions(ctx, f)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(compositionHeaders); err != nil {
		return errors.Wrap(err, "write csv headers")
	}
	for _, c := range items {
		year := ""
		if c.Year != nil {
			year = strconv.Itoa(*c.Year)
		}
		record := []string{c.ID.String(), c.Title, c.Composer, c.Type, year, c.ScoreURL, c.Notes}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}
