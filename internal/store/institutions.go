package store

import (
	"context"
	"database/sql"
	"fmt"

	"scholarship-workers/internal/models"

	"github.com/lib/pq"
)

// Institution returns one institution, served from the cache for PrestigeTTL.
// It satisfies the prestige lookup of the scholarship direction.
func (s *Store) Institution(ctx context.Context, id string) (*models.Institution, error) {
	var inst models.Institution
	err := s.cached(ctx, "institution", "institution:profile:"+id, s.opts.PrestigeTTL, &inst, func() error {
		var (
			kind, country              sql.NullString
			focus                      pq.StringArray
			ranking, founded, students sql.NullInt64
			budget                     sql.NullFloat64
		)
		err := s.db.QueryRowContext(ctx, `
			SELECT id, name, institution_type, country, focus_areas, global_ranking,
				founded_year, total_students, annual_scholarship_budget
			FROM institutions
			WHERE id = $1`, id).
			Scan(&inst.ID, &inst.Name, &kind, &country, &focus, &ranking, &founded, &students, &budget)
		if err != nil {
			return notFound(err)
		}
		inst.Type = nullString(kind)
		inst.Country = nullString(country)
		inst.FocusAreas = []string(focus)
		inst.GlobalRanking = nullInt(ranking)
		inst.FoundedYear = nullInt(founded)
		inst.TotalStudents = nullInt(students)
		inst.AnnualScholarshipBudget = nullFloat(budget)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load institution %s: %w", id, err)
	}
	return &inst, nil
}
