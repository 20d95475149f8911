package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"scholarship-workers/internal/models"

	"github.com/lib/pq"
)

// ScholarshipQuery selects the open scholarships to score.
type ScholarshipQuery struct {
	// TargetID restricts the pool to one scholarship or to the scholarships of one institution.
	TargetID string
	Now      time.Time
	Limit    int
}

// ScholarshipSource is implemented by the Postgres store and the search index.
type ScholarshipSource interface {
	ActiveScholarships(ctx context.Context, q ScholarshipQuery) ([]*models.Scholarship, error)
}

// ActiveScholarships returns active scholarships whose deadline is after q.Now.
func (s *Store) ActiveScholarships(ctx context.Context, q ScholarshipQuery) ([]*models.Scholarship, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.opts.PoolSize
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, amount, currency, study_level, study_fields,
			target_countries, target_nationalities, min_gpa, min_age, max_age,
			application_deadline, eligibility_criteria, required_languages, scholarship_type,
			renewable, featured, institution_id, active
		FROM scholarships
		WHERE active = true
			AND application_deadline > $1
			AND ($2::text = '' OR id::text = $2 OR institution_id::text = $2)
		ORDER BY application_deadline ASC, id ASC
		LIMIT $3`, q.Now, q.TargetID, limit)
	if err != nil {
		return nil, fmt.Errorf("query scholarships: %w", err)
	}
	defer rows.Close()

	var out []*models.Scholarship
	for rows.Next() {
		sc, err := scanScholarship(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scholarship: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scholarships: %w", err)
	}
	return out, nil
}

func scanScholarship(row scanner) (*models.Scholarship, error) {
	var (
		sc                                     models.Scholarship
		description, currency, level, criteria sql.NullString
		scholarshipType, institutionID         sql.NullString
		amount, minGPA                         sql.NullFloat64
		minAge, maxAge                         sql.NullInt64
		fields, countries, nationalities       pq.StringArray
		languages                              pq.StringArray
	)
	if err := row.Scan(
		&sc.ID, &sc.Title, &description, &amount, &currency, &level, &fields,
		&countries, &nationalities, &minGPA, &minAge, &maxAge,
		&sc.Deadline, &criteria, &languages, &scholarshipType,
		&sc.Renewable, &sc.Featured, &institutionID, &sc.Active,
	); err != nil {
		return nil, err
	}

	sc.Description = nullString(description)
	sc.Amount = nullFloat(amount)
	sc.Currency = nullString(currency)
	sc.StudyLevel = models.EducationLevel(nullString(level))
	sc.StudyFields = []string(fields)
	sc.TargetCountries = []string(countries)
	sc.TargetNationalities = []string(nationalities)
	sc.MinGPA = nullFloat(minGPA)
	sc.MinAge = nullInt(minAge)
	sc.MaxAge = nullInt(maxAge)
	sc.EligibilityCriteria = nullString(criteria)
	sc.RequiredLanguages = []string(languages)
	sc.ScholarshipType = nullString(scholarshipType)
	sc.InstitutionID = nullString(institutionID)
	return &sc, nil
}
