package store

import (
	"context"
	"database/sql"
	"fmt"

	"scholarship-workers/internal/models"

	"github.com/lib/pq"
)

const studentColumns = `
	u.id, u.role, u.full_name, u.email,
	p.bio, p.field_of_study, p.education_level, p.gpa, p.nationality,
	p.languages, p.preferred_countries, p.financial_need, p.academic_achievements,
	p.work_experience, p.date_of_birth`

// Student returns the user with the given id joined with their student profile.
// The role is returned as stored so callers can reject non-students.
func (s *Store) Student(ctx context.Context, id string) (*models.StudentProfile, error) {
	var st models.StudentProfile
	err := s.cached(ctx, "student", "student:profile:"+id, s.opts.SubjectTTL, &st, func() error {
		row := s.db.QueryRowContext(ctx, `
			SELECT`+studentColumns+`
			FROM users u
			LEFT JOIN student_profiles p ON p.user_id = u.id
			WHERE u.id = $1`, id)
		loaded, err := scanStudent(row)
		if err != nil {
			return notFound(err)
		}
		st = *loaded
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load student %s: %w", id, err)
	}
	return &st, nil
}

// Students returns every student with a profile, ordered by id. The pool is read in pages of
// PoolSize rows, keyed on the last id seen.
func (s *Store) Students(ctx context.Context) ([]*models.StudentProfile, error) {
	var (
		out   []*models.StudentProfile
		after string
	)
	for page := 1; ; page++ {
		batch, err := s.studentPage(ctx, after)
		if err != nil {
			return nil, fmt.Errorf("load students page %d: %w", page, err)
		}
		out = append(out, batch...)
		if len(batch) < s.opts.PoolSize {
			break
		}
		after = batch[len(batch)-1].ID
	}

	s.logger.Debug("student pool loaded", map[string]interface{}{
		"students": len(out),
		"pageSize": s.opts.PoolSize,
	})
	return out, nil
}

func (s *Store) studentPage(ctx context.Context, after string) ([]*models.StudentProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT`+studentColumns+`
		FROM users u
		JOIN student_profiles p ON p.user_id = u.id
		WHERE u.role = $1 AND u.id::text > $2
		ORDER BY u.id::text
		LIMIT $3`, models.RoleStudent, after, s.opts.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	out := make([]*models.StudentProfile, 0, s.opts.PoolSize)
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStudent(row scanner) (*models.StudentProfile, error) {
	var (
		st                       models.StudentProfile
		fullName, email, bio     sql.NullString
		field, level, nation     sql.NullString
		achievements, experience sql.NullString
		gpa                      sql.NullFloat64
		need                     sql.NullInt64
		dob                      sql.NullTime
		languages, countries     pq.StringArray
	)
	if err := row.Scan(
		&st.ID, &st.Role, &fullName, &email,
		&bio, &field, &level, &gpa, &nation,
		&languages, &countries, &need, &achievements,
		&experience, &dob,
	); err != nil {
		return nil, err
	}

	st.FullName = nullString(fullName)
	st.Email = nullString(email)
	st.Bio = nullString(bio)
	st.FieldOfStudy = nullString(field)
	st.EducationLevel = models.EducationLevel(nullString(level))
	st.GPA = nullFloat(gpa)
	st.Nationality = nullString(nation)
	st.Languages = []string(languages)
	st.PreferredCountries = []string(countries)
	st.FinancialNeed = nullInt(need)
	st.AcademicAchievement = nullString(achievements)
	st.WorkExperience = nullString(experience)
	if dob.Valid {
		t := dob.Time
		st.DateOfBirth = &t
	}
	return &st, nil
}
