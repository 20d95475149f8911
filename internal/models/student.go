// internal/models/student.go
package models

import "time"

type EducationLevel string

const (
	LevelHighSchool EducationLevel = "High School"
	LevelBachelor   EducationLevel = "Bachelor"
	LevelMaster     EducationLevel = "Master"
	LevelPhD        EducationLevel = "PhD"
	LevelPostdoc    EducationLevel = "Postdoc"
	LevelAll        EducationLevel = "All"
	LevelAny        EducationLevel = "Any"
)

const RoleStudent = "student"

// StudentProfile is a read-only view of a student. Nil pointers and empty strings mean "not provided".
type StudentProfile struct {
	ID                  string         `json:"id"`
	Role                string         `json:"role"`
	FullName            string         `json:"fullName,omitempty"`
	Email               string         `json:"email,omitempty"`
	Bio                 string         `json:"bio,omitempty"`
	FieldOfStudy        string         `json:"fieldOfStudy,omitempty"`
	EducationLevel      EducationLevel `json:"currentEducationLevel,omitempty"`
	GPA                 *float64       `json:"gpa,omitempty"`
	Nationality         string         `json:"nationality,omitempty"`
	Languages           []string       `json:"languages,omitempty"`
	PreferredCountries  []string       `json:"preferredCountries,omitempty"`
	FinancialNeed       *int           `json:"financialNeedLevel,omitempty"`
	AcademicAchievement string         `json:"academicAchievements,omitempty"`
	WorkExperience      string         `json:"workExperience,omitempty"`
	DateOfBirth         *time.Time     `json:"dateOfBirth,omitempty"`
}

// AgeAt returns whole years of age at now, or nil when the date of birth is unknown.
func (s *StudentProfile) AgeAt(now time.Time) *int {
	if s.DateOfBirth == nil {
		return nil
	}
	dob := s.DateOfBirth.UTC()
	now = now.UTC()
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return &age
}
