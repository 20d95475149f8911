package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"scholarship-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// SearchScholarships reads the scholarship pool from an Elasticsearch index.
type SearchScholarships struct {
	client   *elasticsearch.Client
	index    string
	poolSize int
}

// NewSearchScholarships caps unbounded searches at poolSize hits, the same cap the
// Postgres source applies. A non-positive poolSize falls back to 500.
func NewSearchScholarships(client *elasticsearch.Client, index string, poolSize int) *SearchScholarships {
	if poolSize <= 0 {
		poolSize = 500
	}
	return &SearchScholarships{client: client, index: index, poolSize: poolSize}
}

type scholarshipDoc struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Amount              *float64  `json:"amount"`
	Currency            string    `json:"currency"`
	StudyLevel          string    `json:"study_level"`
	StudyFields         []string  `json:"study_fields"`
	TargetCountries     []string  `json:"target_countries"`
	TargetNationalities []string  `json:"target_nationalities"`
	MinGPA              *float64  `json:"min_gpa"`
	MinAge              *int      `json:"min_age"`
	MaxAge              *int      `json:"max_age"`
	Deadline            time.Time `json:"application_deadline"`
	EligibilityCriteria string    `json:"eligibility_criteria"`
	RequiredLanguages   []string  `json:"required_languages"`
	ScholarshipType     string    `json:"scholarship_type"`
	Renewable           bool      `json:"renewable"`
	Featured            bool      `json:"featured"`
	InstitutionID       string    `json:"institution_id"`
	Active              bool      `json:"active"`
}

func (d scholarshipDoc) model() *models.Scholarship {
	return &models.Scholarship{
		ID:                  d.ID,
		Title:               d.Title,
		Description:         d.Description,
		Amount:              d.Amount,
		Currency:            d.Currency,
		StudyLevel:          models.EducationLevel(d.StudyLevel),
		StudyFields:         d.StudyFields,
		TargetCountries:     d.TargetCountries,
		TargetNationalities: d.TargetNationalities,
		MinGPA:              d.MinGPA,
		MinAge:              d.MinAge,
		MaxAge:              d.MaxAge,
		Deadline:            d.Deadline,
		EligibilityCriteria: d.EligibilityCriteria,
		RequiredLanguages:   d.RequiredLanguages,
		ScholarshipType:     d.ScholarshipType,
		Renewable:           d.Renewable,
		Featured:            d.Featured,
		InstitutionID:       d.InstitutionID,
		Active:              d.Active,
	}
}

// BuildScholarshipQuery returns the search body for q.
func BuildScholarshipQuery(q ScholarshipQuery) map[string]interface{} {
	filter := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"active": true}},
		map[string]interface{}{"range": map[string]interface{}{
			"application_deadline": map[string]interface{}{"gt": q.Now.UTC().Format(time.RFC3339)},
		}},
	}
	if q.TargetID != "" {
		filter = append(filter, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"id": q.TargetID}},
					map[string]interface{}{"term": map[string]interface{}{"institution_id": q.TargetID}},
				},
				"minimum_should_match": 1,
			},
		})
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filter},
		},
		"sort": []interface{}{
			map[string]interface{}{"application_deadline": "asc"},
			map[string]interface{}{"id": "asc"},
		},
	}
}

func (s *SearchScholarships) ActiveScholarships(ctx context.Context, q ScholarshipQuery) ([]*models.Scholarship, error) {
	body, err := json.Marshal(BuildScholarshipQuery(q))
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	size := q.Limit
	if size <= 0 {
		size = s.poolSize
	}
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search scholarships: %w: %w", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search scholarships: %w: %s", ErrSearchFailed, res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source scholarshipDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w: %w", ErrSearchFailed, err)
	}

	out := make([]*models.Scholarship, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		out = append(out, h.Source.model())
	}
	return out, nil
}
