// Package notes selects the notes that have gathered enough ratings to be
// finalised and minted.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notemint/internal/domain"
	"notemint/internal/infra"
	"notemint/internal/sqlinline"
)

// RatingReader lists ratings created in [from, to).
type RatingReader interface {
	Ratings(ctx context.Context, from, to time.Time) ([]domain.Rating, error)
}

// EligibleFromRatings groups ratings by (post URL, creator) and keeps the
// notes holding at least min ratings, in order of their first rating.
func EligibleFromRatings(ratings []domain.Rating, min int) []domain.Note {
	type noteKey struct{ url, creator string }
	index := make(map[noteKey]int)
	var grouped []domain.Note
	for _, r := range ratings {
		k := noteKey{r.PostURL, r.Creator}
		i, ok := index[k]
		if !ok {
			i = len(grouped)
			index[k] = i
			grouped = append(grouped, domain.Note{PostURL: r.PostURL, Creator: r.Creator, Content: r.NoteContent})
		}
		grouped[i].Ratings = append(grouped[i].Ratings, r.Value)
	}

	eligible := make([]domain.Note, 0, len(grouped))
	for _, n := range grouped {
		if len(n.Ratings) >= min {
			eligible = append(eligible, n)
		}
	}
	return eligible
}

// SplitMintable separates notes that can be minted from those without stored
// content, which would only fail with empty_content once queued.
func SplitMintable(notes []domain.Note) (mintable, missingContent []domain.Note) {
	for _, n := range notes {
		if strings.TrimSpace(n.Content) == "" {
			missingContent = append(missingContent, n)
			continue
		}
		mintable = append(mintable, n)
	}
	return mintable, missingContent
}

// Service reads ratings and applies the eligibility threshold.
type Service struct {
	reader RatingReader
}

func NewService(reader RatingReader) *Service {
	return &Service{reader: reader}
}

// NotesToFinalise returns the notes whose ratings in [from, to) reach min.
func (s *Service) NotesToFinalise(ctx context.Context, from, to time.Time, min int) ([]domain.Note, error) {
	if !from.Before(to) {
		return nil, errors.New("notes: from must be before to")
	}
	ratings, err := s.reader.Ratings(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return EligibleFromRatings(ratings, min), nil
}

// PGRatingReader reads ratings from the note_ratings table.
type PGRatingReader struct {
	sql infra.SQLExecutor
}

func NewPGRatingReader(sql infra.SQLExecutor) *PGRatingReader {
	return &PGRatingReader{sql: sql}
}

func (r *PGRatingReader) Ratings(ctx context.Context, from, to time.Time) ([]domain.Rating, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectRatingsBetween, from, to)
	if err != nil {
		return nil, fmt.Errorf("notes: query ratings: %w", err)
	}
	defer rows.Close()

	var out []domain.Rating
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(&rating.PostURL, &rating.Creator, &rating.Value, &rating.CreatedAt, &rating.NoteContent); err != nil {
			return nil, fmt.Errorf("notes: scan rating: %w", err)
		}
		out = append(out, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notes: iterate ratings: %w", err)
	}
	return out, nil
}
