// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinemadb/internal/platform/database/schema"
	"github.com/taibuivan/cinemadb/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	ratingCols = schema.Rating
	movieCols  = schema.Movie
)

var aggregateQuery = fmt.Sprintf(
	`SELECT ROUND(AVG(%s)::numeric, 1)::real FROM %s WHERE %s = $1`,
	ratingCols.Rating, ratingCols.Table, ratingCols.MovieID,
)

func (repository *PostgresRepository) GetAggregateRating(context context.Context, movieID uuid.UUID) (*float32, error) {
	var aggregate *float32
	if err := repository.db.QueryRow(context, aggregateQuery, movieID).Scan(&aggregate); err != nil {
		return nil, dberr.Wrap(err, "get_aggregate_rating")
	}
	return aggregate, nil
}

func (repository *PostgresRepository) GetRatingPair(context context.Context, movieID, userID uuid.UUID) (Pair, error) {
	query := fmt.Sprintf(`
		SELECT ROUND(AVG(%[1]s)::numeric, 1)::real,
		       (SELECT %[1]s FROM %[2]s WHERE %[3]s = $1 AND %[4]s = $2)
		FROM %[2]s
		WHERE %[3]s = $1`,
		ratingCols.Rating, ratingCols.Table, ratingCols.MovieID, ratingCols.UserID,
	)

	var pair Pair
	if err := repository.db.QueryRow(context, query, movieID, userID).Scan(&pair.Aggregate, &pair.UserRating); err != nil {
		return Pair{}, dberr.Wrap(err, "get_rating_pair")
	}
	return pair, nil
}

// Rate inserts or replaces the user's rating. Nothing is written when the movie is absent.
func (repository *PostgresRepository) Rate(context context.Context, movieID, userID uuid.UUID, value int) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s)
		SELECT $1, $2, $3 WHERE EXISTS (SELECT 1 FROM %[5]s WHERE %[6]s = $2)
		ON CONFLICT (%[2]s, %[3]s) DO UPDATE SET %[4]s = EXCLUDED.%[4]s`,
		ratingCols.Table, ratingCols.UserID, ratingCols.MovieID, ratingCols.Rating,
		movieCols.Table, movieCols.ID,
	)

	tag, err := repository.db.Exec(context, query, userID, movieID, value)
	if dberr.IsForeignKeyViolation(err) {
		// The movie was deleted between the EXISTS check and the insert.
		return false, nil
	}
	if err != nil {
		return false, dberr.Wrap(err, "rate_movie")
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) DeleteRating(context context.Context, movieID, userID uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		ratingCols.Table, ratingCols.MovieID, ratingCols.UserID,
	)

	tag, err := repository.db.Exec(context, query, movieID, userID)
	if err != nil {
		return false, dberr.Wrap(err, "delete_rating")
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) ListForUser(context context.Context, userID uuid.UUID) ([]UserRating, error) {
	query := fmt.Sprintf(`
		SELECT r.%[1]s, m.%[2]s, r.%[3]s
		FROM %[4]s r
		JOIN %[5]s m ON m.%[6]s = r.%[1]s
		WHERE r.%[7]s = $1
		ORDER BY m.%[2]s`,
		ratingCols.MovieID, movieCols.Slug, ratingCols.Rating,
		ratingCols.Table, movieCols.Table, movieCols.ID, ratingCols.UserID,
	)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_user_ratings")
	}
	defer rows.Close()

	ratings := []UserRating{}
	for rows.Next() {
		var item UserRating
		if err := rows.Scan(&item.MovieID, &item.Slug, &item.Rating); err != nil {
			return nil, dberr.Wrap(err, "scan_user_rating")
		}
		ratings = append(ratings, item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_user_ratings")
	}
	return ratings, nil
}
