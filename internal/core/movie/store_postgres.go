// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinemadb/internal/platform/apperr"
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
	movieCols  = schema.Movie
	genreCols  = schema.Genre
	ratingCols = schema.Rating
)

// selectRated reads a movie with its ordered genres, rounded average rating,
// and the rating of the user bound to $1 (NULL matches nobody).
var selectRated = fmt.Sprintf(`
	SELECT m.%[1]s, m.%[2]s, m.%[3]s,
	       ARRAY(SELECT g.%[5]s FROM %[4]s g WHERE g.%[6]s = m.%[1]s ORDER BY g.%[7]s) AS genres,
	       (SELECT ROUND(AVG(r.%[9]s)::numeric, 1)::real FROM %[8]s r WHERE r.%[10]s = m.%[1]s) AS rating,
	       (SELECT r.%[9]s FROM %[8]s r WHERE r.%[10]s = m.%[1]s AND r.%[11]s = $1) AS userrating
	FROM %[12]s m`,
	movieCols.ID, movieCols.Title, movieCols.YearOfRelease,
	genreCols.Table, genreCols.Name, genreCols.MovieID, genreCols.Position,
	ratingCols.Table, ratingCols.Rating, ratingCols.MovieID, ratingCols.UserID,
	movieCols.Table,
)

// insertGenres writes $2 in order as the genres of movie $1.
var insertGenres = fmt.Sprintf(`
	INSERT INTO %s (%s, %s, %s)
	SELECT $1, g.name, g.ord - 1 FROM unnest($2::text[]) WITH ORDINALITY AS g(name, ord)`,
	genreCols.Table, genreCols.MovieID, genreCols.Name, genreCols.Position,
)

func scanRated(row pgx.Row) (*Rated, error) {
	rated := &Rated{}
	err := row.Scan(
		&rated.ID, &rated.Title, &rated.YearOfRelease, &rated.Genres,
		&rated.Rating, &rated.UserRating,
	)
	if err != nil {
		return nil, err
	}
	return rated, nil
}

// writeErr maps a slug index violation to a movie-specific CONFLICT.
func writeErr(err error, action string) error {
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("The movie already exists in the system", fmt.Errorf("%s: %w", action, err))
	}
	return dberr.Wrap(err, action)
}

func (repository *PostgresRepository) Create(context context.Context, movie Movie) (bool, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return false, dberr.Wrap(err, "begin_create_movie")
	}
	defer func() { _ = tx.Rollback(context) }()

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		movieCols.Table, movieCols.ID, movieCols.Slug, movieCols.Title, movieCols.YearOfRelease,
	)

	tag, err := tx.Exec(context, query, movie.ID, movie.Slug(), movie.Title, movie.YearOfRelease)
	if err != nil {
		return false, writeErr(err, "create_movie")
	}

	if _, err := tx.Exec(context, insertGenres, movie.ID, movie.Genres); err != nil {
		return false, writeErr(err, "create_movie_genres")
	}

	if err := tx.Commit(context); err != nil {
		return false, writeErr(err, "commit_create_movie")
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id uuid.UUID, userID *uuid.UUID) (*Rated, error) {
	query := selectRated + fmt.Sprintf(` WHERE m.%s = $2`, movieCols.ID)
	return repository.getOne(context, query, "get_movie_by_id", userID, id)
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string, userID *uuid.UUID) (*Rated, error) {
	query := selectRated + fmt.Sprintf(` WHERE m.%s = $2`, movieCols.Slug)
	return repository.getOne(context, query, "get_movie_by_slug", userID, slug)
}

func (repository *PostgresRepository) getOne(context context.Context, query, action string, userID *uuid.UUID, key any) (*Rated, error) {
	rated, err := scanRated(repository.db.QueryRow(context, query, userID, key))
	if dberr.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return rated, nil
}

/*
GetAll returns one page of movies matching the title and year filters.

Unsorted pages follow insertion order, which the time-ordered ids encode.
Sorted pages break ties by id so paging is stable.
*/
func (repository *PostgresRepository) GetAll(context context.Context, options Options) ([]Rated, error) {
	args := []any{options.UserID}
	where, args := filterClause(options.Title, options.Year, args)

	query := selectRated + where + orderClause(options) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, options.PageSize, options.Offset())

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_movies")
	}
	defer rows.Close()

	movies := make([]Rated, 0, options.PageSize)
	for rows.Next() {
		rated, err := scanRated(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_movie")
		}
		movies = append(movies, *rated)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_movies")
	}
	return movies, nil
}

func (repository *PostgresRepository) Count(context context.Context, title *string, year *int) (int, error) {
	where, args := filterClause(title, year, nil)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s m`, movieCols.Table) + where

	var total int
	if err := repository.db.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_movies")
	}
	return total, nil
}

// filterClause appends the title and year predicates shared by GetAll and Count.
// Title matches as a case-insensitive substring without LIKE wildcards.
func filterClause(title *string, year *int, args []any) (string, []any) {
	var conditions []string

	if title != nil {
		args = append(args, *title)
		conditions = append(conditions, fmt.Sprintf(`strpos(lower(m.%s), lower($%d)) > 0`, movieCols.Title, len(args)))
	}

	if year != nil {
		args = append(args, *year)
		conditions = append(conditions, fmt.Sprintf(`m.%s = $%d`, movieCols.YearOfRelease, len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderClause(options Options) string {
	column := ""
	switch options.SortField {
	case SortTitle:
		column = movieCols.Title
	case SortYear:
		column = movieCols.YearOfRelease
	}

	if column == "" || options.SortOrder == Unsorted {
		return fmt.Sprintf(` ORDER BY m.%s`, movieCols.ID)
	}

	direction := "ASC"
	if options.SortOrder == Descending {
		direction = "DESC"
	}
	return fmt.Sprintf(` ORDER BY m.%s %s, m.%s`, column, direction, movieCols.ID)
}

func (repository *PostgresRepository) ExistsByID(context context.Context, id uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, movieCols.Table, movieCols.ID)

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "movie_exists")
	}
	return exists, nil
}

// Update replaces the title, year, slug and genres of an existing movie in one transaction.
func (repository *PostgresRepository) Update(context context.Context, movie Movie) (bool, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return false, dberr.Wrap(err, "begin_update_movie")
	}
	defer func() { _ = tx.Rollback(context) }()

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		movieCols.Table, movieCols.Slug, movieCols.Title, movieCols.YearOfRelease, movieCols.ID,
	)

	tag, err := tx.Exec(context, query, movie.ID, movie.Slug(), movie.Title, movie.YearOfRelease)
	if err != nil {
		return false, writeErr(err, "update_movie")
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	deleteGenres := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, genreCols.Table, genreCols.MovieID)
	if _, err := tx.Exec(context, deleteGenres, movie.ID); err != nil {
		return false, dberr.Wrap(err, "update_movie_genres")
	}

	if _, err := tx.Exec(context, insertGenres, movie.ID, movie.Genres); err != nil {
		return false, dberr.Wrap(err, "update_movie_genres")
	}

	if err := tx.Commit(context); err != nil {
		return false, dberr.Wrap(err, "commit_update_movie")
	}
	return true, nil
}

// DeleteByID removes a movie. Genres and ratings go with it through ON DELETE CASCADE.
func (repository *PostgresRepository) DeleteByID(context context.Context, id uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, movieCols.Table, movieCols.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "delete_movie")
	}
	return tag.RowsAffected() > 0, nil
}
