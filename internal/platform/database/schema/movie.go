// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns the stores query, so SQL strings
// are assembled from one source of truth.
package schema

// MovieTable represents the 'movies' table.
//
// Slug is written on every create and update from title and year. It exists
// only so the unique index can guard against concurrent duplicates and so
// slug lookups are indexed.
type MovieTable struct {
	Table         string
	ID            string
	Slug          string
	Title         string
	YearOfRelease string
}

// Movie is the schema definition for movies.
var Movie = MovieTable{
	Table:         "movies",
	ID:            "id",
	Slug:          "slug",
	Title:         "title",
	YearOfRelease: "yearofrelease",
}

// SlugIndex is the unique index that rejects a second movie with the same slug.
const SlugIndex = "movies_slug_idx"

func (t MovieTable) Columns() []string {
	return []string{t.ID, t.Slug, t.Title, t.YearOfRelease}
}

// GenreTable represents the 'genres' table. Rows are ordered by position.
type GenreTable struct {
	Table    string
	MovieID  string
	Name     string
	Position string
}

// Genre is the schema definition for genres.
var Genre = GenreTable{
	Table:    "genres",
	MovieID:  "movieid",
	Name:     "name",
	Position: "position",
}
