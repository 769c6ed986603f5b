// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// RatingTable represents the 'ratings' table, one row per user and movie.
type RatingTable struct {
	Table   string
	UserID  string
	MovieID string
	Rating  string
}

// Rating is the schema definition for ratings.
var Rating = RatingTable{
	Table:   "ratings",
	UserID:  "userid",
	MovieID: "movieid",
	Rating:  "rating",
}
