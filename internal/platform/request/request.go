// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides the router's parameter extraction and body decoding so handlers see
typed values and [apperr.AppError] failures only.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/cinemadb/internal/platform/apperr"
	"github.com/taibuivan/cinemadb/internal/platform/ctxutil"
	"github.com/taibuivan/cinemadb/internal/platform/validate"
)

/*
DecodeJSON reads the request body into target and runs its `validate` tags.

Returns:
  - error: validate.ErrInvalidJSON on malformed JSON, a VALIDATION_ERROR on tag failures
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return validate.Struct(target)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
UUIDParam parses a named URL parameter as a UUID.

Returns:
  - error: VALIDATION_ERROR naming the parameter when it is not a UUID
*/
func UUIDParam(request *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(request, name))
	if err != nil {
		return uuid.Nil, validate.FieldErr(name, "Must be a valid UUID")
	}
	return id, nil
}

/*
UserID returns the requesting user's id, or nil for anonymous callers.
*/
func UserID(request *http.Request) *uuid.UUID {
	return ctxutil.GetUserID(request.Context())
}

/*
RequiredUserID returns the authenticated caller's id.

Returns:
  - error: apperr.Unauthorized if the token carries no usable userid claim
*/
func RequiredUserID(request *http.Request) (uuid.UUID, error) {
	id := ctxutil.GetUserID(request.Context())
	if id == nil {
		return uuid.Nil, apperr.Unauthorized("Authentication required")
	}
	return *id, nil
}
