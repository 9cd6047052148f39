package scheduleerrors

import (
	"net/http"

	"crewdeck/internal/shared/apperror"
)

var (
	ErrInvalidGroupID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid group id",
		http.StatusBadRequest,
	)
	ErrInvalidScheduleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid schedule id",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"starts_at must be before ends_at",
		http.StatusBadRequest,
	)
	ErrLocationRequired = apperror.New(
		apperror.CodeInvalidInput,
		"latitude and longitude are required for location attendance",
		http.StatusBadRequest,
	)
	ErrScheduleNotFound = apperror.New(
		apperror.CodeNotFound,
		"schedule not found",
		http.StatusNotFound,
	)
)
