package attendanceerrors

import (
	"fmt"
	"net/http"

	"crewdeck/internal/shared/apperror"
)

// Wire codes for attendance failures. These are the discriminants callers
// branch on, grouped by whether retrying can ever help.
const (
	CodeWindowClosed          = "WINDOW_CLOSED"
	CodeDeadlinePassed        = "DEADLINE_PASSED"
	CodeCheckoutWindowClosed  = "CHECKOUT_WINDOW_CLOSED"
	CodeMissingEventLocation  = "MISSING_EVENT_LOCATION"
	CodeOutOfRange            = "OUT_OF_RANGE"
	CodeLocationPermission    = "LOCATION_PERMISSION_DENIED"
	CodeLocationUnavailable   = "LOCATION_UNAVAILABLE"
	CodeLocationTimeout       = "LOCATION_TIMEOUT"
	CodeAlreadyInProgress     = "ALREADY_IN_PROGRESS"
	CodeCheckInNotApplicable  = "CHECK_IN_NOT_APPLICABLE"
	CodeCheckoutNotApplicable = "CHECKOUT_NOT_APPLICABLE"
)

var (
	// Window errors: expected, not retryable until time passes.
	ErrWindowClosed = apperror.New(
		CodeWindowClosed,
		"check-in window is not open",
		http.StatusUnprocessableEntity,
	)
	ErrDeadlinePassed = apperror.New(
		CodeDeadlinePassed,
		"attendance deadline has passed",
		http.StatusUnprocessableEntity,
	)
	ErrCheckoutWindowClosed = apperror.New(
		CodeCheckoutWindowClosed,
		"checkout is only possible while the event is running",
		http.StatusUnprocessableEntity,
	)

	// Configuration error: fatal until the event data is fixed.
	ErrMissingEventLocation = apperror.New(
		CodeMissingEventLocation,
		"schedule has no location configured",
		http.StatusUnprocessableEntity,
	)

	// Device errors: retryable by the user.
	ErrLocationPermissionDenied = apperror.New(
		CodeLocationPermission,
		"location permission was denied",
		http.StatusUnprocessableEntity,
	)
	ErrLocationUnavailable = apperror.New(
		CodeLocationUnavailable,
		"current location could not be determined",
		http.StatusUnprocessableEntity,
	)
	ErrLocationTimeout = apperror.New(
		CodeLocationTimeout,
		"location acquisition timed out",
		http.StatusUnprocessableEntity,
	)

	// Concurrency error: transient, retry after the pending operation ends.
	ErrAlreadyInProgress = apperror.New(
		CodeAlreadyInProgress,
		"another attendance update for this member is still in progress",
		http.StatusConflict,
	)

	ErrSelfCheckInNotAllowed = apperror.New(
		CodeCheckInNotApplicable,
		"this schedule does not use location check-in",
		http.StatusUnprocessableEntity,
	)
	ErrCheckoutNotRequired = apperror.New(
		CodeCheckoutNotApplicable,
		"this schedule does not require checkout",
		http.StatusUnprocessableEntity,
	)
	ErrNotCheckedIn = apperror.New(
		CodeCheckoutNotApplicable,
		"member has no attendance to check out from",
		http.StatusUnprocessableEntity,
	)
	ErrAlreadyCheckedOut = apperror.New(
		CodeCheckoutNotApplicable,
		"member already checked out",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance status",
		http.StatusBadRequest,
	)
	ErrInvalidBulkStatus = apperror.New(
		apperror.CodeInvalidInput,
		"bulk status must be present, absent or undecided",
		http.StatusBadRequest,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrExcuseNotFound = apperror.New(
		apperror.CodeNotFound,
		"no excuse submitted for this record",
		http.StatusNotFound,
	)
)

// OutOfRangeDetails is attached to OUT_OF_RANGE errors so the caller can show
// the shortfall.
type OutOfRangeDetails struct {
	DistanceMeters float64 `json:"distance_m"`
	RadiusMeters   float64 `json:"radius_m"`
}

// OutOfRange builds a geofence rejection carrying the measured distance and
// the allowed radius.
func OutOfRange(distanceMeters, radiusMeters float64) *apperror.AppError {
	err := apperror.New(
		CodeOutOfRange,
		fmt.Sprintf("current position is %.0fm from the venue (within %.0fm required)", distanceMeters, radiusMeters),
		http.StatusUnprocessableEntity,
	)
	return err.WithDetails(OutOfRangeDetails{
		DistanceMeters: distanceMeters,
		RadiusMeters:   radiusMeters,
	})
}
