package location

import (
	"context"
	"errors"
	"time"

	"crewdeck/internal/geo"
)

// AcquireTimeout bounds how long a device fix may take before the attempt is
// reported as timed out.
const AcquireTimeout = 10 * time.Second

// Sentinel errors mirroring the failure modes a device location provider can
// report. Callers distinguish timeout from permission denial.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("location position unavailable")
	ErrTimeout             = errors.New("location acquisition timed out")
)

// Provider is a one-shot device location source. Current blocks until a fix
// is available, the context is cancelled, or the provider gives up.
type Provider interface {
	Current(ctx context.Context) (geo.Point, error)
}

// Func adapts a plain function to Provider.
type Func func(ctx context.Context) (geo.Point, error)

func (f Func) Current(ctx context.Context) (geo.Point, error) {
	return f(ctx)
}

// FromCoords builds a Provider from coordinates the client already resolved
// and attached to its request. Missing coordinates report as unavailable.
func FromCoords(lat, lng *float64) Provider {
	return Func(func(ctx context.Context) (geo.Point, error) {
		if err := ctx.Err(); err != nil {
			return geo.Point{}, ErrTimeout
		}
		if lat == nil || lng == nil {
			return geo.Point{}, ErrPositionUnavailable
		}
		return geo.Point{Latitude: *lat, Longitude: *lng}, nil
	})
}

// Acquire wraps a provider call with the fixed timeout. Context expiry maps
// to ErrTimeout so callers see one consistent error set.
func Acquire(ctx context.Context, p Provider) (geo.Point, error) {
	ctx, cancel := context.WithTimeout(ctx, AcquireTimeout)
	defer cancel()

	point, err := p.Current(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return geo.Point{}, ErrTimeout
		}
		return geo.Point{}, err
	}
	return point, nil
}
