package rental

import "context"

const MsgUnavailableForPeriod = "this item cannot be rented for the given dates"

// ActiveRentalFinder returns rentals of the stock whose status is in ActiveStatuses.
type ActiveRentalFinder interface {
	FindActiveByStock(ctx context.Context, stockID string, excludeID *int64) ([]*Rental, error)
}

type OverlapResult struct {
	Conflict      bool
	ConflictingID int64
	Message       string
}

func NoConflict() OverlapResult {
	return OverlapResult{}
}

// Violations reports the conflict on both date fields.
func (r OverlapResult) Violations() Violations {
	var v Violations
	if r.Conflict {
		v.Add(FieldExpectedRentalOn, r.Message)
		v.Add(FieldExpectedReturnOn, r.Message)
	}
	return v
}

type AvailabilityChecker struct {
	finder ActiveRentalFinder
}

func NewAvailabilityChecker(finder ActiveRentalFinder) *AvailabilityChecker {
	return &AvailabilityChecker{finder: finder}
}

// CheckOverlap has no side effects. Only store failures come back as an error.
func (c *AvailabilityChecker) CheckOverlap(
	ctx context.Context,
	candidate Period,
	stockID string,
	excludeID *int64,
) (OverlapResult, error) {
	active, err := c.finder.FindActiveByStock(ctx, stockID, excludeID)
	if err != nil {
		return OverlapResult{}, err
	}
	return FindConflict(candidate, active, excludeID), nil
}

// FindConflict scans already fetched rentals. Inactive and excluded rentals are skipped
// so a finder that over-fetches cannot produce a false conflict.
func FindConflict(candidate Period, rentals []*Rental, excludeID *int64) OverlapResult {
	for _, r := range rentals {
		if r == nil || !r.IsActive() {
			continue
		}
		if excludeID != nil && r.ID() == *excludeID {
			continue
		}
		if Overlaps(r.Period(), candidate) {
			return OverlapResult{
				Conflict:      true,
				ConflictingID: r.ID(),
				Message:       MsgUnavailableForPeriod,
			}
		}
	}
	return NoConflict()
}
