package upcoming

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Slot is the (id, order) pair the shift planner works on.
type Slot struct {
	ID    string
	Order int
}

// Shift moves one record from one order value to another.
type Shift struct {
	ID   string
	From int
	To   int
}

// MaxOrder is the largest order a caller may ask for. Shifts can push records
// above it, and the gap up to the integer column limit absorbs them.
const MaxOrder = math.MaxInt32 / 2

// ParseOrder converts the caller-supplied order into an int in [0, MaxOrder].
func ParseOrder(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > MaxOrder {
		return 0, ErrInvalidOrder
	}
	return n, nil
}

// PlanShift returns the writes needed to free target for the record excludeID
// (empty for a new record). When nothing else holds target the plan is empty.
// Otherwise every other slot at or above target moves up by one, listed from
// the highest order down so that applying them in sequence never lands a
// record on a value that is still occupied.
func PlanShift(slots []Slot, target int, excludeID string) []Shift {
	taken := false
	var affected []Slot
	for _, s := range slots {
		if s.ID == excludeID || s.Order < target {
			continue
		}
		if s.Order == target {
			taken = true
		}
		affected = append(affected, s)
	}
	if !taken {
		return nil
	}

	sort.Slice(affected, func(i, j int) bool {
		return affected[i].Order > affected[j].Order
	})

	shifts := make([]Shift, len(affected))
	for i, s := range affected {
		shifts[i] = Shift{ID: s.ID, From: s.Order, To: s.Order + 1}
	}
	return shifts
}
