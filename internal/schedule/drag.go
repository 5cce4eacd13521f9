package schedule

import (
	"bandroom/internal/model"

	"github.com/google/uuid"
)

type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

// Drag turns a continuous pointer gesture over calendar cells into exactly
// one committed day range. The acting member and status are captured at
// press time and cannot change for the rest of the gesture; switching the
// externally selected member or mode mid-drag affects only the next gesture.
//
// Drag is not safe for concurrent use; callers serialize access per session.
type Drag struct {
	state    DragState
	memberID uuid.UUID
	status   model.AvailabilityStatus
	anchor   DayKey
	current  DayKey
}

func (d *Drag) State() DragState {
	return d.state
}

// Press starts a gesture anchored on day. Pressing with no acting member or
// an unknown status is a no-op and the drag stays idle.
func (d *Drag) Press(memberID uuid.UUID, status model.AvailabilityStatus, day DayKey) bool {
	if d.state != DragIdle {
		return false
	}
	if memberID == uuid.Nil || !status.Valid() {
		return false
	}

	d.state = DragDragging
	d.memberID = memberID
	d.status = status
	d.anchor = day
	d.current = day
	return true
}

// Enter extends the gesture to day. Entering the day already under the
// pointer changes nothing.
func (d *Drag) Enter(day DayKey) bool {
	if d.state != DragDragging {
		return false
	}
	if day == d.current {
		return false
	}
	d.current = day
	return true
}

// Release commits the gesture and resets to idle, returning the acting
// member, status and the inclusive day range between anchor and the last
// entered day. Leaving the calendar surface is treated the same as a
// release: the range commits, it does not cancel. ok is false when no
// gesture was in progress.
func (d *Drag) Release() (memberID uuid.UUID, status model.AvailabilityStatus, days []DayKey, ok bool) {
	if d.state != DragDragging {
		return uuid.Nil, "", nil, false
	}

	memberID = d.memberID
	status = d.status
	days = ExpandRange(d.anchor.Time(), d.current.Time())

	*d = Drag{}
	return memberID, status, days, true
}

// Selection returns the days currently highlighted by an in-flight gesture,
// empty when idle.
func (d *Drag) Selection() []DayKey {
	if d.state != DragDragging {
		return nil
	}
	return ExpandRange(d.anchor.Time(), d.current.Time())
}
