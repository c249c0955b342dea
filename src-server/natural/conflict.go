package natural

import (
	"quickcal/src-server/model"
)

// Overlapping returns every existing event whose interval overlaps the
// candidate under open-interval semantics: back-to-back events sharing an
// exact boundary instant do not conflict. Results keep the original
// collection order.
func Overlapping(candidate model.Event, existing []model.Event) []model.Event {
	conflicts := make([]model.Event, 0)
	cStart := candidate.StartUnixUTC
	cEnd := candidate.EndOrStart()
	for _, event := range existing {
		if cStart < event.EndOrStart() && cEnd > event.StartUnixUTC {
			conflicts = append(conflicts, event)
		}
	}
	return conflicts
}
