package response

import (
	"time"

	"careops/internal/availability"
)

type SlotResponse struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Display string    `json:"display"`
}

// SlotsResponse lists the open slots of one service on one day. Slots is
// never null, an empty day encodes as [].
type SlotsResponse struct {
	Slots   []SlotResponse `json:"slots"`
	Date    string         `json:"date"`
	Service string         `json:"service"`
}

func SlotsToResponse(slots []availability.Slot, date availability.Date, serviceName string) *SlotsResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{Start: s.Start, End: s.End, Display: s.Display}
	}
	return &SlotsResponse{
		Slots:   out,
		Date:    date.String(),
		Service: serviceName,
	}
}
