package response

import (
	"time"

	"careops/internal/data/entity"
)

type AvailabilityRuleResponse struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type ServiceResponse struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	Description     *string                    `json:"description,omitempty"`
	DurationMinutes int                        `json:"duration_minutes"`
	Location        *string                    `json:"location,omitempty"`
	Price           *int                       `json:"price,omitempty"`
	Color           string                     `json:"color"`
	IsActive        bool                       `json:"is_active"`
	Availabilities  []AvailabilityRuleResponse `json:"availabilities"`
	CreatedAt       time.Time                  `json:"created_at"`
}

func ServiceToResponse(s *entity.Service, rules []*entity.AvailabilityRule) ServiceResponse {
	avail := make([]AvailabilityRuleResponse, 0, len(rules))
	for _, r := range rules {
		avail = append(avail, AvailabilityRuleResponse{
			DayOfWeek: r.DayOfWeek,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		})
	}
	return ServiceResponse{
		ID:              s.ID.String(),
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Location:        s.Location,
		Price:           s.Price,
		Color:           s.Color,
		IsActive:        s.IsActive,
		Availabilities:  avail,
		CreatedAt:       s.CreatedAt,
	}
}
