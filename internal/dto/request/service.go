package request

type AvailabilityRuleRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

type CreateServiceRequest struct {
	Name            string                    `json:"name" validate:"required,min=1,max=255"`
	Description     *string                   `json:"description,omitempty" validate:"omitempty,max=2000"`
	DurationMinutes int                       `json:"duration_minutes" validate:"omitempty,min=1,max=1440"`
	Location        *string                   `json:"location,omitempty" validate:"omitempty,max=500"`
	Price           *int                      `json:"price,omitempty" validate:"omitempty,min=0"`
	Color           string                    `json:"color" validate:"omitempty,hexcolor"`
	Availability    []AvailabilityRuleRequest `json:"availability,omitempty" validate:"omitempty,dive"`
}

type UpdateServiceRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=1440"`
	Location        *string `json:"location,omitempty" validate:"omitempty,max=500"`
	Price           *int    `json:"price,omitempty" validate:"omitempty,min=0"`
	Color           *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// SetAvailabilityRequest replaces every rule of a service. An empty list
// closes the service.
type SetAvailabilityRequest struct {
	Rules []AvailabilityRuleRequest `json:"rules" validate:"omitempty,dive"`
}
