package response

type PublicWorkspace struct {
	Name     string  `json:"name"`
	Address  *string `json:"address,omitempty"`
	Timezone string  `json:"timezone"`
}

// BookingPageResponse backs the public booking page of a workspace.
type BookingPageResponse struct {
	Workspace PublicWorkspace   `json:"workspace"`
	Services  []ServiceResponse `json:"services"`
}
