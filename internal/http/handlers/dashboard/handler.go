package dashboard

import "github.com/agromate/agromate-api/internal/provider"

// Handler serves the role-gated dashboard APIs for buyers, farmers and
// delivery people.
type Handler struct {
	*provider.Container
}

// New creates the dashboard handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
