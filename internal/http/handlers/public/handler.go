package public

import "github.com/agromate/agromate-api/internal/provider"

// Handler serves the public storefront and the shared authenticated
// account endpoints.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
