package domain

// Template is a certificate design the admin can pick. Artwork lives with the renderer;
// the backend only needs to know which ids exist.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Preview     string `json:"preview"`
}
