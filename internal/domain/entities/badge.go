package entities

// Badge is a static achievement definition. Only membership in a profile's
// badge set ever changes.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}
