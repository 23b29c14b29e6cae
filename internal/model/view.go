package model

// Projection is the filtered and sorted view handed to the renderer.
type Projection struct {
	Posts []Post `json:"posts"`
	Users []User `json:"users"`
}

// FeedView is what every feed operation returns: the projection plus how it was produced.
type FeedView struct {
	Projection
	// Degraded is set when sorting/filtering failed and Posts is the raw reloaded list.
	Degraded bool `json:"degraded"`
	// Placeholder is set when even the raw list could not be produced.
	Placeholder string `json:"placeholder,omitempty"`
}

// MutationResult reports whether a mutation changed stored state; View is always populated.
type MutationResult struct {
	View    FeedView `json:"view"`
	Applied bool     `json:"applied"`
}

type Profile struct {
	User       User   `json:"user"`
	Posts      []Post `json:"posts"`
	TotalLikes int64  `json:"totalLikes"`
	IsOwn      bool   `json:"isOwn"`
}
