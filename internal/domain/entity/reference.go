package entity

// Channel is a recruiting channel from the reference catalog
type Channel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// JobTitle is a catalog entry for the positions a requisition may request
type JobTitle struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// UserProfile resolves an identity to a display name and email. The intake
// action uses it to seed approver slots.
type UserProfile struct {
	Document string `json:"document"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
}
