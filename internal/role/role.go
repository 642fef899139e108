package role

// Assignment is the role view of a user, as served to administrators.
type Assignment struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Protected bool   `json:"protected"`
}

// Repository is the role slice of the user store. GetAssignment returns
// (nil, nil) for unknown users.
type Repository interface {
	GetAssignment(userID string) (*Assignment, error)
	SetRole(userID, role string) error
	List() ([]*Assignment, error)
}
