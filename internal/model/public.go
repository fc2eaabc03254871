package model

// PublicUser is the response shape exposed by the API. The internal primary
// key is echoed as an opaque string; everything else maps one to one.
type PublicUser struct {
	ID        string `json:"id"`
	UID       string `json:"uid"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

// NewPublicUser converts a persisted record into the public shape.
func NewPublicUser(u *User) PublicUser {
	return PublicUser{
		ID:        u.ID.String(),
		UID:       u.UID,
		FirstName: u.FirstName,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
	}
}

// NewPublicUsers converts a list of records.
func NewPublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, NewPublicUser(&users[i]))
	}
	return out
}
