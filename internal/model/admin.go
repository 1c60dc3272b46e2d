package model

// Admin is the identity of a signed-in administrator as reported by the managed auth service.
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
