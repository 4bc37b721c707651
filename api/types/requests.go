package types

// LoginRequest represents a content API login
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required" example:"listener@example.com"`
	Password   string `json:"password" binding:"required" example:"secret"`
}
