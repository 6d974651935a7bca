package dto

// LoginRequest authenticates the operator.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed operator token.
type LoginResponse struct {
	Token string `json:"token"`
}
