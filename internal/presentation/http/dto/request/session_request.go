package request

// LoginRequest signs the till in against the remote users table. The
// resulting session is kept locally until logout or expiry.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}
