package dto

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// CreateUserRequest registers a user. Password2 must match Password.
type CreateUserRequest struct {
	Email     string  `json:"email"      validate:"required,email"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name"  validate:"required"`
	Password  string  `json:"password"   validate:"required,min=8"`
	Password2 string  `json:"password2"  validate:"required"`
	Role      string  `json:"role"       validate:"required,oneof=ADMIN EMPLOYEE"`
	Phone     *string `json:"phone"`
}

type UpdateUserRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      string  `json:"role" validate:"omitempty,oneof=ADMIN EMPLOYEE"`
	Phone     *string `json:"phone"`
	Password  string  `json:"password" validate:"omitempty,min=8"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      string  `json:"role"`
	Phone     *string `json:"phone"`
	IsActive  bool    `json:"is_active"`
}
