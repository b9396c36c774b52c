package request

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	RealName string `json:"real_name" validate:"required,min=1,max=50"`
	Phone    string `json:"phone" validate:"required,min=10,max=15"`
	Role     string `json:"role" validate:"required,oneof=student coach"`

	// Coach-only fields
	Level  *string `json:"level,omitempty" validate:"omitempty,oneof=junior middle senior"`
	Awards *string `json:"awards,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}
