package dto

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone"`
}

type PasswordResetRequestInput struct {
	Identifier string `json:"identificador" validate:"required"`
}

type PasswordResetInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Code     string `json:"code" validate:"required,len=6"`
}

type ConfirmResetInput struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}
