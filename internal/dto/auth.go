package dto

// LoginForm is the login page's form submission
type LoginForm struct {
	UserID   string `form:"user_id"`
	Password string `form:"password"`
}
