package handlers

type RegisterParam struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Fullname string `form:"fullname" json:"fullname"`
	Password string `form:"password" json:"password"`
}

type LoginParam struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type RefreshParam struct {
	RefreshToken string `form:"refreshToken" json:"refreshToken"`
}

type UpdateProfileParam struct {
	Fullname string `form:"fullname" json:"fullname"`
	Email    string `form:"email" json:"email"`
}

type UpdatePasswordParam struct {
	OldPassword     string `form:"oldPassword" json:"oldPassword"`
	NewPassword     string `form:"newPassword" json:"newPassword"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}

type ForgotPasswordParam struct {
	Email string `query:"email" form:"email" json:"email"`
}

type ResetPasswordParam struct {
	Password string `form:"password" json:"password"`
}
