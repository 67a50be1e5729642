package user

type SignInRequest struct {
	Login    string `json:"login"    form:"login"`
	Password string `json:"password" form:"password"`
}

type SignInResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	FullName    string `json:"full_name"`
}
