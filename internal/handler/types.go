package handler

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type createBookRequest struct {
	Prompt   string `json:"prompt"`
	NumPages int    `json:"numPages"`
	Title    string `json:"title"`
}
