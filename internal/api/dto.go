package api

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateTodoInput struct {
	Message string `json:"message"`
	Date    string `json:"date"`
}

// DateLayout is the only accepted form for todo due dates: a calendar date,
// no time component.
const DateLayout = "2006-01-02"
