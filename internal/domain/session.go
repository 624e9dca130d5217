package domain

// Session store keys.
const (
	SessionKeyToken    = "token"
	SessionKeyUsername = "username"
	SessionKeyBalance  = "balance"
)

// Session is the authenticated user's state.
type Session struct {
	Token    string
	Username string
	Balance  float64
}

// LoggedIn reports whether the session carries a token.
func (s Session) LoggedIn() bool {
	return s.Token != ""
}
