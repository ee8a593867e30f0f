package auth

import (
	"net/http"
	"strings"
)

// Credentials reads the user name and password of a connection request.
// They are taken from the auth=user:pass query param, then the username and
// password params, then the Authorization header.
func Credentials(r *http.Request) (name, password string) {
	url_query := r.URL.Query()
	var conn_auth string
	if url_query.Has("auth") {
		conn_auth = url_query.Get("auth")
	} else if url_query.Has("username") || url_query.Has("password") {
		return url_query.Get("username"), url_query.Get("password")
	} else if user, pass, ok := r.BasicAuth(); ok {
		return user, pass
	} else {
		conn_auth = r.Header.Get("Authorization")
	}
	name, password, _ = strings.Cut(conn_auth, ":")
	return
}

func (u *Users) Authorize(r *http.Request) (*TdbUser, error) {
	return u.Authenticate(Credentials(r))
}
