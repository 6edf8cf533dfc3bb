package remoteapitest

import (
	"context"
	"net/http"
)

func withUser(r *http.Request, u *user) context.Context {
	return context.WithValue(r.Context(), userKey{}, u)
}

func userFrom(r *http.Request) *user {
	u, _ := r.Context().Value(userKey{}).(*user)
	return u
}
