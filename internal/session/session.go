// Package session maps the token pair onto transport-level cookies and
// resolves the caller's identity from an incoming request.
package session

import (
	"net/http"

	"hospital-booking/internal/token"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Cookies builds and clears the auth cookie pair. Secure is enabled in
// production so the cookies only travel over TLS.
type Cookies struct {
	codec  *token.Codec
	secure bool
}

func NewCookies(codec *token.Codec, secure bool) *Cookies {
	return &Cookies{codec: codec, secure: secure}
}

// Resolve reads the access cookie and returns the verified claims, or nil if
// the cookie is absent or fails verification for any reason. It is a pure
// function of the request's cookie set.
func (c *Cookies) Resolve(r *http.Request) *token.Claims {
	cookie, err := r.Cookie(AccessCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := c.codec.Verify(token.KindAccess, cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}

func (c *Cookies) Access(value string) *http.Cookie {
	return c.build(AccessCookie, value, int(c.codec.AccessTTL().Seconds()))
}

func (c *Cookies) Refresh(value string) *http.Cookie {
	return c.build(RefreshCookie, value, int(c.codec.RefreshTTL().Seconds()))
}

// SetPair attaches both cookies to the response, as done at login.
func (c *Cookies) SetPair(w http.ResponseWriter, accessToken string, refreshToken string) {
	http.SetCookie(w, c.Access(accessToken))
	http.SetCookie(w, c.Refresh(refreshToken))
}

// Clear expires both cookies. This is all logout does: tokens stay valid
// until their natural expiry because there is no server-side revocation.
func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.build(AccessCookie, "", -1))
	http.SetCookie(w, c.build(RefreshCookie, "", -1))
}

func (c *Cookies) build(name string, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
