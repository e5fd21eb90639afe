package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the name of the auth cookie carrying the signed token.
const CookieName = "auth"

// SetAuthCookie writes the token as an HTTP-only, SameSite=Strict cookie.
// Secure is set in production only, so local development over http works.
func SetAuthCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetAuthCookie reads the auth token from the request, empty if absent.
func GetAuthCookie(c *gin.Context) string {
	cookie, err := c.Request.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// DeleteAuthCookie expires the auth cookie.
func DeleteAuthCookie(c *gin.Context, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
