package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	setCookie(c, AccessTokenCookie, accessToken, AccessTokenExpiry)
	setCookie(c, RefreshTokenCookie, refreshToken, RefreshTokenExpiry)
}

func SetAccessCookie(c *gin.Context, accessToken string) {
	setCookie(c, AccessTokenCookie, accessToken, AccessTokenExpiry)
}

func ClearAuthCookies(c *gin.Context) {
	setCookie(c, AccessTokenCookie, "", -time.Second)
	setCookie(c, RefreshTokenCookie, "", -time.Second)
}

func setCookie(c *gin.Context, name, value string, expiry time.Duration) {
	// plain http is allowed only while developing locally
	secure := gin.Mode() != gin.DebugMode
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(expiry.Seconds()), "/", "", secure, true)
}
