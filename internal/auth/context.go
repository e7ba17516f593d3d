package auth

import "github.com/gin-gonic/gin"

// claimsKey is the gin context key holding the verified caller
const claimsKey = "auth.claims"

// SetClaims stores the verified caller on the request context
func SetClaims(c *gin.Context, claims *Claims) {
	c.Set(claimsKey, claims)
}

// ClaimsFrom returns the verified caller of an authenticated request
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok && claims != nil
}
