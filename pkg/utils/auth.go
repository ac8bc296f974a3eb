package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/rfp-portal/pkg/types"
)

const ClaimsKey = "claims"

var ErrNoClaims = errors.New("user claims not found in context")

var GetClaimsFromContext = func(c *gin.Context) (*types.Claims, error) {
	claimsVal, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, ErrNoClaims
	}

	claims, ok := claimsVal.(*types.Claims)
	if !ok {
		return nil, errors.New("invalid user claims type")
	}
	return claims, nil
}

// GetVendorIDFromContext returns the vendor record id of a vendor session.
var GetVendorIDFromContext = func(c *gin.Context) (string, error) {
	claims, err := GetClaimsFromContext(c)
	if err != nil {
		return "", err
	}
	if claims.Role != types.RoleVendor || claims.Subject == "" {
		return "", errors.New("not a vendor session")
	}
	return claims.Subject, nil
}

// GetActorFromContext names whoever is acting, for audit and approval stamps.
var GetActorFromContext = func(c *gin.Context) (string, error) {
	claims, err := GetClaimsFromContext(c)
	if err != nil {
		return "", err
	}
	if claims.Email != "" {
		return claims.Email, nil
	}
	return claims.Subject, nil
}
