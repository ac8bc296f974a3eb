package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/rfp-portal/internal/application"
	"github.com/linskybing/rfp-portal/internal/domain/vendor"
	"github.com/linskybing/rfp-portal/pkg/response"
	"github.com/linskybing/rfp-portal/pkg/utils"
)

type AuthHandler struct {
	h   *Handlers
	svc *application.IdentityService
}

var registerLabels = map[string]string{
	"CompanyName": "company name",
	"ContactName": "contact name",
	"Email":       "email",
	"Password":    "password",
}

// Register godoc
// @Summary Vendor registration
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param input formData vendor.RegisterInput true "Vendor registration info"
// @Param nda formData file false "Signed NDA"
// @Success 201 {object} vendor.Profile
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 409 {object} response.ErrorResponse "Email already registered"
// @Failure 502 {object} response.ErrorResponse "Store or storage failure"
// @Router /vendors/register [post]
func (a *AuthHandler) Register(c *gin.Context) {
	var input vendor.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		respondBindError(c, err, registerLabels)
		return
	}

	nda, err := formUpload(c, "nda")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid NDA upload: " + err.Error()})
		return
	}

	v, err := a.svc.Register(c.Request.Context(), input, nda)
	if err != nil {
		a.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v.Profile())
}

// CheckEmail godoc
// @Summary Check whether an email can register
// @Tags auth
// @Produce json
// @Param email query string true "Email"
// @Success 200 {object} response.IdentityResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /vendors/check-email [get]
func (a *AuthHandler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	res, err := a.svc.ResolveIdentity(c.Request.Context(), email)
	if err != nil {
		a.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.IdentityResponse{
		Email:  application.NormalizeEmail(email),
		Status: string(res.Status),
	})
}

// Login godoc
// @Summary Vendor login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body vendor.LoginInput true "Credentials"
// @Success 200 {object} response.TokenResponse
// @Failure 401 {object} response.ErrorResponse "Invalid email or password"
// @Failure 403 {object} response.ErrorResponse "Account not approved"
// @Router /vendors/login [post]
func (a *AuthHandler) Login(c *gin.Context) {
	a.login(c, a.svc.Login)
}

// AdminLogin godoc
// @Summary Administrator login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body vendor.LoginInput true "Credentials"
// @Success 200 {object} response.TokenResponse
// @Failure 401 {object} response.ErrorResponse "Invalid email or password"
// @Router /admin/login [post]
func (a *AuthHandler) AdminLogin(c *gin.Context) {
	a.login(c, a.svc.AdminLogin)
}

func (a *AuthHandler) login(c *gin.Context, login func(context.Context, vendor.LoginInput) (application.Session, error)) {
	var input vendor.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		respondBindError(c, err, registerLabels)
		return
	}

	sess, err := login(c.Request.Context(), input)
	if err != nil {
		a.h.respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		"token",
		sess.Token,
		int(a.h.tokenTTL.Seconds()),
		"/",
		"",
		a.h.production,
		true,
	)

	resp := response.TokenResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		Role:      string(sess.Role),
	}
	if sess.Vendor != nil {
		resp.Profile = sess.Vendor
	}
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Log out and revoke the current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.MessageResponse
// @Router /logout [post]
func (a *AuthHandler) Logout(c *gin.Context) {
	claims, err := utils.GetClaimsFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	if err := a.svc.Logout(c.Request.Context(), claims); err != nil {
		a.h.respondError(c, err)
		return
	}

	c.SetCookie("token", "", -1, "/", "", a.h.production, true)
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Logout successful"})
}

// Me godoc
// @Summary Current vendor profile
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} vendor.Profile
// @Failure 404 {object} response.ErrorResponse
// @Router /vendor/me [get]
func (a *AuthHandler) Me(c *gin.Context) {
	vendorID, ok := vendorIDOrAbort(c)
	if !ok {
		return
	}
	profile, err := a.svc.Profile(c.Request.Context(), vendorID)
	if err != nil {
		a.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func vendorIDOrAbort(c *gin.Context) (string, bool) {
	vendorID, err := utils.GetVendorIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return vendorID, true
}

func actorOrAbort(c *gin.Context) (string, bool) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return actor, true
}
