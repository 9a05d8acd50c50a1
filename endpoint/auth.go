package endpoint

import (
	"fmt"

	"github.com/ariebrainware/docflow-schedule/middleware"
	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name           string `json:"name" binding:"required,max=255" example:"Dr. Sarah Johnson"`
	Email          string `json:"email" binding:"required,email" example:"sarah@docflow.com"`
	Password       string `json:"password" binding:"required,min=6" example:"password123"`
	Phone          string `json:"phone" example:"+1-555-0101"`
	Specialization string `json:"specialization" example:"General Dentistry"`
	LicenseNumber  string `json:"licenseNumber" example:"DDS-12345"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"sarah@docflow.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

func authService(c *gin.Context, db *gorm.DB) *service.AuthService {
	return service.NewAuthService(db, appConfig(c).JWTExpiresIn)
}

// Register godoc
// @Summary      Register a doctor account
// @Description  Create an email account with the doctor role and return a token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} util.APIResponse{data=service.AuthResult} "Registered"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      409 {object} util.APIResponse "Email already registered"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Router       /auth/register [post]
func Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	res, err := authService(c, db).Register(c.Request.Context(), service.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
	}, clientInfo(c))
	if err != nil {
		respondError(c, err, "Failed to register")
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "Registration successful", Data: res})
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=service.AuthResult} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Invalid credentials"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Router       /auth/login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	res, err := authService(c, db).Login(c.Request.Context(), req.Email, req.Password, clientInfo(c))
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Login successful", Data: res})
}

// Me godoc
// @Summary      Current user
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=model.User}
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /auth/me [get]
func Me(c *gin.Context) {
	db, userID, ok := scopedRequest(c)
	if !ok {
		return
	}
	u, err := service.NewUserService(db).Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load user")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User retrieved", Data: u})
}

// Refresh godoc
// @Summary      Refresh token
// @Description  Issue a new token for the authenticated user
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=service.AuthResult}
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /auth/refresh [post]
func Refresh(c *gin.Context) {
	db, userID, ok := scopedRequest(c)
	if !ok {
		return
	}
	res, err := authService(c, db).Refresh(c.Request.Context(), userID, clientInfo(c))
	if err != nil {
		respondError(c, err, "Failed to refresh token")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Token refreshed", Data: res})
}

// Logout godoc
// @Summary      Logout
// @Description  Revoke the session of the presented token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Logout successful"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /auth/logout [delete]
func Logout(c *gin.Context) {
	db, userID, ok := scopedRequest(c)
	if !ok {
		return
	}
	tokenID, ok := middleware.GetTokenID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Authentication required", Err: fmt.Errorf("no token id")})
		return
	}
	if err := authService(c, db).Logout(c.Request.Context(), userID, tokenID); err != nil {
		respondError(c, err, "Failed to log out")
		return
	}
	util.LogLogout(userID, c.GetString(middleware.EmailKey), c.ClientIP(), c.Request.UserAgent())
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logout successful"})
}
