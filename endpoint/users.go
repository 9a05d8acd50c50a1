package endpoint

import (
	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	Name           string     `json:"name" binding:"required,max=255" example:"Dr. Michael Chen"`
	Email          string     `json:"email" binding:"required,email" example:"michael@docflow.com"`
	Password       string     `json:"password" binding:"required,min=6" example:"password123"`
	Phone          string     `json:"phone" example:"+1-555-0102"`
	Specialization string     `json:"specialization" example:"Orthodontics"`
	LicenseNumber  string     `json:"licenseNumber" example:"DDS-23456"`
	Role           model.Role `json:"role" binding:"omitempty,oneof=doctor admin" example:"doctor"`
}

type UpdateUserRequest struct {
	Name           *string     `json:"name" binding:"omitempty,min=1,max=255"`
	Email          *string     `json:"email" binding:"omitempty,email"`
	Password       *string     `json:"password" binding:"omitempty,min=6"`
	Phone          *string     `json:"phone"`
	Specialization *string     `json:"specialization"`
	LicenseNumber  *string     `json:"licenseNumber"`
	ProfilePhoto   *string     `json:"profilePhoto"`
	Role           *model.Role `json:"role" binding:"omitempty,oneof=doctor admin"`
	IsActive       *bool       `json:"isActive"`
}

func (r UpdateUserRequest) toUpdate(admin bool) service.UserUpdate {
	upd := service.UserUpdate{
		Name:           r.Name,
		Email:          r.Email,
		Password:       r.Password,
		Phone:          r.Phone,
		Specialization: r.Specialization,
		LicenseNumber:  r.LicenseNumber,
		ProfilePhoto:   r.ProfilePhoto,
	}
	if admin {
		upd.Role = r.Role
		upd.IsActive = r.IsActive
	}
	return upd
}

// ListUsers godoc
// @Summary      List users
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=[]model.User}
// @Failure      403 {object} util.APIResponse "Admin only"
// @Router       /users [get]
func ListUsers(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	users, err := service.NewUserService(db).List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve users")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Users retrieved", Data: users})
}

// CreateUser godoc
// @Summary      Create a user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateUserRequest true "User details"
// @Success      201 {object} util.APIResponse{data=model.User}
// @Failure      409 {object} util.APIResponse "Email already exists"
// @Router       /users [post]
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	u, err := service.NewUserService(db).Create(c.Request.Context(), service.UserInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		Provider:       model.ProviderEmail,
		Role:           req.Role,
	})
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "User created", Data: u})
}

// GetUser godoc
// @Summary      Get a user
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} util.APIResponse{data=model.User}
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /users/{id} [get]
func GetUser(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	u, err := service.NewUserService(db).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User retrieved", Data: u})
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Admins may also change role and active flag
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body UpdateUserRequest true "Fields to change"
// @Success      200 {object} util.APIResponse{data=model.User}
// @Failure      404 {object} util.APIResponse "Not found"
// @Failure      409 {object} util.APIResponse "Email already exists"
// @Router       /users/{id} [patch]
func UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	u, err := service.NewUserService(db).Update(c.Request.Context(), c.Param("id"), req.toUpdate(true))
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User updated successfully", Data: u})
}

// DeactivateUser godoc
// @Summary      Deactivate a user
// @Description  Users are never hard-deleted; this clears the active flag and revokes sessions
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} util.APIResponse
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /users/{id} [delete]
func DeactivateUser(c *gin.Context) {
	db, adminID, ok := scopedRequest(c)
	if !ok {
		return
	}
	if err := service.NewUserService(db).Deactivate(c.Request.Context(), c.Param("id"), adminID); err != nil {
		respondError(c, err, "Failed to deactivate user")
		return
	}
	deleted(c, "User deactivated")
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateUserRequest true "Fields to change; role and isActive are ignored"
// @Success      200 {object} util.APIResponse{data=model.User}
// @Router       /users/me [patch]
func UpdateProfile(c *gin.Context) {
	var req UpdateUserRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, userID, ok := scopedRequest(c)
	if !ok {
		return
	}
	u, err := service.NewUserService(db).Update(c.Request.Context(), userID, req.toUpdate(false))
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Profile updated", Data: u})
}
