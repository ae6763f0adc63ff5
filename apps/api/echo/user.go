package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/user"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	// UserResponse is the public representation of a user. The password hash
	// never leaves the storage layer.
	UserResponse struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		Meta      user.Meta `json:"meta"`
		CreatedAt time.Time `json:"createdAt"`
		LastLogin time.Time `json:"lastLogin"`
	}

	userApi struct {
		svc user.Service
	}
)

func newUserResponse(usr user.User) UserResponse {
	return UserResponse{
		ID:        usr.ID,
		Name:      usr.Name,
		Email:     usr.Email,
		Role:      usr.Role,
		Meta:      usr.Meta,
		CreatedAt: usr.CreatedAt,
		LastLogin: usr.LastLogin,
	}
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc user.Service) {
	api := userApi{svc: svc}

	ug := g.Group("/users")
	ug.POST("/login", api.login)
	ug.GET("/me", api.me, jwt)
}

// login authenticates a user by email and password and returns a signed JWT.
func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	claims, err := authenticate(data.Email, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

// me returns the authenticated user's profile.
func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newUserResponse(usr))
}
