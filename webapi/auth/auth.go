package auth

import (
	"github.com/amirasaad/ledger/pkg/domain/user"
	authsvc "github.com/amirasaad/ledger/pkg/service/auth"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

func Routes(router fiber.Router, authSvc *authsvc.Service) {
	router.Post("/auth/signup", Signup(authSvc))
	router.Post("/auth/login", Login(authSvc))
}

func toUserInfo(u *user.User) UserInfo {
	return UserInfo{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

// Signup registers a new user.
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupInput true "Signup data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 409 {object} common.Response
// @Router /api/auth/signup [post]
func Signup(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SignupInput](c)
		if input == nil {
			return err // error response already written
		}
		u, err := authSvc.Signup(c.Context(), authsvc.SignupInput{
			FirstName:       input.FirstName,
			LastName:        input.LastName,
			Email:           input.Email,
			Password:        input.Password,
			ConfirmPassword: input.ConfirmPassword,
		})
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered successfully", toUserInfo(u))
	}
}

// Login handles user authentication and returns a JWT token.
// @Summary User login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Failure 429 {object} common.Response
// @Router /api/auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		u, err := authSvc.Login(c.Context(), input.Email, input.Password)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		token, err := authSvc.GenerateToken(c.Context(), u)
		if err != nil {
			log.Errorf("Failed to generate token: %v", err)
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login successful", LoginOutput{
			Token: token,
			User:  toUserInfo(u),
		})
	}
}
