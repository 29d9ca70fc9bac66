package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/startstack/startstack/app/models"
	"github.com/startstack/startstack/app/repository"
	"github.com/startstack/startstack/internal/pkg/constants"
	"github.com/startstack/startstack/internal/pkg/env"
	"github.com/startstack/startstack/internal/pkg/mail"
	"github.com/startstack/startstack/internal/pkg/session"
	"github.com/startstack/startstack/internal/pkg/usercontext"
	"github.com/startstack/startstack/internal/pkg/utils"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type magicLinkRequest struct {
	Email string `json:"email"`
}

// HandleAuthRegister creates an account with email and password. If a guest
// checkout already minted a user for this email, the password is attached to
// that existing account instead of failing on the unique email.
func HandleAuthRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if len(req.Password) < 8 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Password must be at least 8 characters")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()

	existing, err := repo.GetByEmail(req.Email)
	if err == nil {
		if existing.Password != "" {
			return jsonError(c, fiber.StatusConflict, "conflict", "Account already exists")
		}
		// checkout-minted user claiming their account
		if err := existing.SetPassword(req.Password); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create account")
		}
		existing.Name = req.Name
		if err := repo.Update(existing); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create account")
		}
		return startSession(c, existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create account")
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid name, email or password")
	}
	if err := repo.Create(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create account")
	}
	return startSession(c, user)
}

// HandleAuthLogin signs in with email and password.
func HandleAuthLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid email or password")
	}

	return startSession(c, user)
}

// HandleAuthLogout destroys the caller's session.
func HandleAuthLogout(c *fiber.Ctx) error {
	if err := session.DestroySession(c); err != nil {
		log.Printf("[auth] logout: %v", err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleMagicLinkRequest mails a one-click sign-in link. The response is the
// same whether or not the email is known, so the endpoint cannot be used to
// probe for accounts.
func HandleMagicLinkRequest(c *fiber.Ctx) error {
	var req magicLinkRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "email is required")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err == nil {
		if err := user.GenerateMagicLinkToken(); err == nil {
			if err := repo.Update(user); err == nil {
				baseURL := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
				link := fmt.Sprintf("%s%s?token=%s", baseURL, constants.MagicLinkRoute, user.MagicLinkToken)
				if err := mail.SendMagicLinkMail(user.Email, link); err != nil {
					log.Printf("[auth] magic link mail to %s: %v", user.Email, err)
				}
			}
		}
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleMagicLinkRedeem signs the user in from a mailed token. Tokens are
// single use and expire after 24 hours.
func HandleMagicLinkRedeem(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "token is required")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByMagicLinkToken(token)
	if err != nil || !user.IsMagicLinkTokenValid(token) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid or expired link")
	}

	user.ClearMagicLinkToken()
	if user.EmailVerified == nil {
		now := time.Now()
		user.EmailVerified = &now
	}
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to sign in")
	}

	return startSession(c, user)
}

// HandleAuthMe returns the caller's identity.
func HandleAuthMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}
	return c.JSON(fiber.Map{
		"id":       userCtx.UserID,
		"email":    userCtx.Email,
		"is_admin": userCtx.IsAdmin,
		"avatar":   utils.GetGravatarURL(userCtx.Email, 200),
	})
}

func startSession(c *fiber.Ctx, user *models.User) error {
	if err := loginSession(c, user.ID, user.Email, user.IsAdmin()); err != nil {
		log.Printf("[auth] session for user %d: %v", user.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to start session")
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}
