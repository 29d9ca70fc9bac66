package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/startstack/startstack/internal/pkg/session"
	"github.com/startstack/startstack/internal/pkg/usercontext"
)

// Session keys written at login and read by the user context middleware
const (
	USER_ID       string = usercontext.KeyUserID
	USER_EMAIL    string = usercontext.KeyUserEmail
	USER_IS_ADMIN string = usercontext.KeyIsAdmin
)

// loginSession writes the user's identity into a fresh session
func loginSession(c *fiber.Ctx, userID uint, email string, isAdmin bool) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(USER_ID, userID)
	sess.Set(USER_EMAIL, email)
	sess.Set(USER_IS_ADMIN, isAdmin)
	return sess.Save()
}

// pageParams reads ?page and ?limit with sane bounds
func pageParams(c *fiber.Ctx, defaultLimit, maxLimit int) (offset, limit int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return (page - 1) * limit, limit
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}
