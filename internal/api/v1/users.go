package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/goboardhq/goboard/internal/auth"
	"github.com/goboardhq/goboard/internal/models/forum"
	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// Register creates a new account. Username and email collisions come back
// as 409 from the model layer.
func Register(c *fiber.Ctx) error {
	type RegisterRequest struct {
		Username        string `json:"username" validate:"required,min=3,max=50,alphanum"`
		Email           string `json:"email" validate:"required,email,max=120"`
		Password        string `json:"password" validate:"required,min=6,eqfield=ConfirmPassword"`
		ConfirmPassword string `json:"confirm_password" validate:"required,min=6"`
	}

	rr := new(RegisterRequest)
	if err := utils.StrictBodyParser(c, rr); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err).Logs(fmt.Sprintf("Failed to parse register request: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(rr); err != nil {
		Logger.Warn(c.Context()).WithFields("errors", err).Logs("Register validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	rr.Email = strings.ToLower(strings.TrimSpace(rr.Email))

	user, err := forum.RegisterUser(c.Context(), DB, rr.Username, rr.Password, rr.Email)
	if err != nil {
		Logger.Warn(c.Context()).WithFields("username", rr.Username).Logs(fmt.Sprintf("Registration failed: %v", err))
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithFields("user_id", user.ID.String()).Logs(fmt.Sprintf("User registered successfully: %s", user.Username))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Login authenticates by username and sets the session cookie. Attempts are
// rate limited per client IP.
func Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Password string `json:"password" validate:"required,min=6,max=100"`
	}

	lr := new(LoginRequest)
	if err := utils.StrictBodyParser(c, lr); err != nil {
		Logger.Warn(c.Context()).Logs(fmt.Sprintf("Failed to parse login request: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	ipKey := "login:ip:" + c.IP()
	count, err := Redis.Get(c.Context(), ipKey).Int()
	if err == nil && count >= 5 {
		Logger.Warn(c.Context()).WithFields("ip", c.IP()).Logs("Login rate limit exceeded")
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many login attempts. Try again later.",
		})
	}
	Redis.Incr(c.Context(), ipKey)
	Redis.Expire(c.Context(), ipKey, 15*time.Minute)

	if err := Validator.Validate(lr); err != nil {
		Logger.Warn(c.Context()).WithFields("errors", err).Logs("Login validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	user, err := forum.AuthenticateUser(c.Context(), DB, lr.Username, lr.Password)
	if err != nil {
		Logger.Warn(c.Context()).WithFields("username", lr.Username).Logs("Login failed")
		return utils.SendError(c, err)
	}

	token, err := auth.GenerateSessionToken(user.ID)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err).Logs("Failed to generate session token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process login",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    token,
		Expires:  time.Now().Add(auth.SessionTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})

	Redis.Del(c.Context(), ipKey)

	Logger.Info(c.Context()).WithFields("user_id", user.ID.String()).Logs(fmt.Sprintf("User logged in successfully: %s", user.Username))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Logout clears the session cookie and blacklists the token until it would
// have expired on its own.
func Logout(c *fiber.Ctx) error {
	token := c.Cookies(auth.SessionCookieName())
	if token != "" {
		if claims, err := auth.VerifyToken(token, auth.PurposeSession); err == nil {
			key := "blacklist:session:" + claims.ID
			if err := Redis.Set(c.Context(), key, "invalid", auth.SessionTTL).Err(); err != nil {
				Logger.Warn(c.Context()).WithFields("error", err).Logs("Failed to blacklist session token in Redis")
			}
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})

	c.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
	c.Set("Pragma", "no-cache")

	Logger.Info(c.Context()).Logs("User logged out successfully")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logout successful",
	})
}

// ChangePassword updates the current user's password after checking the old
// one.
func ChangePassword(c *fiber.Ctx) error {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required,min=6"`
		NewPassword     string `json:"new_password" validate:"required,min=6,eqfield=ConfirmPassword"`
		ConfirmPassword string `json:"confirm_password" validate:"required,min=6"`
	}

	cr := new(ChangePasswordRequest)
	if err := utils.StrictBodyParser(c, cr); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err).Logs(fmt.Sprintf("Failed to parse change-password request: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(cr); err != nil {
		Logger.Warn(c.Context()).WithFields("errors", err).Logs("Change-password validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	user := auth.CurrentUser(c)
	if err := forum.ChangePassword(c.Context(), DB, user, cr.CurrentPassword, cr.NewPassword); err != nil {
		Logger.Warn(c.Context()).WithFields("user_id", user.ID.String()).Logs("Password change rejected")
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithFields("user_id", user.ID.String()).Logs("Password changed successfully")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password changed successfully",
	})
}

// ForgotPassword emails a reset link. The response never reveals whether the
// address belongs to an account.
func ForgotPassword(c *fiber.Ctx) error {
	type ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email,max=120"`
	}

	fr := new(ForgotPasswordRequest)
	if err := utils.StrictBodyParser(c, fr); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err).Logs(fmt.Sprintf("Failed to parse forgot-password request: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(fr); err != nil {
		Logger.Warn(c.Context()).WithFields("errors", err).Logs("Forgot-password validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	fr.Email = strings.ToLower(strings.TrimSpace(fr.Email))

	user, err := forum.GetUserBy(c.Context(), DB, "email = ?", []interface{}{fr.Email})
	if err != nil {
		// Unknown addresses get the same answer as known ones.
		Logger.Info(c.Context()).WithFields("email", fr.Email).Logs("Password reset requested for unknown email")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "If that email is registered, a reset link has been sent.",
		})
	}

	token, err := auth.GeneratePasswordResetToken(user.Email)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err).Logs("Failed to generate password reset token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process request",
		})
	}

	if err := utils.SendPasswordResetEmail(c.Context(), EmailCfg, user.Email, user.Username, token, Logger); err != nil {
		Logger.Warn(c.Context()).Logs(fmt.Sprintf("Reset email delivery failed: %v", err))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "If that email is registered, a reset link has been sent.",
	})
}

// ResetPassword consumes a reset token and sets a new password. Each token
// works once; the consumed token id is held in Redis until it expires.
func ResetPassword(c *fiber.Ctx) error {
	type ResetPasswordRequest struct {
		Token           string `json:"token" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=6,eqfield=ConfirmPassword"`
		ConfirmPassword string `json:"confirm_password" validate:"required,min=6"`
	}

	rr := new(ResetPasswordRequest)
	if err := utils.StrictBodyParser(c, rr); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err).Logs(fmt.Sprintf("Failed to parse reset-password request: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(rr); err != nil {
		Logger.Warn(c.Context()).WithFields("errors", err).Logs("Reset-password validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	claims, err := auth.VerifyToken(rr.Token, auth.PurposePasswordReset)
	if err != nil {
		if err == auth.ErrExpiredToken {
			Logger.Warn(c.Context()).Logs("Expired password reset token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Reset link has expired. Request a new one.",
			})
		}
		Logger.Warn(c.Context()).Logs("Invalid password reset token")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid reset link",
		})
	}

	usedKey := "used:reset:" + claims.ID
	if exists, _ := Redis.Exists(c.Context(), usedKey).Result(); exists > 0 {
		Logger.Warn(c.Context()).WithFields("jti", claims.ID).Logs("Reused password reset token")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Reset link has already been used",
		})
	}

	user, err := forum.GetUserBy(c.Context(), DB, "email = ?", []interface{}{claims.Subject})
	if err != nil {
		Logger.Warn(c.Context()).WithFields("email", claims.Subject).Logs("Reset token for unknown account")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid reset link",
		})
	}

	if err := forum.SetPassword(c.Context(), DB, user, rr.NewPassword); err != nil {
		Logger.Error(c.Context()).WithFields("error", err).Logs("Failed to set new password")
		return utils.SendError(c, err)
	}

	if err := Redis.Set(c.Context(), usedKey, "1", auth.PasswordResetTTL).Err(); err != nil {
		Logger.Warn(c.Context()).WithFields("key", usedKey).Logs("Failed to mark reset token as used")
	}

	Logger.Info(c.Context()).WithFields("user_id", user.ID.String()).Logs("Password reset completed")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password has been reset. Please log in with your new password.",
	})
}

// Me returns the authenticated user's own account.
func Me(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": fiber.Map{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
	})
}

// GetProfile returns a user's public profile: recent questions, answers and
// comments plus totals.
func GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	user, err := forum.GetUserBy(c.Context(), DB, "username = ?", []interface{}{username})
	if err != nil {
		return utils.SendError(c, err)
	}

	profile, err := forum.GetUserProfile(c.Context(), DB, user.ID)
	if err != nil {
		Logger.Error(c.Context()).WithFields("user_id", user.ID.String()).Logs(fmt.Sprintf("Failed to build profile: %v", err))
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": fiber.Map{
			"id":         profile.User.ID,
			"username":   profile.User.Username,
			"created_at": profile.User.CreatedAt,
		},
		"questions":      profile.Questions,
		"answers":        profile.Answers,
		"comments":       profile.Comments,
		"question_count": profile.QuestionCount,
		"answer_count":   profile.AnswerCount,
		"comment_count":  profile.CommentCount,
	})
}
