/*
Package handler provides HTTP handler functions for user authentication and profile management.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"dmchat/internal/app/db"
	"dmchat/internal/app/user"
	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/req"
	"dmchat/internal/pkg/resp"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	minPasswordLen = 8
	maxPasswordLen = 72
	maxFullNameLen = 100
)

type SignupInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup processes the request to create a new account and issues a session token.
func HandleSignup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SignupInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.FullName == "" || utf8.RuneCountInString(input.FullName) > maxFullNameLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidFullName))
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < minPasswordLen || passwordLen > maxPasswordLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		account, err := deps.Users.Create(r.Context(), input.FullName, input.Email, string(hashedPassword))
		if err != nil {
			if db.IsUniqueViolation(err) {
				logx.Warn("signup conflict: email already registered", "email", input.Email)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		tokenString, err := jwt.GenerateToken(account.ID.String(), deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "failed to generate token after signup")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": tokenString,
			"user":  account,
		})
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a session token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		account, err := deps.Users.GetByEmail(r.Context(), input.Email)
		if err != nil {
			if !errors.Is(err, user.ErrNotFound) {
				logx.Error(err, "login: user fetch failed", "email", input.Email)
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "email", input.Email)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		tokenString, err := jwt.GenerateToken(account.ID.String(), deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "failed to generate token after login")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": tokenString,
			"user":  account,
		})
	}
}

// HandleLogout acknowledges the end of a session. Tokens are stateless, so the
// client simply discards its copy; nothing is tracked server-side.
func HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{"message": "Signed out."})
	}
}

// HandleCheckAuth returns the authenticated user's current profile.
func HandleCheckAuth(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := requireUser(w, r, deps)
		if !ok {
			return
		}

		resp.RespondSuccess(w, r, account)
	}
}

type UpdateProfileInput struct {
	// ProfilePic is a data URL ("data:image/png;base64,...") carrying the new image.
	ProfilePic string `json:"profilePic"`
}

// HandleUpdateProfile uploads a new profile image to object storage and stores its URL.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := requireUser(w, r, deps)
		if !ok {
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.ProfilePic == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		imageURL, customErr := uploadImageDataURL(r, deps, account.ID.String(), input.ProfilePic)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		updated, err := deps.Users.UpdateProfilePic(r.Context(), account.ID, imageURL)
		if err != nil {
			logx.Error(err, "failed to update profile picture", "user_id", account.ID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		// The new image is persisted; the superseded object is dead weight.
		if account.ProfilePic != "" {
			deleteStoredImage(r, deps, account.ProfilePic)
		}

		resp.RespondSuccess(w, r, updated)
	}
}

// requireUser gates a protected route: it resolves the token payload injected by
// the identity middleware to a live account, answering 401 when either is missing.
func requireUser(w http.ResponseWriter, r *http.Request, deps *AppDeps) (user.User, bool) {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return user.User{}, false
	}

	account, err := lookupUserByIDString(r, deps, payload.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		} else {
			logx.Error(err, "failed to resolve authenticated user", "user_id", payload.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		}
		return user.User{}, false
	}

	return account, true
}
