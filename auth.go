package main

import (
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a pre-computed bcrypt hash used when a sign-in email isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based account enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

const minPasswordLength = 8

// signUp creates an account with a bcrypt-hashed password and a fresh auth token.
// POST /v1/auth/sign-up (public).
func (h *Handler) signUp(c *gin.Context) {
	var body struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	body.FirstName = strings.TrimSpace(body.FirstName)
	body.LastName = strings.TrimSpace(body.LastName)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	if body.FirstName == "" || body.LastName == "" {
		apiError(c, http.StatusBadRequest, "firstName and lastName are required")
		return
	}
	if _, err := mail.ParseAddress(body.Email); err != nil {
		apiError(c, http.StatusBadRequest, "invalid email")
		return
	}
	if len(body.Password) < minPasswordLength {
		apiError(c, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[signUp] bcrypt error: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to create account")
		return
	}

	u, err := queryOne[user](h.db, c,
		`INSERT INTO users (id, first_name, last_name, email, password, auth_token)
		 VALUES (@id, @firstName, @lastName, @email, @password, @authToken)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": uuid.NewString(), "firstName": body.FirstName, "lastName": body.LastName,
			"email": body.Email, "password": string(hash), "authToken": uuid.NewString(),
		})
	if err != nil {
		dbError(c, err, "account")
		return
	}

	c.JSON(http.StatusCreated, u)
}

// signIn verifies email/password and returns the user's access token.
// POST /v1/auth/sign-in (public).
func (h *Handler) signIn(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE email = @email",
		pgx.NamedArgs{"email": strings.ToLower(strings.TrimSpace(body.Email))})

	// Always run bcrypt to keep response time constant regardless of whether the
	// email was found.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": u.AuthToken})
}

// authMiddleware validates the Bearer token and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		var userID string
		err := h.db.QueryRow(c, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
