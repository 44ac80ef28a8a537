package main

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// register creates an account with a bcrypt-hashed password and an opaque
// bearer token, and signs the new user in.
// POST /api/register (public — no auth required).
func (h *Handler) register(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	body.Username = strings.TrimSpace(body.Username)
	body.Email = strings.TrimSpace(body.Email)
	if len(body.Username) < 3 {
		apiError(c, http.StatusBadRequest, "username must be at least 3 characters")
		return
	}
	if _, err := mail.ParseAddress(body.Email); err != nil {
		apiError(c, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(body.Password) < 8 {
		apiError(c, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}
	token := uuid.New().String()

	u, err := queryOne[user](h.db, c,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES (@username, @email, @password, @authToken)
		 RETURNING *`,
		pgx.NamedArgs{
			"username": body.Username, "email": body.Email,
			"password": string(hash), "authToken": token,
		})
	if err != nil {
		// 23505 = unique_violation on username or email
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			apiError(c, http.StatusConflict, "username or email already taken")
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// login verifies username/password and returns the user's auth token.
// POST /api/login (public — no auth required).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": body.Username})

	// Always run bcrypt to keep response time constant regardless of whether the
	// username was found — prevents timing-based username enumeration.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// getMe returns the authenticated user's identity record.
// GET /api/me.
func (h *Handler) getMe(c *gin.Context) {
	userID := c.GetInt("user_id")

	u, err := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE id = @id", pgx.NamedArgs{"id": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "user not found")
		return
	}

	c.JSON(http.StatusOK, u)
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

		var userID int
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

// requireOwner is the single authorization guard for user-scoped resources:
// every gateway operation targeting a user_id goes through it. Writes 401 when
// no session identity is on the context and 403 when the session identity does
// not match the target. Returns false when the request must not proceed.
func requireOwner(c *gin.Context, resourceUserID int) bool {
	sessionID, exists := c.Get("user_id")
	if !exists {
		apiError(c, http.StatusUnauthorized, "authentication required")
		return false
	}
	if sessionID.(int) != resourceUserID {
		apiError(c, http.StatusForbidden, "not allowed to access this user's data")
		return false
	}
	return true
}
