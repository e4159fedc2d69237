package rest

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Machine-readable error codes carried in every error response.
const (
	CodeValidation           = "VALIDATION"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeInternal             = "INTERNAL"
	CodeUsernameTaken        = "USERNAME_TAKEN"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodePlayerNameTaken      = "PLAYER_NAME_TAKEN"
	CodeClassNotInRace       = "CLASS_NOT_AVAILABLE_FOR_RACE"
	CodeRaceNotInFaction     = "RACE_NOT_IN_FACTION"
	CodeGuildNotFound        = "GUILD_NOT_FOUND"
	CodeGuildFactionMismatch = "GUILD_FACTION_MISMATCH"
	CodeAchievementNotFound  = "ACHIEVEMENT_NOT_FOUND"
	CodeProgressNotFound     = "PROGRESS_NOT_FOUND"
	CodeNegativeExperience   = "NEGATIVE_EXPERIENCE"
	CodeFactionNotFound      = "FACTION_NOT_FOUND"
	CodeRaceNotFound         = "RACE_NOT_FOUND"
	CodeClassNotFound        = "CLASS_NOT_FOUND"
	CodeUserNotFound         = "USER_NOT_FOUND"
)

// ErrorResponse is the error envelope every failed request returns.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	ErrorCode string    `json:"errorCode"`
	Path      string    `json:"path"`
}

// fail aborts the request with the standard error envelope.
func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
		ErrorCode: code,
		Path:      c.Request.URL.Path,
	})
}

// isUniqueViolation detects duplicate-key errors from common database drivers.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already exists")
}
