// Package validation checks request fields shared by the HTTP and gRPC
// transports. Failures wrap common.ErrorValidation.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

const (
	UsernameMinLen = 4
	UsernameMaxLen = 20

	// bcrypt ignores everything past 72 bytes
	PasswordMaxBytes = 72
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{common.ErrorValidation}, args...)...)
}

func Username(username string) error {
	n := utf8.RuneCountInString(username)
	if n < UsernameMinLen || n > UsernameMaxLen {
		return invalid("username must be %d to %d characters", UsernameMinLen, UsernameMaxLen)
	}
	if strings.TrimSpace(username) != username {
		return invalid("username must not start or end with spaces")
	}
	return nil
}

// Password only rejects what the hasher cannot take: an empty value or one
// longer than PasswordMaxBytes.
func Password(password string) error {
	if password == "" {
		return invalid("password is required")
	}
	if len(password) > PasswordMaxBytes {
		return invalid("password must be at most %d bytes", PasswordMaxBytes)
	}
	return nil
}

func Credentials(username, password string) error {
	if err := Username(username); err != nil {
		return err
	}
	return Password(password)
}

func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("title is required")
	}
	return nil
}

// Status parses a required status value.
func Status(s string) (models.TaskStatus, error) {
	status := models.TaskStatus(s)
	if !status.Valid() {
		return "", invalid("status must be one of %s, %s, %s",
			models.TaskStatusOpen, models.TaskStatusInProgress, models.TaskStatusDone)
	}
	return status, nil
}

// StatusFilter is Status for an optional value: "" means no filter.
func StatusFilter(s string) (models.TaskStatus, error) {
	if s == "" {
		return "", nil
	}
	return Status(s)
}
