package sessionkit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/giftfinder/sessionkit/session"
	"github.com/giftfinder/sessionkit/storage"
)

const (
	auditEventSignInSuccess    = "signin_success"
	auditEventSignInFailure    = "signin_failure"
	auditEventSignInSuperseded = "signin_superseded"
	auditEventSignOut          = "signout"
	auditEventSessionRestored  = "session_restored"
	auditEventSessionExpired   = "session_expired"
	auditEventStorageDegraded  = "storage_degraded"
)

// AuditErrorCode defines a public type used by sessionkit APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrSuperseded         AuditErrorCode = "superseded"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrTokenExpired       AuditErrorCode = "token_expired"
	auditErrStorage            AuditErrorCode = "storage_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (c *Client) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if c == nil || c.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	c.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrAuthenticationFailed):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrLoginUnavailable):
		return auditErrUnavailable
	case errors.Is(err, ErrSignInSuperseded):
		return auditErrSuperseded
	case errors.Is(err, session.ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, session.ErrTokenInvalid):
		return auditErrInvalidToken
	case errors.Is(err, storage.ErrUnavailable):
		return auditErrStorage
	default:
		return auditErrInternal
	}
}
