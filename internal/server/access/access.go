// Package access decides whether a download-by-link request may read a file.
// It performs no I/O.
package access

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

// Decision is the outcome of Decide. The zero value denies.
type Decision struct {
	allowed bool
	reason  error
}

func Allow() Decision { return Decision{allowed: true} }

func Deny(reason error) Decision { return Decision{reason: reason} }

func (d Decision) Allowed() bool { return d.allowed }

// Err is nil for an allowed request and the denial reason otherwise.
func (d Decision) Err() error {
	if d.allowed {
		return nil
	}
	if d.reason == nil {
		return common.ErrorAccessDenied
	}
	return d.reason
}

// Decide applies the permission tier of file to a request carrying an
// optional password:
//
//	PRIVATE             deny, ErrorAccessDenied
//	PUBLIC              allow
//	PASSWORD_PROTECTED  allow iff password matches, else ErrorInvalidPassword
//
// Unknown tiers deny with ErrorAccessDenied.
func Decide(file *models.File, password *string) Decision {
	if file == nil {
		return Deny(common.ErrorAccessDenied)
	}

	switch file.Permission {
	case models.PermissionPublic:
		return Allow()
	case models.PermissionPasswordProtected:
		if password == nil || file.AccessPassword == nil {
			return Deny(common.ErrorInvalidPassword)
		}
		if subtle.ConstantTimeCompare([]byte(*password), []byte(*file.AccessPassword)) != 1 {
			return Deny(common.ErrorInvalidPassword)
		}
		return Allow()
	default:
		return Deny(common.ErrorAccessDenied)
	}
}
