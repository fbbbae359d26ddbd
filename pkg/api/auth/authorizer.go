package auth

import (
	"github.com/formlytics/formlytics-api/internal/api/apierrors"
	"github.com/formlytics/formlytics-api/internal/api/session"
	"github.com/formlytics/formlytics-api/pkg/api/models"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

const userIDSessKey = "UserID"
const sessType = "s"

// Authorizer resolves the current user from the auth session. Sign-in
// itself happens in a separate identity service that writes the
// UserID session key this reads.
type Authorizer struct {
	db  *gorm.DB
	asf *session.Factory
}

func NewAuthorizer(db *gorm.DB, asf *session.Factory) *Authorizer {
	return &Authorizer{
		db:  db,
		asf: asf,
	}
}

type AuthenticatedUser struct {
	AuthSess *session.Session

	User *models.User
}

func (a Authorizer) Authorize(sctx *session.RequestContext) (*AuthenticatedUser, error) {
	authSess, err := a.asf.Build(sctx, sessType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build auth sess")
	}

	userIDobj := authSess.GetValue(userIDSessKey)
	if userIDobj == nil {
		return nil, apierrors.ErrNotAuthorized
	}

	// Session values come back from JSON, so numbers are float64.
	userIDfloat, ok := userIDobj.(float64)
	if !ok {
		return nil, errors.Wrapf(apierrors.ErrNotAuthorized,
			"unexpected type %T of session user id", userIDobj)
	}
	userID := uint(userIDfloat)

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Wrapf(apierrors.ErrNotAuthorized, "no user with id %d", userID)
		}

		return nil, errors.Wrapf(err, "failed to fetch user with id %d", userID)
	}

	return &AuthenticatedUser{
		AuthSess: authSess,
		User:     &user,
	}, nil
}

func (a Authorizer) CreateAuthorization(sctx *session.RequestContext, user *models.User) error {
	authSess, err := a.asf.Build(sctx, sessType)
	if err != nil {
		return errors.Wrap(err, "failed to build auth sess")
	}

	authSess.Set(userIDSessKey, user.ID)
	return nil
}
