package endpointutil

import (
	"github.com/formlytics/formlytics-api/internal/shared/apperrors"
	"github.com/formlytics/formlytics-api/internal/shared/config"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/auth"
	"github.com/jinzhu/gorm"
)

type HandlerRegContext struct {
	Authorizer *auth.Authorizer
	Log        logutil.Log
	ErrTracker apperrors.Tracker
	Cfg        config.Config
	DB         *gorm.DB
}
