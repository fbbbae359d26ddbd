package transportutil

import (
	"github.com/formlytics/formlytics-api/internal/api/session"
	"github.com/formlytics/formlytics-api/internal/shared/apperrors"
	"github.com/formlytics/formlytics-api/internal/shared/config"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/auth"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
)

type HandlerRegContext struct {
	Router          *mux.Router
	Log             logutil.Log
	ErrTracker      apperrors.Tracker
	Cfg             config.Config
	DB              *gorm.DB
	Authorizer      *auth.Authorizer
	AuthSessFactory *session.Factory
}
