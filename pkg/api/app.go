package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/formlytics/formlytics-api/internal/api/analytics"
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders"
	apisession "github.com/formlytics/formlytics-api/internal/api/session"
	"github.com/formlytics/formlytics-api/internal/api/transportutil"
	"github.com/formlytics/formlytics-api/internal/api/util"
	"github.com/formlytics/formlytics-api/internal/shared/apperrors"
	"github.com/formlytics/formlytics-api/internal/shared/config"
	"github.com/formlytics/formlytics-api/internal/shared/db/gormdb"
	"github.com/formlytics/formlytics-api/internal/shared/db/migrations"
	"github.com/formlytics/formlytics-api/internal/shared/db/redis"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/auth"
	"github.com/formlytics/formlytics-api/pkg/api/policy"
	"github.com/formlytics/formlytics-api/pkg/api/services/billingevent"
	"github.com/formlytics/formlytics-api/pkg/api/services/checkout"
	"github.com/formlytics/formlytics-api/pkg/api/services/subscription"
	redigo "github.com/garyburd/redigo/redis"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	_ "github.com/mattes/migrate/database/postgres"
	"github.com/rs/cors"
	"github.com/urfave/negroni"
	"gopkg.in/redsync.v1"
)

type appServices struct {
	billingevent billingevent.Service
	checkout     checkout.Service
	subscription subscription.Service
}

type App struct {
	cfg                    config.Config
	log                    logutil.Log
	trackedLog             logutil.Log
	errTracker             apperrors.Tracker
	gormDB                 *gorm.DB
	sqlDB                  *sql.DB
	migrationsRunner       *migrations.Runner
	services               appServices
	authSessFactory        *apisession.Factory
	authorizer             *auth.Authorizer
	paymentProviderFactory paymentproviders.Factory
	analyticsTracker       analytics.Tracker
	accessGate             *policy.AccessGate
	distLockFactory        *redsync.Redsync
	redisPool              *redigo.Pool
}

func (a *App) buildDeps() {
	if a.log == nil {
		slog := logutil.NewStderrLog("formlytics-api")
		slog.SetLevel(logutil.LogLevelInfo)
		a.log = slog
	}

	if a.cfg == nil {
		a.cfg = config.NewEnvConfig(a.log)
	}

	if a.errTracker == nil {
		a.errTracker = apperrors.GetTracker(a.cfg, a.log, "api")
	}
	if a.trackedLog == nil {
		a.trackedLog = apperrors.WrapLogWithTracker(a.log, nil, a.errTracker)
	}

	if a.gormDB == nil || a.sqlDB == nil {
		dbConnString, err := gormdb.GetDBConnString(a.cfg)
		if err != nil {
			a.log.Fatalf("Can't get DB conn string: %s", err)
		}

		if a.gormDB == nil {
			gormDB, err := gormdb.GetDB(a.cfg, a.trackedLog, dbConnString)
			if err != nil {
				a.log.Fatalf("Can't get DB: %s", err)
			}
			a.gormDB = gormDB
		}

		if a.sqlDB == nil {
			sqlDB, err := gormdb.GetSQLDB(a.cfg, dbConnString)
			if err != nil {
				a.log.Fatalf("Can't get DB: %s", err)
			}
			a.sqlDB = sqlDB
		}
	}

	if a.paymentProviderFactory == nil {
		a.paymentProviderFactory = paymentproviders.NewBasicFactory(a.trackedLog, a.cfg)
	}

	if a.analyticsTracker == nil {
		a.analyticsTracker = analytics.GetTracker(context.Background())
	}

	if a.redisPool == nil {
		redisPool, err := redis.GetPool(a.cfg)
		if err != nil {
			a.log.Fatalf("Can't get redis pool: %s", err)
		}
		a.redisPool = redisPool
	}
}

func (a *App) buildAuthSessFactory() {
	authSessFactory, err := apisession.NewFactory(a.redisPool, a.cfg, 365*24*time.Hour) // 1 year
	if err != nil {
		a.log.Fatalf("Failed to make auth session factory: %s", err)
	}
	a.authSessFactory = authSessFactory
	a.authorizer = auth.NewAuthorizer(a.gormDB, a.authSessFactory)
}

func (a *App) buildServices() {
	a.services.billingevent = billingevent.BasicService{
		Cfg:       a.cfg,
		Analytics: a.analyticsTracker,
	}
	a.services.checkout = checkout.BasicService{
		ProviderFactory: a.paymentProviderFactory,
		Analytics:       a.analyticsTracker,
	}
	a.services.subscription = subscription.BasicService{
		Entitlement: policy.NewEntitlement(a.trackedLog, a.gormDB),
	}
}

func (a *App) buildAccessGate() {
	entitlement := policy.NewEntitlement(a.trackedLog, a.gormDB)
	users := policy.NewSessionUserResolver(a.trackedLog, a.authorizer)
	a.accessGate = policy.NewAccessGate(a.trackedLog, users, entitlement, a.cfg)
}

func (a *App) buildMigrationsRunner() {
	a.distLockFactory = redsync.New([]redsync.Pool{a.redisPool})
	dbConnString, err := gormdb.GetDBConnString(a.cfg)
	if err != nil {
		a.log.Fatalf("Can't get DB conn string: %s", err)
	}
	a.migrationsRunner = migrations.NewRunner(a.distLockFactory.NewMutex("migrations"), a.trackedLog,
		dbConnString, util.GetProjectRoot())
}

func NewApp(modifiers ...Modifier) *App {
	a := App{}
	for _, m := range modifiers {
		m(&a)
	}
	a.buildDeps()
	a.buildAuthSessFactory()
	a.buildServices()
	a.buildAccessGate()
	a.buildMigrationsRunner()

	return &a
}

func (a App) registerHandlers(r *mux.Router) {
	regCtx := &transportutil.HandlerRegContext{
		Router:          r,
		Log:             a.log,
		ErrTracker:      a.errTracker,
		Cfg:             a.cfg,
		DB:              a.gormDB,
		Authorizer:      a.authorizer,
		AuthSessFactory: a.authSessFactory,
	}
	billingevent.RegisterHandlers(a.services.billingevent, regCtx)
	checkout.RegisterHandlers(a.services.checkout, regCtx)
	subscription.RegisterHandlers(a.services.subscription, regCtx)

	r.HandleFunc("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		fmt.Fprint(w, `{"status":"ok"}`)
	}).Methods(http.MethodGet)
}

func (a App) runMigrations() {
	if err := a.migrationsRunner.Run(); err != nil {
		a.log.Fatalf("Can't run migrations: %s", err)
	}
}

func (a App) RunEnvironment() {
	a.runMigrations()
}

func (a App) RunForever() {
	a.RunEnvironment()

	http.Handle("/", a.GetHTTPHandler())

	addr := fmt.Sprintf(":%d", a.cfg.GetInt("PORT", 3000))
	a.log.Infof("Listening on %s...", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		a.log.Errorf("Can't listen HTTP on %s: %s", addr, err)
		os.Exit(1)
	}
}

func (a App) GetHTTPHandler() http.Handler {
	r := mux.NewRouter()
	a.registerHandlers(r)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"https://formlytics.com", "https://dev.formlytics.com"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
	})

	n := negroni.Classic()
	n.Use(c)
	n.Use(a.accessGate)
	n.UseHandler(r)
	return n
}
