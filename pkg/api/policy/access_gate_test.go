package policy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/formlytics/formlytics-api/internal/shared/config"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/models"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserResolver struct {
	user *models.User
}

func (r stubUserResolver) Resolve(_ *http.Request) (*models.User, error) {
	return r.user, nil
}

func newTestGate(db *gorm.DB, user *models.User) *AccessGate {
	log := logutil.NewStderrLog("test")
	return NewAccessGate(log, stubUserResolver{user: user}, newEntitlement(db), config.NewEnvConfig(log))
}

func runGate(t *testing.T, gate *AccessGate, path string) (*httptest.ResponseRecorder, bool) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()

	nextCalled := false
	gate.ServeHTTP(w, req, func(http.ResponseWriter, *http.Request) {
		nextCalled = true
	})

	return w, nextCalled
}

func TestAccessGateAnonymousOnProtectedPath(t *testing.T) {
	gate := newTestGate(setupTestDB(t), nil)

	w, nextCalled := runGate(t, gate, "/dashboard")
	assert.False(t, nextCalled)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/signin", w.Header().Get("Location"))
}

func TestAccessGateUnsubscribedOnEntitledPath(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	gate := newTestGate(db, user)

	w, nextCalled := runGate(t, gate, "/dashboard")
	assert.False(t, nextCalled)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/plans", w.Header().Get("Location"))
}

func TestAccessGateSubscribedOnPlansPage(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	cust := seedCustomerFor(t, db, user)
	seedSubscription(t, db, cust, "sub_1", "active", "pri_basic_month")
	gate := newTestGate(db, user)

	w, nextCalled := runGate(t, gate, "/plans")
	assert.False(t, nextCalled)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestAccessGateSubscribedPassthrough(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	cust := seedCustomerFor(t, db, user)
	seedSubscription(t, db, cust, "sub_1", "trialing", "pri_basic_month")
	gate := newTestGate(db, user)

	w, nextCalled := runGate(t, gate, "/dashboard")
	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccessGateUnsubscribedOnPlansPage(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	gate := newTestGate(db, user)

	_, nextCalled := runGate(t, gate, "/plans")
	assert.True(t, nextCalled)
}

func TestAccessGateAuthPagesRedirectSignedInUsers(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	gate := newTestGate(db, user)

	w, nextCalled := runGate(t, gate, "/signin")
	assert.False(t, nextCalled)
	assert.Equal(t, "/plans", w.Header().Get("Location"))

	cust := seedCustomerFor(t, db, user)
	seedSubscription(t, db, cust, "sub_1", "active", "pri_basic_month")

	w, nextCalled = runGate(t, gate, "/signup")
	assert.False(t, nextCalled)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestAccessGateAnonymousOnAuthPage(t *testing.T) {
	gate := newTestGate(setupTestDB(t), nil)

	_, nextCalled := runGate(t, gate, "/signin")
	assert.True(t, nextCalled)
}

func TestAccessGateIgnoresWebhookPath(t *testing.T) {
	gate := newTestGate(setupTestDB(t), nil)

	_, nextCalled := runGate(t, gate, "/v1/billing/paddle/events")
	assert.True(t, nextCalled)
}
