package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/rfagundes/quality-control/internal/audit"
	"github.com/rfagundes/quality-control/internal/auth"
	"github.com/rfagundes/quality-control/internal/report"
	server_mocks "github.com/rfagundes/quality-control/internal/server/mocks"
	"github.com/rfagundes/quality-control/internal/service"
	"github.com/rfagundes/quality-control/internal/storage"
)

func newTestServer(t *testing.T) (http.Handler, *server_mocks.MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockService := server_mocks.NewMockService(ctrl)

	trail := audit.NewTrail(filepath.Join(t.TempDir(), "auditoria.json"), audit.DefaultLimit, zap.NewNop())
	manager := audit.NewManager(trail, 1, 10, time.Second, zap.NewNop())

	srv := New(mockService, manager, zap.NewNop())
	return srv.setupRouter(), mockService
}

func operatorUser() *auth.User {
	return &auth.User{Username: "maria", DisplayName: "Maria", Role: auth.RoleOperator, Active: true}
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.SetBasicAuth("maria", "secret")
	return req
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	router, mockService := newTestServer(t)

	mockService.EXPECT().Login("maria", "secret").Return(operatorUser(), nil)

	body := []byte(`{"username":"maria","password":"secret"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var profile struct {
		Username string    `json:"username"`
		Role     auth.Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "maria", profile.Username)
	assert.Equal(t, auth.RoleOperator, profile.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	router, mockService := newTestServer(t)

	mockService.EXPECT().Login("maria", "wrong").Return(nil, auth.ErrInvalidCredentials)

	body := []byte(`{"username":"maria","password":"wrong"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIRequiresBasicAuth(t *testing.T) {
	t.Parallel()

	router, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestSubmitPart(t *testing.T) {
	t.Parallel()

	router, mockService := newTestServer(t)

	mockService.EXPECT().Login("maria", "secret").Return(operatorUser(), nil)
	mockService.EXPECT().
		SubmitPart("P-1", 100.0, "azul", 15.0, "maria").
		Return(&service.InspectionResult{ID: "P-1", Approved: true, ContainerNumber: 1, SlotsRemaining: 9}, nil)

	body := []byte(`{"id":"P-1","weight":100,"color":"azul","length":15}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/parts", body))

	require.Equal(t, http.StatusCreated, rec.Code)

	var result service.InspectionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Approved)
	assert.Equal(t, 1, result.ContainerNumber)
}

func TestSubmitPartRequiresAllFields(t *testing.T) {
	t.Parallel()

	router, mockService := newTestServer(t)

	// One Login per request; the service itself is never reached.
	mockService.EXPECT().Login("maria", "secret").Return(operatorUser(), nil).Times(3)

	for _, body := range []string{
		`{"id":"P-1","color":"azul","length":15}`,
		`{"id":"P-1","weight":100,"length":15}`,
		`{"weight":100,"color":"azul","length":15}`,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(http.MethodPost, "/parts", []byte(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestSubmitPartDuplicateConflicts(t *testing.T) {
	t.Parallel()

	router, mockService := newTestServer(t)

	mockService.EXPECT().Login("maria", "secret").Return(operatorUser(), nil)
	mockService.EXPECT().
		SubmitPart("P-1", 100.0, "azul", 15.0, "maria").
		Return(nil, fmt.Errorf("%w: P-1", storage.ErrDuplicateID))

	body := []byte(`{"id":"P-1","weight":100,"color":"azul","length":15}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/parts", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRemovePartNotFound(t *testing.T) {
	t.Parallel()

	router, mockService := newTestServer(t)

	mockService.EXPECT().Login("maria", "secret").Return(operatorUser(), nil)
	mockService.EXPECT().
		RemovePart("GHOST", "maria").
		Return(fmt.Errorf("%w: GHOST", storage.ErrPartNotFound))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/parts/GHOST", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditPart(t *testing.T) {
	t.Parallel()

	router, mockService := newTestServer(t)

	mockService.EXPECT().Login("maria", "secret").Return(operatorUser(), nil)
	mockService.EXPECT().
		EditPart("P-1", 50.0, "azul", 15.0, "maria").
		Return(&service.InspectionResult{ID: "P-1", Approved: false, Reasons: []string{"weight out of range"}}, nil)

	body := []byte(`{"weight":50,"color":"azul","length":15}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/parts/P-1", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var result service.InspectionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Approved)
}

func TestReportDateValidation(t *testing.T) {
	t.Parallel()

	router, mockService := newTestServer(t)

	mockService.EXPECT().Login("maria", "secret").Return(operatorUser(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/report?from=10-03-2025", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportPassesWindow(t *testing.T) {
	t.Parallel()

	router, mockService := newTestServer(t)

	mockService.EXPECT().Login("maria", "secret").Return(operatorUser(), nil)
	mockService.EXPECT().
		Report(gomock.Any(), gomock.Any(), "joao").
		DoAndReturn(func(from, to *time.Time, operator string) report.Report {
			require.NotNil(t, from)
			require.NotNil(t, to)
			assert.Equal(t, 10, from.Day())
			// 'to' is stretched to the end of its day.
			assert.Equal(t, 23, to.Hour())
			return report.Report{TotalInspected: 1}
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/report?from=2025-03-10&to=2025-03-11&operator=joao", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateUserForbiddenForOperator(t *testing.T) {
	t.Parallel()

	router, mockService := newTestServer(t)

	mockService.EXPECT().Login("maria", "secret").Return(operatorUser(), nil)
	mockService.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: requires administrator", auth.ErrAccessDenied))

	body := []byte(`{"username":"joao","password":"secret","display_name":"Joao","role":"operator"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/users", body))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateCriteriaValidation(t *testing.T) {
	t.Parallel()

	router, mockService := newTestServer(t)

	mockService.EXPECT().Login("maria", "secret").Return(operatorUser(), nil)
	mockService.EXPECT().
		UpdateCriteria(gomock.Any(), gomock.Any()).
		Return(storage.ErrInvalidCapacity)

	body := []byte(`{"capacidade_caixa":0}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/criteria", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpointIsPublic(t *testing.T) {
	t.Parallel()

	router, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
