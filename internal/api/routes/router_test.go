package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/rfp-portal/internal/api/handlers"
	"github.com/linskybing/rfp-portal/internal/api/middleware"
	"github.com/linskybing/rfp-portal/internal/application"
	"github.com/linskybing/rfp-portal/internal/domain/qa"
	"github.com/linskybing/rfp-portal/internal/domain/vendor"
	"github.com/linskybing/rfp-portal/internal/recordstore"
	"github.com/linskybing/rfp-portal/internal/repository"
	"github.com/linskybing/rfp-portal/internal/session"
	"github.com/linskybing/rfp-portal/internal/storage"
	"github.com/linskybing/rfp-portal/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@portal.test"
	adminPassword = "admin-pass-123"
	sweepToken    = "sweep-secret"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	middleware.Init("router-test-secret", "router-test")
	os.Exit(m.Run())
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	svc    *application.Services
	docs   *storage.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	hasher := application.BcryptHasher{Cost: bcrypt.MinCost}
	adminHash, err := hasher.Hash(adminPassword)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	docs := storage.NewMemoryStore()
	sessions := session.NewMemoryStore()
	svc := application.New(application.Deps{
		Repos:     repository.NewRepositories(recordstore.NewMemoryStore(), 1000),
		Documents: docs,
		Sessions:  sessions,
		Hasher:    hasher,
		Admin:     application.AdminCredentials{Email: adminEmail, PasswordHash: adminHash},
		TokenTTL:  time.Hour,
		Logger:    logger,
	})

	r := gin.New()
	RegisterRoutes(r, handlers.New(svc, handlers.Options{TokenTTL: time.Hour, Logger: logger}), Options{
		Sessions:         sessions,
		MaintenanceToken: sweepToken,
	})
	return &testServer{t: t, router: r, svc: svc, docs: docs}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(path, email, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, path, "", vendor.LoginInput{Email: email, Password: password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp response.TokenResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

// approvedVendor registers and approves a vendor directly through the services.
func (s *testServer) approvedVendor(email string) (vendor.Vendor, string) {
	s.t.Helper()
	ctx := context.Background()
	v, err := s.svc.Identity.Register(ctx, vendor.RegisterInput{
		CompanyName: "Vendor " + email,
		ContactName: "Contact",
		Email:       email,
		Password:    "vendor-pass-1",
	}, nil)
	require.NoError(s.t, err)
	_, err = s.svc.Approval.Approve(ctx, adminEmail, v.ID)
	require.NoError(s.t, err)
	return v, s.login("/vendors/login", email, "vendor-pass-1")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func proposal() map[string]any {
	return map[string]any{
		"rfpType":           "care-coordination",
		"currentWorkflow":   "Spreadsheets",
		"painPoints":        "Missed follow-ups",
		"desiredOutcomes":   "Automated referrals",
		"integrationScores": map[string]int{"epic": 4},
		"upfrontCost":       "$12,500",
		"annualCost":        4000,
		"references":        []map[string]string{{"company": "Mercy", "contactName": "Sam", "email": "sam@mercy.test"}},
		"step2Questions":    "Do you support HL7?",
		"attestAccurate":    true,
		"attestAuthorized":  true,
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegistrationApprovalFlow(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("companyName", "Acme Health"))
	require.NoError(t, mw.WriteField("contactName", "Jane Doe"))
	require.NoError(t, mw.WriteField("email", "Jane@Acme.test"))
	require.NoError(t, mw.WriteField("password", "s3cret-pass"))
	fw, err := mw.CreateFormFile("nda", "nda.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 signed"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/vendors/register", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	profile := decode[vendor.Profile](t, w)
	assert.Equal(t, "jane@acme.test", profile.Email)
	assert.Equal(t, vendor.StatusPendingApproval, profile.Status)

	w = s.do(http.MethodGet, "/vendors/check-email?email=JANE@acme.test", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PENDING", decode[response.IdentityResponse](t, w).Status)

	w = s.do(http.MethodPost, "/vendors/login", "", vendor.LoginInput{Email: "jane@acme.test", Password: "s3cret-pass"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, decode[response.ErrorResponse](t, w).Error, "pending")

	w = s.do(http.MethodPost, "/vendors/login", "", vendor.LoginInput{Email: "jane@acme.test", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	admin := s.login("/admin/login", adminEmail, adminPassword)

	w = s.do(http.MethodGet, "/admin/vendors?status=Pending%20Approval", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]vendor.Vendor](t, w), 1)

	w = s.do(http.MethodPost, "/admin/vendors/"+profile.ID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, vendor.StatusApproved, decode[vendor.Vendor](t, w).Status)

	w = s.do(http.MethodPost, "/admin/vendors/"+profile.ID+"/decline", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/admin/vendors/recMissing00000/approve", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	token := s.login("/vendors/login", "jane@acme.test", "s3cret-pass")
	w = s.do(http.MethodGet, "/vendor/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, vendor.StatusApproved, decode[vendor.Profile](t, w).Status)

	w = s.do(http.MethodPost, "/vendors/register", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/vendors/register", "", vendor.RegisterInput{
		CompanyName: "Acme Again",
		ContactName: "Jane Doe",
		Email:       "  JANE@Acme.test ",
		Password:    "another-pass",
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, decode[response.ErrorResponse](t, w).Error, "approved")

	w = s.do(http.MethodPost, "/vendors/register", "", vendor.RegisterInput{
		CompanyName: "Acme Again",
		ContactName: "Jane Doe",
		Email:       "not-an-email",
		Password:    "another-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoleSeparation(t *testing.T) {
	s := newTestServer(t)
	_, token := s.approvedVendor("vendor@a.test")
	admin := s.login("/admin/login", adminEmail, adminPassword)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/admin/vendors", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/vendor/draft", admin, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/vendor/draft", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/vendor/draft", "garbage", nil).Code)
}

func TestDraftAndSubmissionLifecycle(t *testing.T) {
	s := newTestServer(t)
	owner, token := s.approvedVendor("owner@a.test")
	_, other := s.approvedVendor("other@b.test")
	admin := s.login("/admin/login", adminEmail, adminPassword)

	w := s.do(http.MethodGet, "/vendor/draft", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "null", string(decode[map[string]json.RawMessage](t, w)["draft"]))

	w = s.do(http.MethodPut, "/vendor/draft", token, map[string]any{"formData": map[string]any{"step": 2}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPut, "/vendor/draft", token, map[string]any{"formData": map[string]any{"step": 3}})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/vendor/draft", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"step":3`)

	w = s.do(http.MethodPut, "/vendor/draft", token, map[string]any{"formData": nil})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/vendor/submissions", token, map[string]any{"rfpType": "care-coordination"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/vendor/submissions", token, proposal())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	subID := decode[map[string]string](t, w)["submissionId"]
	require.NotEmpty(t, subID)

	w = s.do(http.MethodGet, "/vendor/draft", token, nil)
	assert.JSONEq(t, "null", string(decode[map[string]json.RawMessage](t, w)["draft"]))

	w = s.do(http.MethodGet, "/vendor/submissions/"+subID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sub := decode[map[string]any](t, w)
	assert.Equal(t, owner.CompanyName, sub["companyName"])
	assert.Equal(t, 12500.0, sub["upfrontCost"])

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/vendor/submissions/"+subID, other, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, "/vendor/submissions/"+subID, other, proposal()).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/vendor/submissions/recMissing00000", token, nil).Code)

	w = s.do(http.MethodPut, "/admin/submissions/"+subID+"/review", admin, map[string]any{"status": "Shortlisted", "notes": "Strong"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Shortlisted", decode[map[string]any](t, w)["reviewStatus"])

	w = s.do(http.MethodPut, "/admin/submissions/"+subID+"/review", admin, map[string]any{"status": "Maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	edited := proposal()
	edited["painPoints"] = "Duplicate data entry"
	w = s.do(http.MethodPut, "/vendor/submissions/"+subID, token, edited)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sub = decode[map[string]any](t, w)
	assert.Equal(t, "Pending", sub["reviewStatus"])
	assert.Equal(t, "Duplicate data entry", sub["painPoints"])

	w = s.do(http.MethodGet, "/vendor/submissions", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = s.do(http.MethodGet, "/admin/audit", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "[]", w.Body.String())
}

func TestQuestionThreadFlow(t *testing.T) {
	s := newTestServer(t)
	_, token := s.approvedVendor("owner@a.test")
	_, other := s.approvedVendor("other@b.test")
	admin := s.login("/admin/login", adminEmail, adminPassword)

	w := s.do(http.MethodPost, "/vendor/submissions", token, proposal())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	subID := decode[map[string]string](t, w)["submissionId"]

	w = s.do(http.MethodPost, "/vendor/submissions/"+subID+"/questions", token, qa.AskInput{Step: "step3", Question: "Is SSO included?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/vendor/submissions/"+subID+"/questions", other, qa.AskInput{Step: "step3", Question: "Hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/admin/questions", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[qa.ThreadList](t, w)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, 2, list.UnansweredCount)

	w = s.do(http.MethodPost, "/admin/submissions/"+subID+"/answers", admin, qa.AnswerInput{Step: "step2", Answer: "Yes, v2 and FHIR."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/admin/submissions/"+subID+"/answers", admin, qa.AnswerInput{Step: "step4", Answer: "Nothing was asked"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPost, "/admin/submissions/"+subID+"/answers", admin, qa.AnswerInput{Step: "step9", Answer: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/vendor/questions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[qa.ThreadList](t, w)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, 1, list.NewAnswerCount)
	assert.Equal(t, 1, list.UnansweredCount)

	w = s.do(http.MethodGet, "/vendor/questions", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[qa.ThreadList](t, w).Total)

	w = s.do(http.MethodPost, "/vendor/questions/read", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[response.CountResponse](t, w).Count)

	w = s.do(http.MethodGet, "/vendor/questions", token, nil)
	assert.Equal(t, 0, decode[qa.ThreadList](t, w).NewAnswerCount)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	_, token := s.approvedVendor("owner@a.test")

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/vendor/me", token, nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/vendor/me", token, nil).Code)
}

func TestMaintenanceSweep(t *testing.T) {
	s := newTestServer(t)
	_, token := s.approvedVendor("owner@a.test")
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/vendor/draft", token, map[string]any{"formData": map[string]any{"a": 1}}).Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/maintenance/drafts/sweep", "", nil).Code)

	req := httptest.NewRequest(http.MethodPost, "/maintenance/drafts/sweep?retention=bogus", nil)
	req.Header.Set("X-Maintenance-Token", sweepToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/maintenance/drafts/sweep", nil)
	req.Header.Set("X-Maintenance-Token", sweepToken)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[response.CountResponse](t, w).Count)
}
