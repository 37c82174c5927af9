package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	authdomain "github.com/evalia-hr/evalia/internal/auth/domain"
	"github.com/evalia-hr/evalia/internal/auth/token"
	"github.com/evalia-hr/evalia/internal/clock"
	"github.com/evalia-hr/evalia/internal/config"
)

type fakeAuthService struct {
	loginCalls    int
	registerCalls int
	forgotCalls   int
	loginErr      error
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	f.loginCalls++
	_ = ctx
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &authdomain.LoginResult{
		Token: "issued-token",
		Principal: authdomain.PrincipalSummary{
			Email: req.Email,
			Role:  authdomain.RoleCompany,
		},
	}, nil
}

func (f *fakeAuthService) RegisterAdmin(ctx context.Context, req authdomain.RegisterAdminRequest) (*authdomain.LoginResult, error) {
	f.registerCalls++
	_ = ctx
	return &authdomain.LoginResult{
		Token: "issued-token",
		Principal: authdomain.PrincipalSummary{
			Email: req.Email,
			Role:  authdomain.RoleAdmin,
		},
	}, nil
}

func (f *fakeAuthService) ForgotPassword(ctx context.Context, email string) error {
	f.forgotCalls++
	_ = ctx
	_ = email
	return nil
}

func newTestIssuer(t *testing.T, clk clock.Clock) *token.Issuer {
	t.Helper()
	issuer, err := token.NewIssuer(config.Config{
		TokenSecret: "test-secret",
		TokenTTL:    time.Hour,
	}, clk)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	return issuer
}

func TestLoginHandlerValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := &fakeAuthService{}
	srv := &Server{authsvc: authSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.Login)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"bad email", `{"email":"not-an-email","password":"secret1"}`},
		{"short password", `{"email":"a@example.com","password":"abc"}`},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tc.body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", tc.name, resp.Code)
		}
	}
	if authSvc.loginCalls != 0 {
		t.Fatalf("expected no login calls, got %d", authSvc.loginCalls)
	}
}

func TestLoginHandlerInvalidCredentialsReturns401(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := &fakeAuthService{loginErr: authdomain.ErrInvalidCredentials}
	srv := &Server{authsvc: authSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.Login)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"a@example.com","password":"wrongpw"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestLoginHandlerSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := &fakeAuthService{}
	srv := &Server{authsvc: authSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.Login)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"a@example.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result authdomain.LoginResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Token != "issued-token" {
		t.Fatalf("expected issued token, got %q", result.Token)
	}
}

func TestRegisterAdminHandlerRequiresStrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := &fakeAuthService{}
	srv := &Server{authsvc: authSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/register/admin", srv.RegisterAdmin)

	req := httptest.NewRequest(http.MethodPost, "/auth/register/admin", bytes.NewBufferString(`{"name":"Ana","email":"ana@example.com","password":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if authSvc.registerCalls != 0 {
		t.Fatal("expected register service not to be called")
	}
}

func TestAuthRequiredMissingTokenReturns401(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{issuer: newTestIssuer(t, clock.NewSystemClock())}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/auth/check", srv.AuthRequired(), srv.Check)

	req := httptest.NewRequest(http.MethodGet, "/auth/check", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestAuthRequiredBadTokenReturns403(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{issuer: newTestIssuer(t, clock.NewSystemClock())}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/auth/check", srv.AuthRequired(), srv.Check)

	req := httptest.NewRequest(http.MethodGet, "/auth/check", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestAuthRequiredExpiredTokenReturns403(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, fake)
	srv := &Server{issuer: issuer}

	claims := token.Claims{Email: "a@example.com", Role: authdomain.RoleAdmin}
	claims.Subject = "1"
	raw, _, err := issuer.Issue(claims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	fake.Advance(2 * time.Hour)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/auth/check", srv.AuthRequired(), srv.Check)

	req := httptest.NewRequest(http.MethodGet, "/auth/check", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestCheckReturnsClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	issuer := newTestIssuer(t, clock.NewSystemClock())
	srv := &Server{issuer: issuer}

	claims := token.Claims{Email: "a@example.com", Role: authdomain.RoleCompany, CompanyID: "42"}
	claims.Subject = "42"
	raw, _, err := issuer.Issue(claims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/auth/check", srv.AuthRequired(), srv.Check)

	req := httptest.NewRequest(http.MethodGet, "/auth/check", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Authenticated || body.User.Email != "a@example.com" || body.User.Role != authdomain.RoleCompany {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}
