package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"stockhub/internal/config"
	apperrors "stockhub/internal/errors"
	"stockhub/internal/models"
	"stockhub/internal/pagination"
	"stockhub/internal/services"
	"stockhub/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn    func(in services.CreateUserInput) (*models.User, error)
	getUserByIDFn   func(id uint) (*models.User, error)
	listUsersFn     func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	updateUserFn    func(id uint, in services.UpdateUserInput) (*models.User, error)
	deleteUserFn    func(id uint) error
	attemptSignInFn func(email, password string) (*models.User, error)
}

func (m *mockUserService) CreateUser(in services.CreateUserInput) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(in)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(_ string) (*models.User, error) {
	return &models.User{}, nil
}

func (m *mockUserService) ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(page)
	}
	result := pagination.NewPageResponse([]models.User{}, 1, 20, 0)
	return &result, nil
}

func (m *mockUserService) UpdateUser(id uint, in services.UpdateUserInput) (*models.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(id, in)
	}
	return &models.User{}, nil
}

func (m *mockUserService) DeleteUser(id uint) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(id)
	}
	return nil
}

func (m *mockUserService) AttemptSignIn(email, password string) (*models.User, error) {
	if m.attemptSignInFn != nil {
		return m.attemptSignInFn(email, password)
	}
	return &models.User{}, nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	config.Set(&config.Config{
		JWTSecret:        "test-secret",
		JWTExpirationDur: time.Hour,
		MarketAPIKey:     "test-key",
	})
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/sign-up", handler.SignUp)
	r.POST("/auth/sign-in", handler.SignIn)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func testUser(id uint, email string) *models.User {
	return &models.User{
		Base:     models.Base{ID: id},
		Name:     "Jane",
		LastName: "Doe",
		Username: "janedoe",
		Email:    email,
		Password: "$2a$10$notarealhash",
		Role:     models.Role{Name: "user"},
	}
}

// --- tests ---

func TestAuthHandler_SignUp(t *testing.T) {
	validBody := `{"name":"Jane","lastName":"Doe","username":"janedoe","email":"jane@example.com","password":"Str0ngPass!"}`

	t.Run("returns 201 with token and user", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(in services.CreateUserInput) (*models.User, error) {
				return testUser(1, in.Email), nil
			},
		}
		handler := NewAuthHandler(userSvc)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/sign-up", validBody)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == nil || result["token"] == "" {
			t.Error("expected non-empty token")
		}
		user := result["user"].(map[string]interface{})
		if user["email"] != "jane@example.com" {
			t.Errorf("expected jane@example.com, got %v", user["email"])
		}
		if user["role"] != "user" {
			t.Errorf("expected role name in response, got %v", user["role"])
		}
	})

	t.Run("never_echoes_the_password", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(in services.CreateUserInput) (*models.User, error) {
				return testUser(1, in.Email), nil
			},
		}
		handler := NewAuthHandler(userSvc)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/sign-up", validBody)

		if strings.Contains(rec.Body.String(), "notarealhash") {
			t.Errorf("password hash leaked into response: %s", rec.Body.String())
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if _, ok := user["password"]; ok {
			t.Error("expected no password field in user payload")
		}
	})

	t.Run("returns 400 on missing email", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/sign-up",
			`{"name":"Jane","lastName":"Doe","username":"janedoe","password":"Str0ngPass!"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on weak password", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{})
		r := setupAuthRouter(handler)

		// No upper case, digit, or symbol.
		rec := doRequest(r, "POST", "/auth/sign-up",
			`{"name":"Jane","lastName":"Doe","username":"janedoe","email":"jane@example.com","password":"weakpassword"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_ services.CreateUserInput) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		handler := NewAuthHandler(userSvc)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/sign-up", validBody)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_SignIn(t *testing.T) {
	t.Run("returns 200 with token on success", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptSignInFn: func(email, _ string) (*models.User, error) {
				return testUser(1, email), nil
			},
		}
		handler := NewAuthHandler(userSvc)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/sign-in",
			`{"email":"jane@example.com","password":"Str0ngPass!"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == nil || result["token"] == "" {
			t.Error("expected non-empty token")
		}
	})

	t.Run("returns 403 with uniform message on bad credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptSignInFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		handler := NewAuthHandler(userSvc)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/sign-in",
			`{"email":"jane@example.com","password":"wrongpass"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INVALID_CREDENTIALS")
		errObj := result["error"].(map[string]interface{})
		if errObj["message"] != "Invalid email or password" {
			t.Errorf("expected the uniform credentials message, got %v", errObj["message"])
		}
	})

	t.Run("returns 400 on missing fields", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/sign-in", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
