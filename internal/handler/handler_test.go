package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storybook-server/internal/auth"
	"storybook-server/internal/config"
	"storybook-server/internal/models"
	"storybook-server/internal/service"
)

type fakeAuthOps struct {
	user *models.User
}

func (f *fakeAuthOps) LoginOrRegister(_ context.Context, email, password, _ string) (*models.User, string, error) {
	if password != "secret123" {
		return nil, "", models.ErrInvalidCredentials
	}
	return f.user, "issued-token", nil
}

func (f *fakeAuthOps) Check(_ context.Context, tokenString string) (*models.User, error) {
	if tokenString != "issued-token" {
		return nil, models.ErrNotAuthenticated
	}
	return f.user, nil
}

type fakeBookOps struct {
	created    *models.CreatedBook
	createErr  error
	detail     *models.BookDetail
	summaries  []models.BookSummary
	searchMsg  string
	lastPrompt string
}

func (f *fakeBookOps) CreateBook(_ context.Context, _ uuid.UUID, input service.CreateBookInput) (*models.CreatedBook, error) {
	f.lastPrompt = input.Prompt
	return f.created, f.createErr
}

func (f *fakeBookOps) ListUserBooks(context.Context, uuid.UUID) ([]models.BookSummary, error) {
	return f.summaries, nil
}

func (f *fakeBookOps) GetBookByID(context.Context, uuid.UUID, uuid.UUID) (*models.BookDetail, error) {
	if f.detail == nil {
		return nil, models.ErrBookNotFound
	}
	return f.detail, nil
}

func (f *fakeBookOps) GetBookBySlug(_ context.Context, slug string) (*models.BookDetail, error) {
	if f.detail == nil || f.detail.Slug != slug {
		return nil, models.ErrBookNotFound
	}
	return f.detail, nil
}

func (f *fakeBookOps) DeleteBook(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (f *fakeBookOps) SearchBooks(context.Context, string) ([]models.BookSummary, string, error) {
	return f.summaries, f.searchMsg, nil
}

func newTestRouter(t *testing.T, books *fakeBookOps) (*gin.Engine, *fakeAuthOps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authOps := &fakeAuthOps{user: &models.User{
		ID:    uuid.New(),
		Email: "reader@example.com",
		Name:  "Reader",
		Role:  models.RoleUser,
	}}
	cfg := &config.Config{Env: "test", TokenTTL: time.Hour}

	router := gin.New()
	NewHandler(authOps, books, cfg, nil).RegisterRoutes(router)
	return router, authOps
}

func doRequest(router *gin.Engine, method, path, body string, withAuth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if withAuth {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "issued-token"})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthCheckWithoutCookie(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBookOps{})

	w := doRequest(router, http.MethodGet, "/auth/check", "", false)
	require.Equal(t, http.StatusOK, w.Code, "auth check never fails, it reports loggedIn=false")

	body := decodeBody(t, w)
	assert.Equal(t, false, body["loggedIn"])
	assert.Nil(t, body["user"])
}

func TestAuthCheckWithValidCookie(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBookOps{})

	w := doRequest(router, http.MethodGet, "/auth/check", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["loggedIn"])
	assert.NotNil(t, body["user"])
}

func TestLoginSetsCookie(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBookOps{})

	w := doRequest(router, http.MethodPost, "/auth/login",
		`{"email": "reader@example.com", "password": "secret123"}`, false)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["loggedIn"])

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "login must set the auth cookie")
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Equal(t, "issued-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginRejectsInvalidBody(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBookOps{})

	// Пароль короче 6 символов отклоняется еще на биндинге.
	w := doRequest(router, http.MethodPost, "/auth/login",
		`{"email": "reader@example.com", "password": "abc"}`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/auth/login",
		`{"email": "not-an-email", "password": "secret123"}`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBookOps{})

	w := doRequest(router, http.MethodPost, "/auth/login",
		`{"email": "reader@example.com", "password": "wrong-password"}`, false)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["loggedIn"])
}

func TestLogoutTaggedResponse(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBookOps{})

	// Без сессии это no-op, но ответ остается в общем конверте.
	w := doRequest(router, http.MethodPost, "/auth/logout", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "No active session found", body["message"])

	w = doRequest(router, http.MethodPost, "/auth/logout", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Successfully logged out", body["message"])

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "logout must expire the auth cookie")
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestCreateBookRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBookOps{})

	w := doRequest(router, http.MethodPost, "/api/books",
		`{"prompt": "a garden full of tiny clockwork animals", "numPages": 3}`, false)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
}

func TestCreateBookSuccess(t *testing.T) {
	books := &fakeBookOps{created: &models.CreatedBook{
		ID:     uuid.New(),
		Title:  "The Clockwork Garden",
		Slug:   "the-clockwork-garden-123456",
		Author: "Reader",
	}}
	router, _ := newTestRouter(t, books)

	w := doRequest(router, http.MethodPost, "/api/books",
		`{"prompt": "a garden full of tiny clockwork animals", "numPages": 3}`, true)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "a garden full of tiny clockwork animals", books.lastPrompt)
}

func TestCreateBookValidationError(t *testing.T) {
	books := &fakeBookOps{createErr: models.ErrInvalidPrompt}
	router, _ := newTestRouter(t, books)

	w := doRequest(router, http.MethodPost, "/api/books",
		`{"prompt": "short", "numPages": 3}`, true)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Prompt must be at least 10 characters", body["error"])
}

func TestGetBookBySlugPublic(t *testing.T) {
	books := &fakeBookOps{detail: &models.BookDetail{
		Book:   models.Book{ID: uuid.New(), Title: "T", Slug: "t-123456"},
		Author: "Reader",
	}}
	router, _ := newTestRouter(t, books)

	// Без cookie: чтение по слагу публичное.
	w := doRequest(router, http.MethodGet, "/books/t-123456", "", false)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestGetBookBySlugNotFound(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBookOps{})

	w := doRequest(router, http.MethodGet, "/books/missing-slug", "", false)
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
}

func TestSearchShortQueryMessage(t *testing.T) {
	books := &fakeBookOps{summaries: []models.BookSummary{}, searchMsg: "Please enter at least 2 characters to search"}
	router, _ := newTestRouter(t, books)

	w := doRequest(router, http.MethodGet, "/search?q=a", "", false)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Please enter at least 2 characters to search", body["message"])
}

func TestDeleteBookInvalidID(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBookOps{})

	w := doRequest(router, http.MethodDelete, "/api/books/not-a-uuid", "", true)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
