package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbot-admin/internal/handlers"
	"chatbot-admin/internal/models"
	"chatbot-admin/internal/services"
	"chatbot-admin/internal/validation"
)

var _ = Describe("AuthHandler", func() {
	var (
		router *chi.Mux
		svc    *mockAuthService
	)

	BeforeEach(func() {
		router = chi.NewRouter()
		svc = &mockAuthService{}
		h := handlers.NewAuthHandler(svc)
		router.Post("/auth/signup", h.HandleSignup)
		router.Post("/auth/login", h.HandleLogin)
		router.Post("/auth/verify-email", h.HandleVerifyEmail)
	})

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("returns 201 without leaking the verification token", func() {
		svc.signupFn = func(_ context.Context, req models.SignupRequest) (*models.SignupResponse, string, error) {
			Expect(req.Email).To(Equal("ada@example.com"))
			return &models.SignupResponse{
				User:                 models.UserResponse{ID: 7, Email: req.Email},
				VerificationRequired: true,
			}, "secret-verification-token", nil
		}

		w := post("/auth/signup", `{"email":"ada@example.com","password":"correct horse"}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).NotTo(ContainSubstring("secret-verification-token"))
		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["verification_required"]).To(BeTrue())
		Expect(resp["user"]).To(HaveKeyWithValue("id", "7"))
	})

	It("returns 409 when the email is taken", func() {
		svc.signupFn = func(context.Context, models.SignupRequest) (*models.SignupResponse, string, error) {
			return nil, "", services.ErrUserAlreadyExists
		}

		w := post("/auth/signup", `{"email":"ada@example.com","password":"correct horse"}`)

		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("returns 422 with field messages on validation failure", func() {
		svc.signupFn = func(context.Context, models.SignupRequest) (*models.SignupResponse, string, error) {
			return nil, "", validation.Field("email", "The email field must be a valid email address.")
		}

		w := post("/auth/signup", `{"email":"nope","password":"correct horse"}`)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		var resp models.ErrorResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Fields).To(HaveKeyWithValue("email", []string{"The email field must be a valid email address."}))
	})

	It("returns 400 on malformed JSON", func() {
		w := post("/auth/login", `{`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 401 on bad credentials", func() {
		svc.loginFn = func(context.Context, models.LoginRequest) (*models.AuthResponse, error) {
			return nil, services.ErrInvalidCredentials
		}

		w := post("/auth/login", `{"email":"ada@example.com","password":"wrong"}`)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("returns the access token on login", func() {
		svc.loginFn = func(context.Context, models.LoginRequest) (*models.AuthResponse, error) {
			return &models.AuthResponse{AccessToken: "jwt"}, nil
		}

		w := post("/auth/login", `{"email":"ada@example.com","password":"correct horse"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"access_token":"jwt"`))
	})

	It("requires a token to verify an email", func() {
		called := false
		svc.verifyEmailFn = func(context.Context, string) (*models.UserResponse, error) {
			called = true
			return nil, nil
		}

		w := post("/auth/verify-email", `{}`)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(called).To(BeFalse())
	})

	It("returns 400 for an invalid verification token", func() {
		svc.verifyEmailFn = func(context.Context, string) (*models.UserResponse, error) {
			return nil, services.ErrInvalidVerificationToken
		}

		w := post("/auth/verify-email", `{"token":"garbage"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
