package auth_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/auth"
	"github.com/VladimirTheNoob/Budget-tracker/internal/identity"
)

var _ = Describe("Auth Service", func() {
	var (
		users    *mockLoginRepository
		tokenGen *auth.JWTTokenGenerator
		service  *auth.Service
	)

	BeforeEach(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		users = &mockLoginRepository{
			hashes: map[string]string{"alice@mail.com": string(hash)},
			ids:    map[string]string{"alice@mail.com": "u1"},
		}
		tokenGen = auth.NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
		service = auth.NewService(users, tokenGen)
	})

	Describe("Authenticate", func() {
		It("returns a principal and token pair for valid credentials", func() {
			principal, tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "Alice@Mail.com",
				Password: "s3cret",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(principal.Email).To(Equal("alice@mail.com"))
			Expect(principal.Subject).To(Equal("u1"))
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("rejects a wrong password", func() {
			_, _, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@mail.com",
				Password: "wrong",
			})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("rejects an unknown email with the same error as a wrong password", func() {
			_, _, err := service.Authenticate(auth.LoginDTO{
				Email:    "ghost@mail.com",
				Password: "s3cret",
			})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("rejects a malformed email before touching the store", func() {
			_, _, err := service.Authenticate(auth.LoginDTO{
				Email:    "not-an-email",
				Password: "s3cret",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Tokens", func() {
		It("round-trips claims through an access token", func() {
			_, tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@mail.com",
				Password: "s3cret",
			})
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Subject).To(Equal("u1"))
			Expect(claims.Email).To(Equal("alice@mail.com"))
		})

		It("rotates the pair off a valid refresh token", func() {
			_, tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@mail.com",
				Password: "s3cret",
			})
			Expect(err).NotTo(HaveOccurred())

			rotated, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(rotated.AccessToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(rotated.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Subject).To(Equal("u1"))
		})

		It("rejects an expired token", func() {
			expiredGen := auth.NewJWTTokenGenerator("access-secret", "refresh-secret", -time.Minute, -time.Minute)
			token, err := expiredGen.GenerateAccessToken("u1", "alice@mail.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(Equal(internal.ErrTokenExpired))
		})

		It("rejects a token signed with the wrong secret", func() {
			otherGen := auth.NewJWTTokenGenerator("other-secret", "other-refresh", 15*time.Minute, 7*24*time.Hour)
			token, err := otherGen.GenerateAccessToken("u1", "alice@mail.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})
	})
})

var _ = Describe("Session manager", func() {
	It("round-trips a principal through the session cookie", func() {
		sessions := auth.NewSessionManager("0123456789abcdef0123456789abcdef", false)
		principal := identity.Principal{Email: "alice@mail.com", DisplayName: "Alice", Subject: "u1"}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		Expect(sessions.SavePrincipal(rec, req, principal)).To(Succeed())

		next := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		for _, c := range rec.Result().Cookies() {
			next.AddCookie(c)
		}

		got, ok := sessions.Principal(next)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal(principal))
	})

	It("reports no principal for a bare request", func() {
		sessions := auth.NewSessionManager("0123456789abcdef0123456789abcdef", false)
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		_, ok := sessions.Principal(req)
		Expect(ok).To(BeFalse())
	})
})
