package identity_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/identity"
)

func TestIdentity(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Identity Suite")
}

type mockDirectory struct {
	idsByEmail     map[string]string
	ids            map[string]bool
	idsByLegacyKey map[string]string
	provisioned    []identity.NewUser
	provisionError error
	raceWinner     string
	nextID         string
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		idsByEmail:     make(map[string]string),
		ids:            make(map[string]bool),
		idsByLegacyKey: make(map[string]string),
		nextID:         "new-id",
	}
}

func (m *mockDirectory) FindIDByEmail(email string) (string, error) {
	return m.idsByEmail[email], nil
}

func (m *mockDirectory) IDExists(id string) (bool, error) {
	return m.ids[id], nil
}

func (m *mockDirectory) FindIDByLegacyKey(key string) (string, error) {
	return m.idsByLegacyKey[key], nil
}

func (m *mockDirectory) ProvisionUser(u identity.NewUser) (string, error) {
	if m.provisionError != nil {
		// The concurrent winner's row is visible by the time the retry
		// lookup runs.
		if m.raceWinner != "" {
			m.idsByEmail[u.Email] = m.raceWinner
		}
		return "", m.provisionError
	}
	m.provisioned = append(m.provisioned, u)
	m.idsByEmail[u.Email] = m.nextID
	m.ids[m.nextID] = true
	return m.nextID, nil
}

var _ = Describe("Resolver", func() {
	var (
		dir      *mockDirectory
		resolver *identity.Resolver
	)

	BeforeEach(func() {
		dir = newMockDirectory()
		lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver = identity.NewResolver(dir, lg)
	})

	Describe("Resolve", func() {
		It("matches by normalized email first", func() {
			dir.idsByEmail["alice@mail.com"] = "u1"

			id, err := resolver.Resolve(identity.Principal{Email: "  Alice@Mail.com "})
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("u1"))
		})

		It("falls back to the durable id in the subject", func() {
			dir.ids["u2"] = true

			id, err := resolver.Resolve(identity.Principal{Subject: "u2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("u2"))
		})

		It("falls back to the legacy key shim for numeric subjects", func() {
			key, ok := identity.LegacyKeyFor("employee-42")
			Expect(ok).To(BeTrue())
			dir.idsByLegacyKey[key] = "u3"

			id, err := resolver.Resolve(identity.Principal{Subject: "employee-42"})
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("u3"))
		})

		It("derives the same legacy key for a bare numeric subject", func() {
			fromComposite, _ := identity.LegacyKeyFor("employee-42")
			fromBare, _ := identity.LegacyKeyFor("42")
			Expect(fromBare).To(Equal(fromComposite))
		})

		It("returns not found when no strategy matches", func() {
			_, err := resolver.Resolve(identity.Principal{Email: "ghost@mail.com", Subject: "nope"})
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("ResolveOrProvision", func() {
		It("provisions an employee-role user for an unknown principal", func() {
			id, err := resolver.ResolveOrProvision(identity.Principal{
				Email:       "new@mail.com",
				DisplayName: "New Person",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("new-id"))
			Expect(dir.provisioned).To(HaveLen(1))
			Expect(dir.provisioned[0].Role).To(Equal("employee"))
			Expect(dir.provisioned[0].Name).To(Equal("New Person"))
		})

		It("does not provision when the principal resolves", func() {
			dir.idsByEmail["alice@mail.com"] = "u1"

			id, err := resolver.ResolveOrProvision(identity.Principal{Email: "alice@mail.com"})
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("u1"))
			Expect(dir.provisioned).To(BeEmpty())
		})

		It("uses the email as the name when the profile has none", func() {
			_, err := resolver.ResolveOrProvision(identity.Principal{Email: "bare@mail.com"})
			Expect(err).NotTo(HaveOccurred())
			Expect(dir.provisioned[0].Name).To(Equal("bare@mail.com"))
		})

		It("refuses to provision a principal without an email", func() {
			_, err := resolver.ResolveOrProvision(identity.Principal{Subject: "opaque"})
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("re-resolves after losing a provisioning race", func() {
			dir.provisionError = errors.New("duplicate key value violates unique constraint")
			dir.raceWinner = "winner"

			id, err := resolver.ResolveOrProvision(identity.Principal{Email: "raced@mail.com"})
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("winner"))
		})

		It("surfaces a provisioning failure that is not a race", func() {
			dir.provisionError = errors.New("connection refused")

			_, err := resolver.ResolveOrProvision(identity.Principal{Email: "fresh@mail.com"})
			Expect(err).To(HaveOccurred())
		})
	})
})
