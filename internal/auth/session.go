package auth

import (
	"encoding/gob"
	"net/http"

	"github.com/VladimirTheNoob/Budget-tracker/internal/identity"
	"github.com/gorilla/sessions"
)

const (
	sessionName         = "budget_tracker_session"
	sessionPrincipalKey = "principal"
)

func init() {
	gob.Register(identity.Principal{})
}

// SessionManager binds a Principal to the browser session cookie. The cookie
// payload is signed and encrypted by gorilla/securecookie under the session
// secret.
type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string, secure bool) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

func (m *SessionManager) SavePrincipal(w http.ResponseWriter, r *http.Request, p identity.Principal) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values[sessionPrincipalKey] = p
	return session.Save(r, w)
}

// Principal returns the session-bound principal, or false when the session
// is absent or malformed.
func (m *SessionManager) Principal(r *http.Request) (identity.Principal, bool) {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return identity.Principal{}, false
	}
	p, ok := session.Values[sessionPrincipalKey].(identity.Principal)
	if !ok || (p.Email == "" && p.Subject == "") {
		return identity.Principal{}, false
	}
	return p, true
}

func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	session.Values = make(map[interface{}]interface{})
	return session.Save(r, w)
}
