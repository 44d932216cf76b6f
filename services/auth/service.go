package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/snapstack/snapstack/config"
	"github.com/snapstack/snapstack/interfaces"
	"github.com/snapstack/snapstack/internal/logger"
	"github.com/snapstack/snapstack/internal/models"
	"github.com/snapstack/snapstack/internal/tracing"
)

const sessionName = "_snapstack_session"

// Session is what the front end sees of a signed-in user.
type Session struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// ChangeEvent is pushed to subscribers whenever the auth state changes,
// mirroring the onAuthStateChange stream the UI listens to.
type ChangeEvent struct {
	Event   string   `json:"event"` // SIGNED_IN or SIGNED_OUT
	Session *Session `json:"session"`
}

type Service struct {
	users interfaces.UserRepository
	store *sessions.CookieStore
	log   logger.Logger

	mu          sync.Mutex
	subscribers map[int]chan ChangeEvent
	nextSubID   int
}

func NewService(cfg *config.SessionConfig, users interfaces.UserRepository, log logger.Logger) *Service {
	store := sessions.NewCookieStore([]byte(cfg.SecretKey))
	store.MaxAge(cfg.MaxAgeSeconds)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.SecureCookies

	gothic.Store = store
	if cfg.GoogleClientKey != "" {
		goth.UseProviders(
			google.New(cfg.GoogleClientKey, cfg.GoogleClientSecret, cfg.OAuthCallbackURL),
		)
	}

	return &Service{
		users:       users,
		store:       store,
		log:         log,
		subscribers: make(map[int]chan ChangeEvent),
	}
}

// CurrentSession returns the session bound to the request, or nil when the
// visitor is not signed in.
func (s *Service) CurrentSession(ctx context.Context, r *http.Request) (*Session, error) {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		return nil, nil
	}
	userID, ok := sess.Values["user_id"].(uint)
	if !ok {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return &Session{UserID: user.ID, Email: user.Email, Name: user.Name}, nil
}

func (s *Service) SignUp(ctx context.Context, w http.ResponseWriter, r *http.Request, email, password string) (*Session, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "AuthService.SignUp")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Provider:     "email",
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return s.establishSession(w, r, user)
}

func (s *Service) SignIn(ctx context.Context, w http.ResponseWriter, r *http.Request, email, password string) (*Session, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "AuthService.SignIn")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	return s.establishSession(w, r, user)
}

func (s *Service) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		return err
	}

	s.broadcast(ChangeEvent{Event: "SIGNED_OUT"})
	return nil
}

// BeginOAuth starts the provider redirect flow.
func (s *Service) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	gothic.BeginAuthHandler(w, r)
}

// CompleteOAuth handles the provider callback, creating the account on
// first sign-in.
func (s *Service) CompleteOAuth(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "AuthService.CompleteOAuth")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, gothUser.Email)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if user == nil {
		user = &models.User{
			Email:     gothUser.Email,
			Name:      gothUser.Name,
			AvatarURL: gothUser.AvatarURL,
			Provider:  gothUser.Provider,
		}
		if err := s.users.Create(ctx, user); err != nil {
			tracing.TraceErr(span, err)
			return nil, err
		}
	}

	return s.establishSession(w, r, user)
}

// Subscribe registers a listener for auth state changes. The returned
// cancel function must be called to release the channel.
func (s *Service) Subscribe() (<-chan ChangeEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan ChangeEvent, 8)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if ch, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Service) establishSession(w http.ResponseWriter, r *http.Request, user *models.User) (*Session, error) {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		// A stale cookie decodes to an error; start a fresh session.
		sess, _ = s.store.New(r, sessionName)
	}
	sess.Values["user_id"] = user.ID
	if err := sess.Save(r, w); err != nil {
		return nil, err
	}

	session := &Session{UserID: user.ID, Email: user.Email, Name: user.Name}
	s.broadcast(ChangeEvent{Event: "SIGNED_IN", Session: session})
	return session, nil
}

func (s *Service) broadcast(event ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Slow subscriber, drop rather than block the request.
		}
	}
}
