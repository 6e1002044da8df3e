package state

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/pulse/internal/logging"
	"github.com/alexanderramin/pulse/internal/remote"
	"github.com/alexanderramin/pulse/internal/repository"
)

// Messages shown by AuthState.
const (
	MsgMissingCredentials   = "请输入账号和密码"
	MsgIncompleteSignup     = "请完整填写注册信息（包括昵称）"
	MsgPasswordMismatch     = "两次输入的密码不一致"
	MsgLoginFailed          = "登录失败"
	MsgVerificationRequired = "注册成功，请前往邮箱验证后登录"
)

// ErrVerificationPending means signup succeeded but the account must be
// confirmed before a session is issued.
var ErrVerificationPending = errors.New("email verification pending")

// AuthAPI is the subset of the backend client AuthState uses.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*remote.TokenResponse, error)
	Signup(ctx context.Context, email, password, displayName string) (*remote.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*remote.TokenResponse, error)
	Logout(ctx context.Context) error
}

type AuthState struct {
	holder
	api      AuthAPI
	session  *remote.SessionHolder
	profiles repository.ProfileRepo
	log      logging.Logger
	loggedIn bool
}

func NewAuthState(api AuthAPI, session *remote.SessionHolder, profiles repository.ProfileRepo, log logging.Logger, opts Options) *AuthState {
	if log == nil {
		log = logging.Nop()
	}
	s := &AuthState{api: api, session: session, profiles: profiles, log: log}
	s.init(opts)
	return s
}

func (s *AuthState) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

func (s *AuthState) setLoggedIn(v bool) {
	s.mu.Lock()
	s.loggedIn = v
	s.mu.Unlock()
}

// Login signs in and makes sure a profile row exists.
func (s *AuthState) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return s.reject(MsgMissingCredentials)
	}
	return s.run(ctx, "login", func(ctx context.Context) error {
		tok, err := s.api.Login(ctx, strings.TrimSpace(email), password)
		if err != nil {
			return err
		}
		if tok == nil || tok.AccessToken == "" {
			s.setError(MsgLoginFailed)
			return errors.New("login returned no access token")
		}
		return s.begin(ctx, tok, "")
	})
}

// Register creates an account. When the backend withholds a session it
// tries a plain login, and reports ErrVerificationPending if that also
// yields nothing.
func (s *AuthState) Register(ctx context.Context, email, password, confirm, displayName string) error {
	if strings.TrimSpace(email) == "" || password == "" || confirm == "" || strings.TrimSpace(displayName) == "" {
		return s.reject(MsgIncompleteSignup)
	}
	if password != confirm {
		return s.reject(MsgPasswordMismatch)
	}
	return s.run(ctx, "register", func(ctx context.Context) error {
		email := strings.TrimSpace(email)
		tok, err := s.api.Signup(ctx, email, password, strings.TrimSpace(displayName))
		if err != nil {
			return err
		}
		if tok == nil || tok.AccessToken == "" {
			tok, err = s.api.Login(ctx, email, password)
			if err != nil || tok == nil || tok.AccessToken == "" {
				s.setError(MsgVerificationRequired)
				return ErrVerificationPending
			}
		}
		return s.begin(ctx, tok, strings.TrimSpace(displayName))
	})
}

func (s *AuthState) begin(ctx context.Context, tok *remote.TokenResponse, displayName string) error {
	if err := s.session.Set(ctx, tok.Session(s.now())); err != nil {
		return err
	}
	s.setLoggedIn(true)
	if s.profiles != nil {
		if _, err := s.profiles.Ensure(ctx, displayName, ""); err != nil {
			s.log.Warnf("ensuring profile: %v", err)
		}
	}
	return nil
}

// Restore loads the saved session and refreshes it once if it expired.
// A failed refresh leaves the stale session in place.
func (s *AuthState) Restore(ctx context.Context) (bool, error) {
	err := s.run(ctx, "restore", func(ctx context.Context) error {
		sess, err := s.session.Restore(ctx)
		if err != nil {
			return err
		}
		if sess.Expired(s.now()) && sess.RefreshToken != "" {
			tok, err := s.api.Refresh(ctx, sess.RefreshToken)
			if err != nil {
				s.log.Warnf("refreshing saved session: %v", err)
			} else if tok != nil && tok.AccessToken != "" {
				if err := s.session.Set(ctx, tok.Session(s.now())); err != nil {
					return err
				}
			}
		}
		s.setLoggedIn(!s.session.Get().Empty())
		return nil
	})
	return s.LoggedIn(), err
}

// Logout tells the backend, then forgets the session locally regardless
// of the outcome.
func (s *AuthState) Logout(ctx context.Context) error {
	return s.run(ctx, "logout", func(ctx context.Context) error {
		if !s.session.Get().Empty() {
			if err := s.api.Logout(ctx); err != nil {
				s.log.Warnf("remote logout: %v", err)
			}
		}
		s.setLoggedIn(false)
		return s.session.Clear(ctx)
	})
}
