// internal/domain/account/service.go
package account

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wouhouch/hub/internal/domain/guard"
	"github.com/wouhouch/hub/internal/domain/identity"
	"github.com/wouhouch/hub/internal/infrastructure/localstore"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/auth"
	"github.com/wouhouch/hub/internal/pkg/notify"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

var (
	// ErrNoToken is returned when the backend accepted the credentials but issued no token
	ErrNoToken = errors.New("sign-in response carried no token")

	// ErrNoPrincipal is returned by profile operations without a signed-in user
	ErrNoPrincipal = errors.New("User ID not found")
)

// Redirect tells the page layer where to go next, and when
type Redirect struct {
	To    string        `json:"to"`
	After time.Duration `json:"-"`
}

// Deps are the collaborators of the account service
type Deps struct {
	API         apiclient.Requester
	Storage     *localstore.Storage
	Tokens      *identity.Tokens
	Identity    *identity.Store
	Sealer      *auth.Sealer
	Notifier    notify.Notifier
	Logger      logrus.FieldLogger
	VerifyDelay time.Duration
}

// Service runs the sign-in, sign-up and profile flows of one browser
type Service struct {
	Deps
	log logrus.FieldLogger
}

// NewService creates a new account service
func NewService(d Deps) *Service {
	if d.Notifier == nil {
		d.Notifier = notify.Discard{}
	}
	return &Service{Deps: d, log: d.Logger.WithField("component", "account")}
}

// SignIn exchanges credentials for a token, then loads the principal.
// A failing /auth/me keeps the token; the principal arrives on the next page load.
func (s *Service) SignIn(ctx context.Context, form SignInForm) (*identity.Principal, Redirect, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validation.Struct(form); err != nil {
		return nil, Redirect{}, err
	}

	raw, err := s.API.Post(ctx, "/auth/signin", form)
	if err != nil {
		return nil, Redirect{}, fmt.Errorf("sign in: %w", err)
	}

	token := apiclient.String(raw, "token")
	if token == "" {
		token = apiclient.String(raw, "data.token")
	}
	if token == "" {
		return nil, Redirect{}, ErrNoToken
	}
	if err := s.Tokens.SetToken(ctx, token); err != nil {
		return nil, Redirect{}, fmt.Errorf("failed to store token: %w", err)
	}

	principal, err := identity.FetchPrincipal(ctx, s.API)
	if err != nil {
		s.log.WithError(err).Warn("Error fetching user info after sign-in")
		principal = nil
	}
	if principal != nil {
		s.Identity.SetUser(ctx, principal)
	}

	s.Notifier.Success("Welcome back! You have successfully signed in.")
	return principal, Redirect{To: guard.HomePath}, nil
}

// SignUp registers the account and keeps what is needed to resend the code
func (s *Service) SignUp(ctx context.Context, form SignUpForm) (Redirect, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := form.Validate(); err != nil {
		return Redirect{}, err
	}

	payload := signupPayload{Email: form.Email, Password: form.Password, FullName: form.FullName}
	if _, err := s.API.Post(ctx, "/auth/signup", payload); err != nil {
		return Redirect{}, fmt.Errorf("sign up: %w", err)
	}

	if err := s.stash(ctx, payload); err != nil {
		// The account exists; only resend is affected
		s.log.WithError(err).Warn("Failed to keep sign-up details for resend")
	}

	s.Notifier.Success("Account created! Check your email for the verification code.")
	return Redirect{To: "/verify"}, nil
}

// Verify confirms the e-mailed code, then sends the user to sign in after a pause
func (s *Service) Verify(ctx context.Context, code string) (Redirect, error) {
	code = strings.TrimSpace(code)
	if err := ValidateCode(code); err != nil {
		return Redirect{}, err
	}

	if _, err := s.API.Post(ctx, "/auth/verify", map[string]string{"code": code}); err != nil {
		return Redirect{}, fmt.Errorf("verify: %w", err)
	}

	s.Notifier.Success("Email verified! Your account has been successfully verified.")
	return Redirect{To: guard.SignInPath, After: s.VerifyDelay}, nil
}

// ResendCode repeats the sign-up request from the stashed details
func (s *Service) ResendCode(ctx context.Context) error {
	payload, err := s.unstash(ctx)
	if err != nil {
		return err
	}

	if _, err := s.API.Post(ctx, "/auth/signup", payload); err != nil {
		return fmt.Errorf("resend code: %w", err)
	}

	s.Notifier.Success("Code resent! A new verification code has been sent to your email.")
	return nil
}

// ForgotPassword asks the backend to e-mail a reset link
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validation.Validator().Var(email, "required,email"); err != nil {
		return validation.Field("email", "Please enter a valid email address")
	}

	if _, err := s.API.Post(ctx, "/auth/forgot", map[string]string{"email": email}); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	s.Notifier.Success("Reset link sent! Please check your email for password reset instructions.")
	return nil
}

// ResetPassword sets a new password using the code from the reset link
func (s *Service) ResetPassword(ctx context.Context, form ResetForm) (Redirect, error) {
	if err := form.Validate(); err != nil {
		return Redirect{}, err
	}

	body := map[string]string{"code": form.Code, "newPassword": form.Password}
	if _, err := s.API.Post(ctx, "/auth/reset", body); err != nil {
		return Redirect{}, fmt.Errorf("reset password: %w", err)
	}

	s.Notifier.Success("Password reset! Your password has been successfully reset.")
	return Redirect{To: guard.SignInPath}, nil
}

// Logout forgets the token, the sign-up stash and the cached principal
func (s *Service) Logout(ctx context.Context) Redirect {
	s.Tokens.ClearToken(ctx)
	s.Identity.SetUser(ctx, nil)
	s.Notifier.Success("Logged out. You have been successfully logged out.")
	return Redirect{To: guard.SignInPath}
}

// UpdateProfile saves the profile, then reloads the principal
func (s *Service) UpdateProfile(ctx context.Context, form ProfileForm) (*identity.Principal, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	current := s.Identity.Principal()
	if current == nil || current.ID == "" {
		return nil, ErrNoPrincipal
	}

	raw, err := s.API.Put(ctx, "/users/"+url.PathEscape(current.ID), form)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if raw != nil {
		if _, err := s.Identity.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("refresh profile: %w", err)
		}
		s.Notifier.Success("Profile updated successfully")
	}
	return s.Identity.Principal(), nil
}

type signupPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (s *Service) stash(ctx context.Context, p signupPayload) error {
	sealed, err := s.Sealer.Seal(p.Password, s.Storage.Namespace())
	if err != nil {
		return err
	}

	for key, value := range map[string]string{
		localstore.KeySignupEmail:    p.Email,
		localstore.KeySignupPassword: sealed,
		localstore.KeySignupFullName: p.FullName,
	} {
		if err := s.Storage.SetItem(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) unstash(ctx context.Context) (signupPayload, error) {
	email, ok, err := s.Storage.GetItem(ctx, localstore.KeySignupEmail)
	if err != nil {
		return signupPayload{}, fmt.Errorf("failed to read sign-up details: %w", err)
	}
	if !ok || email == "" {
		return signupPayload{}, validation.Field("email", "Email not found. Please sign up again.")
	}

	p := signupPayload{Email: email}

	if sealed, ok, err := s.Storage.GetItem(ctx, localstore.KeySignupPassword); err == nil && ok {
		password, err := s.Sealer.Open(sealed, s.Storage.Namespace())
		if err != nil {
			s.log.WithError(err).Warn("Stashed sign-up password is unreadable")
		}
		p.Password = password
	}
	if name, ok, err := s.Storage.GetItem(ctx, localstore.KeySignupFullName); err == nil && ok {
		p.FullName = name
	}
	return p, nil
}
