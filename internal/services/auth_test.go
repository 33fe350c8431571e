package services

import (
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

var (
	codePattern  = regexp.MustCompile(`>(\d{6})<`)
	tokenPattern = regexp.MustCompile(`token=([0-9a-f]+)`)
)

func isUnauthorized(err error) bool {
	var ae *apierr.Error
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

func newAuth(t *testing.T, env *testEnv) AuthService {
	t.Helper()
	return NewAuthService(env.db, testutil.Logger(t), env.repos, env.media, NewMailService(testutil.Logger(t), env.mailer), AuthConfig{
		JWTSecretKey: "test-secret",
		AccessTTL:    time.Hour,
		ResetLink:    "https://learnhub.test/reset",
	})
}

func register(t *testing.T, env *testEnv, auth AuthService, name string) uuid.UUID {
	t.Helper()
	u, err := auth.Register(env.ctx, RegisterInput{Name: name, Email: name + "@Example.test", Password: "secret-1", Age: 30})
	if err != nil {
		t.Fatalf("Register %s: %v", name, err)
	}
	return u.ID
}

func TestRegisterLoginResolve(t *testing.T) {
	env := newEnv(t)
	auth := newAuth(t, env)
	id := register(t, env, auth, "ada")

	if _, err := auth.Register(env.ctx, RegisterInput{Name: "ada", Email: "other@example.test", Password: "x"}); !apierr.Is(err, apierr.ECDuplicated) {
		t.Fatalf("duplicate name: got %v", err)
	}
	if _, err := auth.Register(env.ctx, RegisterInput{Name: "grace", Email: "ADA@example.test", Password: "x"}); !apierr.Is(err, apierr.ECDuplicated) {
		t.Fatalf("duplicate email: got %v", err)
	}
	if _, err := auth.Register(env.ctx, RegisterInput{Name: "grace", Password: "x"}); !apierr.Is(err, apierr.ECMissing) {
		t.Fatalf("missing email: got %v", err)
	}

	if _, err := auth.Login(env.ctx, "ada", "wrong"); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("bad password: got %v", err)
	}
	if _, err := auth.Login(env.ctx, "nobody", "secret-1"); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("unknown user: got %v", err)
	}
	res, err := auth.Login(env.ctx, "ada", "secret-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" || res.User.ID != id {
		t.Fatalf("login result: %+v", res)
	}

	p, err := auth.ResolvePrincipal(env.ctx, res.Token)
	if err != nil {
		t.Fatalf("ResolvePrincipal: %v", err)
	}
	if p.ID != id || p.Email != "ada@example.test" || p.Verified {
		t.Fatalf("principal: %+v", p)
	}

	u, err := env.repos.Users.GetByID(dbctx.New(env.ctx), id)
	if err != nil || u.LastActive == nil {
		t.Fatalf("lastActive after login: %v %v", u, err)
	}

	if err := auth.Logout(env.ctx, res.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := auth.ResolvePrincipal(env.ctx, res.Token); !isUnauthorized(err) {
		t.Fatalf("revoked token: got %v", err)
	}
}

func TestResolvePrincipalRejectsBadTokens(t *testing.T) {
	env := newEnv(t)
	auth := newAuth(t, env)
	register(t, env, auth, "linus")
	res, err := auth.Login(env.ctx, "linus", "secret-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := auth.ResolvePrincipal(env.ctx, ""); !isUnauthorized(err) {
		t.Fatalf("empty token: got %v", err)
	}
	if _, err := auth.ResolvePrincipal(env.ctx, res.Token+"x"); !isUnauthorized(err) {
		t.Fatalf("tampered token: got %v", err)
	}
	other := NewAuthService(env.db, testutil.Logger(t), env.repos, nil, NewMailService(testutil.Logger(t), env.mailer), AuthConfig{JWTSecretKey: "another"})
	if _, err := other.ResolvePrincipal(env.ctx, res.Token); !isUnauthorized(err) {
		t.Fatalf("foreign secret: got %v", err)
	}

	auth.(*authService).now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	if _, err := auth.ResolvePrincipal(env.ctx, res.Token); !isUnauthorized(err) {
		t.Fatalf("expired token: got %v", err)
	}
}

func TestEmailVerificationFlow(t *testing.T) {
	env := newEnv(t)
	auth := newAuth(t, env)
	id := register(t, env, auth, "margaret")

	if err := auth.SendEmailVerification(env.ctx, id); err != nil {
		t.Fatalf("SendEmailVerification: %v", err)
	}
	mail := env.mailer.last()
	if mail.to != "margaret@example.test" || mail.subject != "Verify your email" {
		t.Fatalf("mail: %+v", mail)
	}
	m := codePattern.FindStringSubmatch(mail.html)
	if m == nil {
		t.Fatalf("no code in mail: %s", mail.html)
	}
	code := m[1]
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if err := auth.VerifyEmail(env.ctx, id, wrong); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("wrong code: got %v", err)
	}
	if err := auth.VerifyEmail(env.ctx, id, code); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	u, err := env.repos.Users.GetByID(dbctx.New(env.ctx), id)
	if err != nil || !u.Verified {
		t.Fatalf("user not verified: %v %v", u, err)
	}
	if err := auth.VerifyEmail(env.ctx, id, code); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("token reused: got %v", err)
	}
}

func TestEmailVerificationExpires(t *testing.T) {
	env := newEnv(t)
	auth := newAuth(t, env)
	id := register(t, env, auth, "barbara")
	if err := auth.SendEmailVerification(env.ctx, id); err != nil {
		t.Fatalf("SendEmailVerification: %v", err)
	}
	code := codePattern.FindStringSubmatch(env.mailer.last().html)[1]

	auth.(*authService).now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	if err := auth.VerifyEmail(env.ctx, id, code); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("expired code: got %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	env := newEnv(t)
	auth := newAuth(t, env)
	id := register(t, env, auth, "edsger")

	if err := auth.SendResetPassword(env.ctx, "missing@example.test"); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("unknown email: got %v", err)
	}
	if err := auth.SendResetPassword(env.ctx, "EDSGER@example.test"); err != nil {
		t.Fatalf("SendResetPassword: %v", err)
	}
	m := tokenPattern.FindStringSubmatch(env.mailer.last().html)
	if m == nil {
		t.Fatalf("no token in mail: %s", env.mailer.last().html)
	}
	token := m[1]

	if err := auth.UpdatePassword(env.ctx, id, "deadbeef", "secret-2"); !isUnauthorized(err) {
		t.Fatalf("bad token: got %v", err)
	}
	if err := auth.UpdatePassword(env.ctx, id, token, "secret-1"); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("same password: got %v", err)
	}
	if err := auth.UpdatePassword(env.ctx, id, token, "secret-2"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if env.mailer.last().subject != "Password Reset Successfully" {
		t.Fatalf("success mail: %+v", env.mailer.last())
	}
	if _, err := auth.Login(env.ctx, "edsger", "secret-2"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if err := auth.UpdatePassword(env.ctx, id, token, "secret-3"); !isUnauthorized(err) {
		t.Fatalf("token reused: got %v", err)
	}
}

func TestOTPDigits(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := otp(6)
		if err != nil {
			t.Fatalf("otp: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("otp length: %q", code)
		}
	}
}
