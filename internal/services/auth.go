package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const (
	otpDigits       = 6
	resetTokenBytes = 36
)

type AuthConfig struct {
	JWTSecretKey string
	AccessTTL    time.Duration
	// ResetLink is the frontend page that receives ?token=..&userId=..
	ResetLink string
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

type LoginResult struct {
	User      *types.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, name, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	ResolvePrincipal(ctx context.Context, token string) (*ctxutil.Principal, error)
	SendEmailVerification(ctx context.Context, userID uuid.UUID) error
	VerifyEmail(ctx context.Context, userID uuid.UUID, token string) error
	SendResetPassword(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, token, password string) error
	AccessTTL() time.Duration
}

type tokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type authService struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
	media MediaService
	mail  MailService
	cfg   AuthConfig
	now   func() time.Time
}

func NewAuthService(db *gorm.DB, log *logger.Logger, rs repos.Set, media MediaService, mail MailService, cfg AuthConfig) AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 24 * time.Hour
	}
	return &authService{
		db:    db,
		log:   log.With("service", "AuthService"),
		repos: rs,
		media: media,
		mail:  mail,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (as *authService) AccessTTL() time.Duration { return as.cfg.AccessTTL }

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	name, err := requireText(in.Name, "name")
	if err != nil {
		return nil, err
	}
	email, err := requireText(in.Email, "email")
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, apierr.Missing("password is required")
	}
	if in.Age < 0 {
		return nil, apierr.Invalid("age is invalid")
	}
	email = strings.ToLower(email)

	dbc := dbctx.New(ctx)
	nameTaken, emailTaken, err := as.repos.Users.NameOrEmailTaken(dbc, name, email)
	if err != nil {
		return nil, wrap("check user uniqueness", err)
	}
	if nameTaken || emailTaken {
		return nil, apierr.Duplicated("Email and name must be unique.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Invalid("password is invalid")
	}
	u := &types.User{Name: name, Email: email, Password: string(hash), Age: in.Age}
	if err := as.repos.Users.Create(dbc, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Duplicated("Email and name must be unique.")
		}
		return nil, wrap("create user", err)
	}

	if as.media != nil && as.media.Enabled() {
		pic, err := as.media.UploadInitialsAvatar(ctx, u)
		if err != nil {
			as.log.Warn("initials avatar upload failed (ignored)", "user_id", u.ID, "error", err)
		} else if err := as.repos.Users.UpdateFields(dbc, u.ID, map[string]any{
			"profile_pic_url": pic.URL,
			"profile_pic_key": pic.Key,
		}); err != nil {
			as.log.Warn("store initials avatar failed (ignored)", "user_id", u.ID, "error", err)
		} else {
			u.ProfilePic = pic
		}
	}

	as.log.Info("user registered", "user_id", u.ID)
	return u, nil
}

func (as *authService) Login(ctx context.Context, name, password string) (*LoginResult, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, apierr.Missing("name and password are required")
	}
	dbc := dbctx.New(ctx)
	u, err := as.repos.Users.GetByName(dbc, name)
	if err != nil {
		return nil, wrap("get user", err)
	}
	if u == nil {
		return nil, apierr.NotFound(fmt.Sprintf("Not found user with the name: '%s'", name))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apierr.Invalid("Email/password mismatch!!")
	}

	now := as.now()
	expiresAt := now.Add(as.cfg.AccessTTL)
	token, err := as.signToken(u.ID, now, expiresAt)
	if err != nil {
		return nil, wrap("sign token", err)
	}
	if _, err := as.repos.UserTokens.Create(dbc, []*types.UserToken{{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}}); err != nil {
		return nil, wrap("store token", err)
	}
	if n, err := as.repos.UserTokens.DeleteExpired(dbc, now); err != nil {
		as.log.Warn("expired token sweep failed (ignored)", "error", err)
	} else if n > 0 {
		as.log.Debug("expired tokens removed", "count", n)
	}
	if err := as.repos.Users.TouchLastActive(dbc, u.ID, now); err != nil {
		as.log.Warn("touch last active failed (ignored)", "user_id", u.ID, "error", err)
	}
	return &LoginResult{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

func (as *authService) signToken(userID uuid.UUID, now, expiresAt time.Time) (string, error) {
	claims := tokenClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.cfg.JWTSecretKey))
}

func (as *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return apierr.Unauthorized("missing token")
	}
	if _, err := as.repos.UserTokens.DeleteByToken(dbctx.New(ctx), token); err != nil {
		return wrap("delete token", err)
	}
	return nil
}

func (as *authService) ResolvePrincipal(ctx context.Context, token string) (*ctxutil.Principal, error) {
	if token == "" {
		return nil, apierr.Unauthorized("missing token")
	}
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(as.cfg.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return nil, apierr.Unauthorized("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, apierr.Unauthorized("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierr.Unauthorized("invalid user id in token")
	}

	dbc := dbctx.New(ctx)
	stored, err := as.repos.UserTokens.GetByToken(dbc, token)
	if err != nil {
		return nil, wrap("get token", err)
	}
	if stored == nil || stored.UserID != userID {
		return nil, apierr.Unauthorized("token revoked")
	}
	if !stored.ExpiresAt.IsZero() && !as.now().Before(stored.ExpiresAt) {
		return nil, apierr.Unauthorized("invalid or expired token")
	}

	u, err := as.repos.Users.GetByID(dbc, userID)
	if err != nil {
		return nil, wrap("get user", err)
	}
	if u == nil {
		return nil, apierr.Unauthorized("user no longer exists")
	}
	followers, followings, err := as.repos.Follows.Counts(dbc, userID)
	if err != nil {
		return nil, wrap("count follows", err)
	}
	return &ctxutil.Principal{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Verified:   u.Verified,
		ProfilePic: u.ProfilePic.URL,
		Followers:  followers,
		Followings: followings,
		Token:      token,
	}, nil
}

func (as *authService) SendEmailVerification(ctx context.Context, userID uuid.UUID) error {
	if err := requireID(userID, "userId"); err != nil {
		return err
	}
	dbc := dbctx.New(ctx)
	u, err := as.repos.Users.GetByID(dbc, userID)
	if err != nil {
		return wrap("get user", err)
	}
	if u == nil {
		return apierr.NotFound("user not found")
	}

	code, err := otp(otpDigits)
	if err != nil {
		return wrap("generate code", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return wrap("hash code", err)
	}
	now := as.now()
	if err := as.repos.VerificationEmail.Replace(dbc, userID, &types.VerificationEmail{
		OwnerID:   userID,
		TokenHash: string(hash),
		ExpiresAt: now.Add(types.EmailTokenTTL),
		CreatedAt: now,
	}); err != nil {
		return wrap("store verification token", err)
	}
	return as.mail.SendVerificationCode(ctx, u.Email, u.Name, code)
}

func (as *authService) VerifyEmail(ctx context.Context, userID uuid.UUID, token string) error {
	if err := requireID(userID, "userId"); err != nil {
		return err
	}
	if token == "" {
		return apierr.Missing("token is required")
	}
	return inTx(dbctx.New(ctx), as.db, func(dbc dbctx.Context) error {
		row, err := as.repos.VerificationEmail.GetByOwner(dbc, userID)
		if err != nil {
			return wrap("get verification token", err)
		}
		if row == nil {
			return apierr.NotFound("verification token not found")
		}
		if !as.now().Before(row.ExpiresAt) {
			return apierr.Invalid("verification token expired")
		}
		if bcrypt.CompareHashAndPassword([]byte(row.TokenHash), []byte(token)) != nil {
			return apierr.Invalid("verification token mismatch")
		}
		if err := as.repos.Users.UpdateFields(dbc, userID, map[string]any{"verified": true}); err != nil {
			return wrap("mark verified", err)
		}
		return wrap("delete verification token", as.repos.VerificationEmail.DeleteByOwner(dbc, userID))
	})
}

func (as *authService) SendResetPassword(ctx context.Context, email string) error {
	email, err := requireText(email, "email")
	if err != nil {
		return err
	}
	dbc := dbctx.New(ctx)
	u, err := as.repos.Users.GetByEmail(dbc, strings.ToLower(email))
	if err != nil {
		return wrap("get user", err)
	}
	if u == nil {
		return apierr.NotFound("Account not found!!")
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return wrap("generate reset token", err)
	}
	token := hex.EncodeToString(raw)
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return wrap("hash reset token", err)
	}
	now := as.now()
	if err := as.repos.ResetPassword.Replace(dbc, u.ID, &types.ResetPassword{
		OwnerID:   u.ID,
		TokenHash: string(hash),
		ExpiresAt: now.Add(types.EmailTokenTTL),
		CreatedAt: now,
	}); err != nil {
		return wrap("store reset token", err)
	}
	link := fmt.Sprintf("%s?token=%s&userId=%s", as.cfg.ResetLink, token, u.ID)
	return as.mail.SendResetLink(ctx, u.Email, u.Name, link)
}

func (as *authService) UpdatePassword(ctx context.Context, userID uuid.UUID, token, password string) error {
	if err := requireID(userID, "userId"); err != nil {
		return err
	}
	if token == "" || password == "" {
		return apierr.Missing("token and password are required")
	}
	var u *types.User
	err := inTx(dbctx.New(ctx), as.db, func(dbc dbctx.Context) error {
		row, err := as.repos.ResetPassword.GetByOwner(dbc, userID)
		if err != nil {
			return wrap("get reset token", err)
		}
		if row == nil || !as.now().Before(row.ExpiresAt) ||
			bcrypt.CompareHashAndPassword([]byte(row.TokenHash), []byte(token)) != nil {
			return apierr.Unauthorized("Unauthorized access!!")
		}
		u, err = as.repos.Users.GetByID(dbc, userID)
		if err != nil {
			return wrap("get user", err)
		}
		if u == nil {
			return apierr.NotFound("user not found")
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil {
			return apierr.Invalid("The new password must be different!!")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return apierr.Invalid("password is invalid")
		}
		if err := as.repos.Users.UpdateFields(dbc, userID, map[string]any{"password": string(hash)}); err != nil {
			return wrap("update password", err)
		}
		return wrap("delete reset token", as.repos.ResetPassword.DeleteByOwner(dbc, userID))
	})
	if err != nil {
		return err
	}
	if err := as.mail.SendResetSuccess(ctx, u.Email, u.Name); err != nil {
		as.log.Warn("reset success mail failed (ignored)", "user_id", userID, "error", err)
	}
	return nil
}

// otp returns a zero-padded decimal code of n digits.
func otp(n int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v), nil
}
