package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/linskybing/rfp-portal/internal/api/middleware"
	"github.com/linskybing/rfp-portal/internal/domain/attachment"
	"github.com/linskybing/rfp-portal/internal/domain/vendor"
	"github.com/linskybing/rfp-portal/internal/notify"
	"github.com/linskybing/rfp-portal/internal/repository"
	"github.com/linskybing/rfp-portal/internal/session"
	"github.com/linskybing/rfp-portal/internal/storage"
	"github.com/linskybing/rfp-portal/pkg/types"
)

// Session is an issued login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Role      types.Role
	Vendor    *vendor.Profile
}

type IdentityService struct {
	Repos     *repository.Repos
	documents storage.DocumentStore
	events    EventSink
	sessions  session.Store
	hasher    PasswordHasher
	admin     AdminCredentials
	tokenTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewIdentityService(deps Deps) *IdentityService {
	deps = deps.withDefaults()
	return &IdentityService{
		Repos:     deps.Repos,
		documents: deps.Documents,
		events:    deps.Events,
		sessions:  deps.Sessions,
		hasher:    deps.Hasher,
		admin:     deps.Admin,
		tokenTTL:  deps.TokenTTL,
		logger:    deps.Logger,
		now:       deps.Now,
	}
}

var identityRank = map[vendor.Status]int{
	vendor.StatusApproved:        3,
	vendor.StatusPendingApproval: 2,
	vendor.StatusDeclined:        1,
}

var identityStatus = map[vendor.Status]vendor.IdentityStatus{
	vendor.StatusApproved:        vendor.IdentityApproved,
	vendor.StatusPendingApproval: vendor.IdentityPending,
	vendor.StatusDeclined:        vendor.IdentityDeclined,
}

// ResolveIdentity scans every vendor for the normalized email. When several
// records share it the live one wins: Approved over Pending over Declined.
func (s *IdentityService) ResolveIdentity(ctx context.Context, email string) (vendor.Resolution, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return vendor.Resolution{}, validationError("email is required")
	}

	vendors, err := s.Repos.Vendor.ListAll(ctx)
	if err != nil {
		return vendor.Resolution{}, upstreamError("failed to look up vendors", err)
	}

	var best *vendor.Vendor
	for i := range vendors {
		v := &vendors[i]
		if NormalizeEmail(v.Email) != normalized {
			continue
		}
		if best == nil || identityRank[v.Status] > identityRank[best.Status] {
			best = v
		}
	}
	if best == nil {
		return vendor.Resolution{Status: vendor.IdentityNew}, nil
	}
	status, ok := identityStatus[best.Status]
	if !ok {
		status = vendor.IdentityPending
	}
	return vendor.Resolution{Status: status, Vendor: best}, nil
}

// Register creates a vendor awaiting approval. Any existing vendor with the
// same email blocks registration, whatever its state.
func (s *IdentityService) Register(ctx context.Context, input vendor.RegisterInput, nda *attachment.Upload) (vendor.Vendor, error) {
	input.Email = NormalizeEmail(input.Email)
	if err := validateRegistration(input); err != nil {
		return vendor.Vendor{}, err
	}

	res, err := s.ResolveIdentity(ctx, input.Email)
	if err != nil {
		return vendor.Vendor{}, err
	}
	switch res.Status {
	case vendor.IdentityApproved:
		return vendor.Vendor{}, conflictError("an account with this email already exists and is approved; please log in")
	case vendor.IdentityPending:
		return vendor.Vendor{}, conflictError("an application with this email is already pending approval")
	case vendor.IdentityDeclined:
		return vendor.Vendor{}, conflictError("an application with this email was declined; please contact support")
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return vendor.Vendor{}, upstreamError("failed to hash password", err)
	}

	v := vendor.Vendor{
		CompanyName:  strings.TrimSpace(input.CompanyName),
		ContactName:  strings.TrimSpace(input.ContactName),
		ContactTitle: strings.TrimSpace(input.ContactTitle),
		Email:        input.Email,
		Phone:        strings.TrimSpace(input.Phone),
		Website:      strings.TrimSpace(input.Website),
		Country:      strings.TrimSpace(input.Country),
		CompanySize:  strings.TrimSpace(input.CompanySize),
		Services:     strings.TrimSpace(input.Services),
		PasswordHash: hashed,
		Status:       vendor.StatusPendingApproval,
		CreatedAt:    s.now(),
	}

	// The NDA goes up first so a failed upload never leaves a vendor behind.
	if nda != nil && len(nda.Data) > 0 {
		doc, err := s.documents.Put(ctx, storage.PrefixNDA, *nda)
		if err != nil {
			return vendor.Vendor{}, upstreamError("failed to upload NDA", err)
		}
		v.NDA = doc
	}

	if err := s.Repos.Vendor.Create(ctx, &v); err != nil {
		return vendor.Vendor{}, upstreamError("failed to create vendor", err)
	}

	s.events.Dispatch(notify.Event{
		VendorID:  v.ID,
		Name:      v.ContactName,
		Email:     v.Email,
		Action:    notify.ActionRegistered,
		Timestamp: v.CreatedAt,
	})
	return v, nil
}

var validate = validator.New()

// validateRegistration expects input.Email to be normalized already, so
// padding or case never turns a duplicate into a format error.
func validateRegistration(input vendor.RegisterInput) error {
	switch {
	case strings.TrimSpace(input.CompanyName) == "":
		return validationError("company name is required")
	case strings.TrimSpace(input.ContactName) == "":
		return validationError("contact name is required")
	case input.Email == "":
		return validationError("email is required")
	case validate.Var(input.Email, "email") != nil:
		return validationError("email must be a valid email address")
	case len(input.Password) < 8:
		return validationError("password must be at least 8 characters")
	}
	return nil
}

// Login checks the password before revealing the account state.
func (s *IdentityService) Login(ctx context.Context, input vendor.LoginInput) (Session, error) {
	res, err := s.ResolveIdentity(ctx, input.Email)
	if err != nil {
		if KindOf(err) == KindValidation {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if res.Vendor == nil || !s.hasher.Verify(input.Password, res.Vendor.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	v := res.Vendor
	switch v.Status {
	case vendor.StatusPendingApproval:
		return Session{}, authorizationError("account is pending approval")
	case vendor.StatusDeclined:
		return Session{}, authorizationError("account has been declined")
	}

	now := s.now()
	if err := s.Repos.Vendor.TouchLastLogin(ctx, v.ID, now); err != nil {
		s.logger.Warn("failed to stamp last login", "vendor_id", v.ID, "error", err)
	} else {
		v.LastLogin = &now
	}

	token, claims, err := middleware.GenerateToken(v.ID, v.Email, types.RoleVendor, s.tokenTTL)
	if err != nil {
		return Session{}, upstreamError("failed to issue token", err)
	}
	profile := v.Profile()
	return Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Role:      types.RoleVendor,
		Vendor:    &profile,
	}, nil
}

func (s *IdentityService) AdminLogin(ctx context.Context, input vendor.LoginInput) (Session, error) {
	email := NormalizeEmail(input.Email)
	if s.admin.Email == "" || email != NormalizeEmail(s.admin.Email) {
		return Session{}, ErrInvalidCredentials
	}
	if !s.hasher.Verify(input.Password, s.admin.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	token, claims, err := middleware.GenerateToken(email, email, types.RoleAdmin, s.tokenTTL)
	if err != nil {
		return Session{}, upstreamError("failed to issue token", err)
	}
	return Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, Role: types.RoleAdmin}, nil
}

// Logout revokes the session until it would have expired anyway.
func (s *IdentityService) Logout(ctx context.Context, claims *types.Claims) error {
	if claims == nil || claims.ID == "" {
		return validationError("session has no token id")
	}
	until := s.now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.sessions.Revoke(ctx, claims.ID, until); err != nil {
		return upstreamError("failed to revoke session", err)
	}
	return nil
}

// Profile re-reads the vendor from the store rather than trusting anything
// carried in the session.
func (s *IdentityService) Profile(ctx context.Context, vendorID string) (vendor.Profile, error) {
	v, err := s.Repos.Vendor.GetByID(ctx, vendorID)
	if err != nil {
		return vendor.Profile{}, storeError(err, ErrVendorNotFound, "load vendor")
	}
	return v.Profile(), nil
}
