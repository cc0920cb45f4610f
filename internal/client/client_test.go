package client_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/writerhub/marketplace/internal/api"
	"github.com/writerhub/marketplace/internal/client"
	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
	"github.com/writerhub/marketplace/internal/core/service"
	"github.com/writerhub/marketplace/internal/infrastructure/db/memory"
	"github.com/writerhub/marketplace/internal/session"
)

func newClient(t *testing.T) (*client.Client, *service.AuthService) {
	t.Helper()
	auth := service.NewAuthService(memory.NewUserStore(), zerolog.Nop())
	content := service.NewContentService(memory.NewFAQStore(), memory.NewSettingStore(), zerolog.Nop())
	srv := httptest.NewServer(api.NewRouter(api.Deps{
		AuthService:    auth,
		ContentService: content,
		JWTSecret:      "client-test",
		TokenTTL:       time.Hour,
		Logger:         zerolog.Nop(),
		Registry:       prometheus.NewRegistry(),
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL+"/", srv.Client())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, auth
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	if _, err := client.New("localhost:8080", nil); err == nil {
		t.Fatalf("expected error for relative url")
	}
}

func TestClient_SignUpSignInMe(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	user, err := c.SignUp(ctx, ports.SignUpInput{Email: "w@x.com", Password: "pw123", FullName: "Wren", UserType: domain.UserTypeWriter})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.UserType != domain.UserTypeWriter || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}

	_, err = c.SignUp(ctx, ports.SignUpInput{Email: "w@x.com", Password: "other"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 409 {
		t.Fatalf("expected 409 APIError, got %v", err)
	}

	identity, err := c.SignIn(ctx, "w@x.com", "pw123")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if identity.Token == "" || identity.User.ID != user.ID {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	me, err := c.Me(ctx, identity.Token)
	if err != nil || me.Email != "w@x.com" {
		t.Fatalf("Me: %+v (%v)", me, err)
	}

	if _, err := c.SignIn(ctx, "w@x.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := c.Me(ctx, "garbage"); !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_AdminOperations(t *testing.T) {
	c, auth := newClient(t)
	ctx := context.Background()

	writer, _ := auth.SignUp(ctx, ports.SignUpInput{Email: "w@x.com", Password: "pw", UserType: domain.UserTypeWriter})
	_, _ = auth.SignUp(ctx, ports.SignUpInput{Email: "root@x.com", Password: "pw", UserType: domain.UserTypeAdmin})

	writerID, _ := c.SignIn(ctx, "w@x.com", "pw")
	if _, err := c.ListUsers(ctx, writerID.Token); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for writer, got %v", err)
	}

	adminID, _ := c.SignIn(ctx, "root@x.com", "pw")
	users, err := c.ListUsers(ctx, adminID.Token)
	if err != nil || len(users) != 2 {
		t.Fatalf("ListUsers: %d users (%v)", len(users), err)
	}

	if err := c.ResetPassword(ctx, adminID.Token, writer.ID, "fresh"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := c.SignIn(ctx, "w@x.com", "fresh"); err != nil {
		t.Fatalf("sign in with new password: %v", err)
	}
	if err := c.ResetPassword(ctx, adminID.Token, "ghost", "x"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	active := false
	updated, err := c.UpdateUser(ctx, adminID.Token, writer.ID, domain.ProfileUpdate{IsActive: &active})
	if err != nil || updated.IsActive {
		t.Fatalf("UpdateUser: %+v (%v)", updated, err)
	}
}

func TestClient_UpdateProfile(t *testing.T) {
	c, auth := newClient(t)
	ctx := context.Background()
	_, _ = auth.SignUp(ctx, ports.SignUpInput{Email: "w@x.com", Password: "pw", FullName: "Wren", UserType: domain.UserTypeWriter})
	id, _ := c.SignIn(ctx, "w@x.com", "pw")

	bio := "essays"
	u, err := c.UpdateProfile(ctx, id.Token, domain.ProfileUpdate{Bio: &bio})
	if err != nil || u.Bio != bio || u.FullName != "Wren" {
		t.Fatalf("UpdateProfile: %+v (%v)", u, err)
	}

	admin := domain.UserTypeAdmin
	if _, err := c.UpdateProfile(ctx, id.Token, domain.ProfileUpdate{UserType: &admin}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-promotion, got %v", err)
	}
}

func TestClient_PublicContent(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	faqs, err := c.FAQs(ctx)
	if err != nil || len(faqs) != 0 {
		t.Fatalf("FAQs: %v (%v)", faqs, err)
	}
	if _, err := c.JobPostingFee(ctx); !errors.Is(err, domain.ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound, got %v", err)
	}
}

func TestManager_OverRemoteClient(t *testing.T) {
	c, auth := newClient(t)
	ctx := context.Background()
	_, _ = auth.SignUp(ctx, ports.SignUpInput{Email: "a@x.com", Password: "pw123", FullName: "Alice", UserType: domain.UserTypeWriter})

	store := session.NewMemoryStore()
	m := session.NewManager(store, c, nil, zerolog.Nop())
	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := m.SignIn(ctx, "a@x.com", "pw123"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if m.Token() == "" {
		t.Fatalf("expected the bearer token to be held")
	}

	reloaded := session.NewManager(store, c, nil, zerolog.Nop())
	_ = reloaded.Load(ctx)
	me, err := c.Me(ctx, reloaded.Token())
	if err != nil || me.FullName != "Alice" {
		t.Fatalf("restored token must still authenticate: %+v (%v)", me, err)
	}
}
