package unit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/security"
	"propshare-backend/internal/service"
)

func newPropertySvc(repos *mockRepoSet, emailSvc *MockEmailService) service.PropertyService {
	issuer := security.NewInviteTokenIssuer(security.InviteTokenOpaque, "")
	return service.NewPropertyService(&fakeTxRunner{repos: repos.bundle()}, repos.bundle(), issuer, emailSvc)
}

func TestPropertyService_CreateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("Creator becomes primary with the full share", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := newPropertySvc(repos, new(MockEmailService))

		repos.Properties.On("Create", ctx, mock.AnythingOfType("*domain.Property")).Return(nil)
		repos.Ownerships.On("Create", ctx, mock.AnythingOfType("*domain.Ownership")).Return(nil)

		property, ownership, err := svc.CreateProperty(ctx, 1, &domain.Property{
			Name:             "Lake House",
			NightlyRateCents: 35000,
			CleaningFeeCents: 12000,
			MinNights:        2,
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.ApprovalPolicyMajority, property.ApprovalPolicy)
		assert.Equal(t, domain.OwnershipRolePrimary, ownership.Role)
		assert.Equal(t, int32(10000), ownership.ShareBps)
		assert.Equal(t, int32(1), ownership.VotingPower)
	})

	t.Run("Name is required", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := newPropertySvc(repos, new(MockEmailService))

		property, ownership, err := svc.CreateProperty(ctx, 1, &domain.Property{Name: " "})
		assert.Error(t, err)
		assert.Nil(t, property)
		assert.Nil(t, ownership)
		assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
	})
}

func TestPropertyService_InviteOwner(t *testing.T) {
	ctx := context.Background()

	primary := &domain.Ownership{ID: 11, PropertyID: 1, UserID: 1, ShareBps: 10000, VotingPower: 2, Role: domain.OwnershipRolePrimary}
	coOwner := &domain.Ownership{ID: 12, PropertyID: 1, UserID: 2, ShareBps: 3000, VotingPower: 1, Role: domain.OwnershipRoleOwner}

	t.Run("Primary invites a co-owner", func(t *testing.T) {
		repos := newMockRepoSet()
		emailSvc := new(MockEmailService)
		svc := newPropertySvc(repos, emailSvc)

		repos.Properties.On("GetByID", ctx, int32(1)).Return(&domain.Property{ID: 1, Name: "Lake House"}, nil)
		repos.Ownerships.On("GetByPropertyAndUser", ctx, int32(1), int32(1)).Return(primary, nil)
		repos.Invitations.On("Create", ctx, mock.AnythingOfType("*domain.Invitation")).Return(nil)
		emailSvc.On("SendInvitation", ctx, "new@test.com", "Lake House", mock.Anything).Return(nil)

		invite, token, err := svc.InviteOwner(ctx, 1, 1, &domain.Invitation{
			Email:       "new@test.com",
			ShareBps:    3000,
			VotingPower: 1,
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, domain.InvitationStatusPending, invite.Status)
		assert.True(t, invite.ExpiresAt.After(time.Now()))
	})

	t.Run("Non-primary cannot invite", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := newPropertySvc(repos, new(MockEmailService))

		repos.Properties.On("GetByID", ctx, int32(1)).Return(&domain.Property{ID: 1}, nil)
		repos.Ownerships.On("GetByPropertyAndUser", ctx, int32(1), int32(2)).Return(coOwner, nil)

		invite, token, err := svc.InviteOwner(ctx, 2, 1, &domain.Invitation{Email: "x@test.com", ShareBps: 1000})
		assert.Error(t, err)
		assert.Nil(t, invite)
		assert.Empty(t, token)
		assert.Equal(t, domain.ErrorKindAuthorization, domain.KindOf(err))
	})

	t.Run("Share must stay below the full stake", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := newPropertySvc(repos, new(MockEmailService))

		invite, _, err := svc.InviteOwner(ctx, 1, 1, &domain.Invitation{Email: "x@test.com", ShareBps: 10000})
		assert.Error(t, err)
		assert.Nil(t, invite)
		assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
	})
}

func TestPropertyService_ClaimInvitation(t *testing.T) {
	ctx := context.Background()

	pendingInvite := func() *domain.Invitation {
		return &domain.Invitation{
			ID:          3,
			PropertyID:  1,
			Email:       "new@test.com",
			Token:       "tok-123",
			ShareBps:    3000,
			VotingPower: 1,
			Role:        domain.OwnershipRoleOwner,
			Status:      domain.InvitationStatusPending,
			ExpiresAt:   time.Now().Add(24 * time.Hour),
		}
	}

	t.Run("Claim carves the share out of the primary stake", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := newPropertySvc(repos, new(MockEmailService))

		primary := &domain.Ownership{ID: 11, PropertyID: 1, UserID: 1, ShareBps: 10000, Role: domain.OwnershipRolePrimary}
		repos.Invitations.On("GetByToken", ctx, "tok-123").Return(pendingInvite(), nil)
		repos.Ownerships.On("GetByPropertyAndUser", ctx, int32(1), int32(5)).Return(nil, domain.NewNotFoundError("ownership"))
		repos.Ownerships.On("ListByProperty", ctx, int32(1)).Return([]domain.Ownership{*primary}, nil)
		repos.Ownerships.On("Update", ctx, mock.MatchedBy(func(o *domain.Ownership) bool {
			return o.Role == domain.OwnershipRolePrimary && o.ShareBps == 7000
		})).Return(nil)
		repos.Ownerships.On("Create", ctx, mock.AnythingOfType("*domain.Ownership")).Return(nil)
		repos.Invitations.On("Update", ctx, mock.MatchedBy(func(i *domain.Invitation) bool {
			return i.Status == domain.InvitationStatusClaimed
		})).Return(nil)

		ownership, err := svc.ClaimInvitation(ctx, 5, "tok-123")
		assert.NoError(t, err)
		assert.Equal(t, int32(3000), ownership.ShareBps)
		assert.Equal(t, domain.OwnershipRoleOwner, ownership.Role)
	})

	t.Run("Second claim by the same user returns the existing stake", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := newPropertySvc(repos, new(MockEmailService))

		existing := &domain.Ownership{ID: 14, PropertyID: 1, UserID: 5, ShareBps: 3000}
		repos.Invitations.On("GetByToken", ctx, "tok-123").Return(pendingInvite(), nil)
		repos.Ownerships.On("GetByPropertyAndUser", ctx, int32(1), int32(5)).Return(existing, nil)
		repos.Invitations.On("Update", ctx, mock.AnythingOfType("*domain.Invitation")).Return(nil)

		ownership, err := svc.ClaimInvitation(ctx, 5, "tok-123")
		assert.NoError(t, err)
		assert.Equal(t, existing.ID, ownership.ID)
		repos.Ownerships.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Expired invitation is rejected and marked", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := newPropertySvc(repos, new(MockEmailService))

		expired := pendingInvite()
		expired.ExpiresAt = time.Now().Add(-1 * time.Hour)
		repos.Invitations.On("GetByToken", ctx, "tok-123").Return(expired, nil)
		repos.Invitations.On("Update", ctx, mock.MatchedBy(func(i *domain.Invitation) bool {
			return i.Status == domain.InvitationStatusExpired
		})).Return(nil)

		ownership, err := svc.ClaimInvitation(ctx, 5, "tok-123")
		assert.Error(t, err)
		assert.Nil(t, ownership)
		assert.Equal(t, domain.ErrorKindConflict, domain.KindOf(err))
	})

	t.Run("Claimed invitation cannot be reused by another user", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := newPropertySvc(repos, new(MockEmailService))

		claimed := pendingInvite()
		claimed.Status = domain.InvitationStatusClaimed
		repos.Invitations.On("GetByToken", ctx, "tok-123").Return(claimed, nil)

		ownership, err := svc.ClaimInvitation(ctx, 6, "tok-123")
		assert.Error(t, err)
		assert.Nil(t, ownership)
		assert.Equal(t, domain.ErrorKindConflict, domain.KindOf(err))
	})
}

func TestPropertyService_Blackouts(t *testing.T) {
	ctx := context.Background()

	manager := &domain.Ownership{ID: 12, PropertyID: 1, UserID: 2, Role: domain.OwnershipRoleOwner, BlackoutManager: true}
	plain := &domain.Ownership{ID: 13, PropertyID: 1, UserID: 3, Role: domain.OwnershipRoleOwner}

	t.Run("Capability holder creates blackout", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := newPropertySvc(repos, new(MockEmailService))

		repos.Ownerships.On("GetByPropertyAndUser", ctx, int32(1), int32(2)).Return(manager, nil)
		repos.Blackouts.On("Create", ctx, mock.AnythingOfType("*domain.Blackout")).Return(nil)

		blackout, err := svc.CreateBlackout(ctx, 2, 1, "2026-08-01", "2026-08-05", "repairs")
		assert.NoError(t, err)
		assert.Equal(t, "2026-08-01", blackout.StartDate)
		assert.Equal(t, int32(12), blackout.CreatedBy)
	})

	t.Run("Plain owner cannot manage blackouts", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := newPropertySvc(repos, new(MockEmailService))

		repos.Ownerships.On("GetByPropertyAndUser", ctx, int32(1), int32(3)).Return(plain, nil)

		blackout, err := svc.CreateBlackout(ctx, 3, 1, "2026-08-01", "2026-08-05", "")
		assert.Error(t, err)
		assert.Nil(t, blackout)
		assert.Equal(t, domain.ErrorKindAuthorization, domain.KindOf(err))
	})

	t.Run("End date must follow start date", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := newPropertySvc(repos, new(MockEmailService))

		blackout, err := svc.CreateBlackout(ctx, 2, 1, "2026-08-05", "2026-08-05", "")
		assert.Error(t, err)
		assert.Nil(t, blackout)
		assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
	})
}
