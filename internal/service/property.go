package service

import (
	"context"
	"strings"
	"time"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/logger"
	"propshare-backend/internal/repository"
	"propshare-backend/internal/security"
	"propshare-backend/internal/utils"
)

// invitationTTL is how long an invitation link stays claimable.
const invitationTTL = 14 * 24 * time.Hour

type propertyService struct {
	tx          repository.TxRunner
	repos       repository.Repos
	inviteToken security.InviteTokenIssuer
	emailSvc    EmailService
}

func NewPropertyService(tx repository.TxRunner, repos repository.Repos, inviteToken security.InviteTokenIssuer, emailSvc EmailService) PropertyService {
	return &propertyService{
		tx:          tx,
		repos:       repos,
		inviteToken: inviteToken,
		emailSvc:    emailSvc,
	}
}

func (s *propertyService) CreateProperty(ctx context.Context, userID int32, property *domain.Property) (*domain.Property, *domain.Ownership, error) {
	logger.EnterMethod("propertyService.CreateProperty", "userID", userID, "name", property.Name)

	if strings.TrimSpace(property.Name) == "" {
		return nil, nil, domain.NewValidationError("name", "is required")
	}
	if property.NightlyRateCents < 0 {
		return nil, nil, domain.NewValidationError("nightly_rate_cents", "must not be negative")
	}
	if property.CleaningFeeCents < 0 {
		return nil, nil, domain.NewValidationError("cleaning_fee_cents", "must not be negative")
	}
	if property.MinNights < 1 {
		property.MinNights = 1
	}
	if property.ApprovalPolicy == "" {
		property.ApprovalPolicy = domain.ApprovalPolicyMajority
	}

	var ownership *domain.Ownership
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		if err := r.Properties.Create(ctx, property); err != nil {
			return err
		}
		// The creator starts with the full stake. Invitations carve shares
		// out of it as co-owners join.
		ownership = &domain.Ownership{
			PropertyID:  property.ID,
			UserID:      userID,
			ShareBps:    utils.BasisPointsTotal,
			VotingPower: 1,
			Role:        domain.OwnershipRolePrimary,
		}
		return r.Ownerships.Create(ctx, ownership)
	})
	if err != nil {
		logger.ExitMethodWithError("propertyService.CreateProperty", err, "userID", userID)
		return nil, nil, err
	}

	logger.ExitMethod("propertyService.CreateProperty", "propertyID", property.ID)
	return property, ownership, nil
}

func (s *propertyService) GetProperty(ctx context.Context, userID, propertyID int32) (*domain.Property, []domain.Ownership, error) {
	property, err := s.repos.Properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.requireMembership(ctx, propertyID, userID); err != nil {
		return nil, nil, err
	}
	ownerships, err := s.repos.Ownerships.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	return property, ownerships, nil
}

func (s *propertyService) ListMyProperties(ctx context.Context, userID int32) ([]domain.Property, error) {
	return s.repos.Properties.ListByUser(ctx, userID)
}

func (s *propertyService) InviteOwner(ctx context.Context, userID, propertyID int32, invite *domain.Invitation) (*domain.Invitation, string, error) {
	logger.EnterMethod("propertyService.InviteOwner", "userID", userID, "propertyID", propertyID, "email", invite.Email)

	if strings.TrimSpace(invite.Email) == "" {
		return nil, "", domain.NewValidationError("email", "is required")
	}
	if invite.ShareBps <= 0 || invite.ShareBps >= utils.BasisPointsTotal {
		return nil, "", domain.NewValidationError("share_bps", "must be between 1 and 9999")
	}
	if invite.VotingPower < 0 {
		return nil, "", domain.NewValidationError("voting_power", "must not be negative")
	}
	if invite.Role == "" {
		invite.Role = domain.OwnershipRoleOwner
	}
	if invite.Role == domain.OwnershipRolePrimary {
		return nil, "", domain.NewValidationError("role", "a property has exactly one primary owner")
	}

	property, err := s.repos.Properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, "", err
	}
	actor, err := s.requireMembership(ctx, propertyID, userID)
	if err != nil {
		return nil, "", err
	}
	if actor.Role != domain.OwnershipRolePrimary {
		return nil, "", domain.NewAuthorizationError("only the primary owner may invite co-owners")
	}
	if actor.ShareBps <= invite.ShareBps {
		return nil, "", domain.NewValidationError("share_bps", "primary owner does not hold enough share to grant")
	}

	expiresAt := time.Now().Add(invitationTTL)
	token, err := s.inviteToken.Issue(propertyID, invite.Email, expiresAt)
	if err != nil {
		return nil, "", domain.NewInternalError(err)
	}

	invite.PropertyID = propertyID
	invite.Token = token
	invite.Status = domain.InvitationStatusPending
	invite.ExpiresAt = expiresAt
	if err := s.repos.Invitations.Create(ctx, invite); err != nil {
		logger.ExitMethodWithError("propertyService.InviteOwner", err, "propertyID", propertyID)
		return nil, "", err
	}

	if err := s.emailSvc.SendInvitation(ctx, invite.Email, property.Name, token); err != nil {
		logger.Warn("Invitation email failed", "invitationID", invite.ID, "error", err)
	}

	logger.ExitMethod("propertyService.InviteOwner", "invitationID", invite.ID)
	return invite, token, nil
}

func (s *propertyService) ClaimInvitation(ctx context.Context, userID int32, token string) (*domain.Ownership, error) {
	logger.EnterMethod("propertyService.ClaimInvitation", "userID", userID)

	if err := s.inviteToken.Verify(token); err != nil {
		return nil, domain.NewValidationError("token", "invitation token is not valid")
	}

	var ownership *domain.Ownership
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		invite, err := r.Invitations.GetByToken(ctx, token)
		if err != nil {
			return err
		}
		switch invite.Status {
		case domain.InvitationStatusPending:
		case domain.InvitationStatusClaimed:
			return domain.NewConflictError("invitation has already been claimed")
		default:
			return domain.NewConflictError("invitation is no longer valid")
		}
		if time.Now().After(invite.ExpiresAt) {
			invite.Status = domain.InvitationStatusExpired
			if err := r.Invitations.Update(ctx, invite); err != nil {
				return err
			}
			return domain.NewConflictError("invitation has expired")
		}

		// Claiming twice from the same account must not duplicate the stake.
		existing, err := r.Ownerships.GetByPropertyAndUser(ctx, invite.PropertyID, userID)
		if err == nil {
			ownership = existing
			invite.Status = domain.InvitationStatusClaimed
			return r.Invitations.Update(ctx, invite)
		}
		if domain.KindOf(err) != domain.ErrorKindNotFound {
			return err
		}

		// The granted share comes out of the primary owner's stake so the
		// property total stays at 10000 basis points.
		ownerships, err := r.Ownerships.ListByProperty(ctx, invite.PropertyID)
		if err != nil {
			return err
		}
		var primary *domain.Ownership
		for i := range ownerships {
			if ownerships[i].Role == domain.OwnershipRolePrimary {
				primary = &ownerships[i]
				break
			}
		}
		if primary == nil {
			return domain.NewConflictError("property has no primary owner to grant from")
		}
		if primary.ShareBps <= invite.ShareBps {
			return domain.NewConflictError("primary owner no longer holds enough share to grant")
		}
		primary.ShareBps -= invite.ShareBps
		if err := r.Ownerships.Update(ctx, primary); err != nil {
			return err
		}

		ownership = &domain.Ownership{
			PropertyID:      invite.PropertyID,
			UserID:          userID,
			ShareBps:        invite.ShareBps,
			VotingPower:     invite.VotingPower,
			Role:            invite.Role,
			BlackoutManager: invite.BlackoutManager,
			ExpenseApprover: invite.ExpenseApprover,
		}
		if err := r.Ownerships.Create(ctx, ownership); err != nil {
			return err
		}

		invite.Status = domain.InvitationStatusClaimed
		return r.Invitations.Update(ctx, invite)
	})
	if err != nil {
		logger.ExitMethodWithError("propertyService.ClaimInvitation", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("propertyService.ClaimInvitation", "ownershipID", ownership.ID)
	return ownership, nil
}

func (s *propertyService) CreateBlackout(ctx context.Context, userID, propertyID int32, startDate, endDate, reason string) (*domain.Blackout, error) {
	logger.EnterMethod("propertyService.CreateBlackout", "userID", userID, "propertyID", propertyID)

	start, end, err := utils.ParseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	actor, err := s.requireMembership(ctx, propertyID, userID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageBlackouts() {
		return nil, domain.NewAuthorizationError("ownership lacks the blackout manager capability")
	}

	blackout := &domain.Blackout{
		PropertyID: propertyID,
		StartDate:  start.Format(utils.DateLayout),
		EndDate:    end.Format(utils.DateLayout),
		Reason:     reason,
		CreatedBy:  actor.ID,
	}
	if err := s.repos.Blackouts.Create(ctx, blackout); err != nil {
		logger.ExitMethodWithError("propertyService.CreateBlackout", err, "propertyID", propertyID)
		return nil, err
	}

	logger.ExitMethod("propertyService.CreateBlackout", "blackoutID", blackout.ID)
	return blackout, nil
}

func (s *propertyService) DeleteBlackout(ctx context.Context, userID, blackoutID int32) error {
	logger.EnterMethod("propertyService.DeleteBlackout", "userID", userID, "blackoutID", blackoutID)

	blackout, err := s.repos.Blackouts.GetByID(ctx, blackoutID)
	if err != nil {
		return err
	}
	actor, err := s.requireMembership(ctx, blackout.PropertyID, userID)
	if err != nil {
		return err
	}
	if !actor.CanManageBlackouts() {
		return domain.NewAuthorizationError("ownership lacks the blackout manager capability")
	}

	if err := s.repos.Blackouts.Delete(ctx, blackoutID); err != nil {
		logger.ExitMethodWithError("propertyService.DeleteBlackout", err, "blackoutID", blackoutID)
		return err
	}

	logger.ExitMethod("propertyService.DeleteBlackout", "blackoutID", blackoutID)
	return nil
}

func (s *propertyService) requireMembership(ctx context.Context, propertyID, userID int32) (*domain.Ownership, error) {
	ownership, err := s.repos.Ownerships.GetByPropertyAndUser(ctx, propertyID, userID)
	if err != nil {
		if domain.KindOf(err) == domain.ErrorKindNotFound {
			return nil, domain.NewAuthorizationError("not an owner of this property")
		}
		return nil, err
	}
	return ownership, nil
}
