package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventflow/internal/model"
	"eventflow/internal/repository"
	"eventflow/internal/storage"
)

const coverURLExpiry = 15 * time.Minute

// CreateCommunityInput carries the caller-supplied fields for a new community.
type CreateCommunityInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// UpdateCommunityInput carries the editable fields of a community.
type UpdateCommunityInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CommunityListResult is the service-level DTO for paginated communities.
type CommunityListResult struct {
	Items []model.Community `json:"data"`
	Total int               `json:"total"`
}

// MemberListResult is the service-level DTO for paginated members.
type MemberListResult struct {
	Items []model.CommunityMember `json:"data"`
	Total int                     `json:"total"`
}

// CommunityDetail bundles a community with its admin roster.
type CommunityDetail struct {
	Community model.Community        `json:"community"`
	Admins    []model.CommunityAdmin `json:"admins"`
}

// CommunityService defines the use cases for communities, membership and
// admin role management. All authorization rules live here, not in handlers.
type CommunityService interface {
	// Create makes a new community. The caller needs an active subscription
	// and, for sub-communities, an admin role in the parent. The creator
	// becomes organizer and member.
	Create(ctx context.Context, userID string, in CreateCommunityInput) (*model.Community, error)

	// Get returns a community with its admin roster.
	Get(ctx context.Context, id string) (*CommunityDetail, error)

	// List returns communities, optionally restricted to children of a parent.
	List(ctx context.Context, limit, offset int, parentID *string) (*CommunityListResult, error)

	// Update edits name/description. Caller must be a community admin.
	Update(ctx context.Context, id, userID string, in UpdateCommunityInput) (*model.Community, error)

	// Delete removes a community. Caller must be an organizer and the
	// community must have no children.
	Delete(ctx context.Context, id, userID string) error

	// Join adds the caller as a member (idempotent).
	Join(ctx context.Context, id, userID string) error

	// Leave removes the caller's membership and admin role. The last
	// organizer cannot leave.
	Leave(ctx context.Context, id, userID string) error

	// Members returns the paginated member list.
	Members(ctx context.Context, id string, limit, offset int) (*MemberListResult, error)

	// SetAdminRole promotes a member to the given role or changes an
	// existing admin's role. Caller must be an organizer; demoting the last
	// organizer is refused.
	SetAdminRole(ctx context.Context, id, actorID, targetID string, role model.AdminRole) error

	// RemoveAdmin strips the target's admin role. Caller must be an
	// organizer; removing the last organizer is refused.
	RemoveAdmin(ctx context.Context, id, actorID, targetID string) error

	// UploadCover stores a new cover image and returns its object key.
	// Caller must be a community admin.
	UploadCover(ctx context.Context, id, userID string, r io.Reader, filename, contentType string, size int64) (string, error)

	// CoverURL returns a presigned download URL for the cover image.
	CoverURL(ctx context.Context, id string) (string, error)
}

// communityService is a concrete implementation of CommunityService.
type communityService struct {
	communities repository.CommunityRepository
	admins      repository.CommunityAdminRepository
	members     repository.CommunityMemberRepository
	subs        repository.SubscriptionRepository
	store       storage.Storage
}

// NewCommunityService constructs a new CommunityService.
func NewCommunityService(
	communities repository.CommunityRepository,
	admins repository.CommunityAdminRepository,
	members repository.CommunityMemberRepository,
	subs repository.SubscriptionRepository,
	store storage.Storage,
) CommunityService {
	return &communityService{
		communities: communities,
		admins:      admins,
		members:     members,
		subs:        subs,
		store:       store,
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowers the name and collapses non-alphanumeric runs to hyphens.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// requireActiveSubscription enforces the paywall gate on creation paths.
func requireActiveSubscription(ctx context.Context, subs repository.SubscriptionRepository, userID string) error {
	sub, err := subs.FindCurrentByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubscriptionRequired
		}
		return err
	}
	if !sub.ActiveAt(time.Now()) {
		return ErrSubscriptionRequired
	}
	return nil
}

// requireAdmin returns the caller's admin row or ErrForbidden.
func (s *communityService) requireAdmin(ctx context.Context, communityID, userID string) (*model.CommunityAdmin, error) {
	admin, err := s.admins.Find(ctx, communityID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: community admin role required", ErrForbidden)
		}
		return nil, err
	}
	return admin, nil
}

// requireOrganizer returns ErrForbidden unless the caller is an organizer.
func (s *communityService) requireOrganizer(ctx context.Context, communityID, userID string) error {
	admin, err := s.requireAdmin(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if admin.Role != model.AdminRoleOrganizer {
		return fmt.Errorf("%w: organizer role required", ErrForbidden)
	}
	return nil
}

func (s *communityService) Create(ctx context.Context, userID string, in CreateCommunityInput) (*model.Community, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("%w: name must contain letters or digits", ErrValidation)
	}

	if err := requireActiveSubscription(ctx, s.subs, userID); err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		if _, err := s.communities.FindByID(ctx, *in.ParentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: parent community", ErrNotFound)
			}
			return nil, err
		}
		// Sub-communities can only be created by admins of the parent.
		if _, err := s.requireAdmin(ctx, *in.ParentID, userID); err != nil {
			return nil, err
		}
	}

	if _, err := s.communities.FindBySlug(ctx, slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now().UTC()
	community := &model.Community{
		ID:          uuid.New().String(),
		Name:        name,
		Slug:        slug,
		Description: in.Description,
		ParentID:    in.ParentID,
		CreatedBy:   userID,
		CreatedAt:   now,
	}
	stored, err := s.communities.Create(ctx, community)
	if err != nil {
		return nil, fmt.Errorf("create community: %w", err)
	}

	if err := s.admins.Upsert(ctx, &model.CommunityAdmin{
		CommunityID: stored.ID,
		UserID:      userID,
		Role:        model.AdminRoleOrganizer,
		CreatedAt:   now,
	}); err != nil {
		return nil, fmt.Errorf("assign organizer: %w", err)
	}
	if err := s.members.Add(ctx, &model.CommunityMember{
		CommunityID: stored.ID,
		UserID:      userID,
		JoinedAt:    now,
	}); err != nil {
		return nil, fmt.Errorf("add creator membership: %w", err)
	}

	return stored, nil
}

func (s *communityService) Get(ctx context.Context, id string) (*CommunityDetail, error) {
	community, err := s.communities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: community", ErrNotFound)
		}
		return nil, err
	}
	admins, err := s.admins.ListByCommunity(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CommunityDetail{Community: *community, Admins: admins}, nil
}

func (s *communityService) List(ctx context.Context, limit, offset int, parentID *string) (*CommunityListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.communities.List(ctx, repository.CommunityFilter{
		Page:     repository.PageQuery{Limit: limit, Offset: offset},
		ParentID: parentID,
	})
	if err != nil {
		return nil, err
	}
	return &CommunityListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *communityService) Update(ctx context.Context, id, userID string, in UpdateCommunityInput) (*model.Community, error) {
	community, err := s.communities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: community", ErrNotFound)
		}
		return nil, err
	}

	if _, err := s.requireAdmin(ctx, id, userID); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		community.Name = name
	}
	if in.Description != "" {
		community.Description = in.Description
	}

	return s.communities.Update(ctx, community)
}

func (s *communityService) Delete(ctx context.Context, id, userID string) error {
	community, err := s.communities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: community", ErrNotFound)
		}
		return err
	}

	if err := s.requireOrganizer(ctx, id, userID); err != nil {
		return err
	}

	children, err := s.communities.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrHasChildren
	}

	if community.CoverPath != "" {
		// Best effort; a dangling object is preferable to a blocked delete.
		_ = s.store.Delete(ctx, community.CoverPath)
	}

	return s.communities.Delete(ctx, id)
}

func (s *communityService) Join(ctx context.Context, id, userID string) error {
	if _, err := s.communities.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: community", ErrNotFound)
		}
		return err
	}

	return s.members.Add(ctx, &model.CommunityMember{
		CommunityID: id,
		UserID:      userID,
		JoinedAt:    time.Now().UTC(),
	})
}

func (s *communityService) Leave(ctx context.Context, id, userID string) error {
	if _, err := s.members.Find(ctx, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: membership", ErrNotFound)
		}
		return err
	}

	admin, err := s.admins.Find(ctx, id, userID)
	if err == nil && admin.Role == model.AdminRoleOrganizer {
		organizers, err := s.admins.CountByRole(ctx, id, model.AdminRoleOrganizer)
		if err != nil {
			return err
		}
		if organizers <= 1 {
			return ErrLastOrganizer
		}
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if err := s.admins.Delete(ctx, id, userID); err != nil {
		return err
	}
	return s.members.Remove(ctx, id, userID)
}

func (s *communityService) Members(ctx context.Context, id string, limit, offset int) (*MemberListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := s.communities.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: community", ErrNotFound)
		}
		return nil, err
	}

	res, err := s.members.List(ctx, id, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &MemberListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *communityService) SetAdminRole(ctx context.Context, id, actorID, targetID string, role model.AdminRole) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown admin role %q", ErrValidation, role)
	}

	if err := s.requireOrganizer(ctx, id, actorID); err != nil {
		return err
	}

	if _, err := s.members.Find(ctx, id, targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotMember
		}
		return err
	}

	// Demoting an organizer must not leave the community without one.
	if role != model.AdminRoleOrganizer {
		current, err := s.admins.Find(ctx, id, targetID)
		if err == nil && current.Role == model.AdminRoleOrganizer {
			organizers, err := s.admins.CountByRole(ctx, id, model.AdminRoleOrganizer)
			if err != nil {
				return err
			}
			if organizers <= 1 {
				return ErrLastOrganizer
			}
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}

	return s.admins.Upsert(ctx, &model.CommunityAdmin{
		CommunityID: id,
		UserID:      targetID,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *communityService) RemoveAdmin(ctx context.Context, id, actorID, targetID string) error {
	if err := s.requireOrganizer(ctx, id, actorID); err != nil {
		return err
	}

	target, err := s.admins.Find(ctx, id, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: admin role", ErrNotFound)
		}
		return err
	}

	if target.Role == model.AdminRoleOrganizer {
		organizers, err := s.admins.CountByRole(ctx, id, model.AdminRoleOrganizer)
		if err != nil {
			return err
		}
		if organizers <= 1 {
			return ErrLastOrganizer
		}
	}

	return s.admins.Delete(ctx, id, targetID)
}

func (s *communityService) UploadCover(ctx context.Context, id, userID string, r io.Reader, filename, contentType string, size int64) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: file is required", ErrValidation)
	}

	community, err := s.communities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: community", ErrNotFound)
		}
		return "", err
	}

	if _, err := s.requireAdmin(ctx, id, userID); err != nil {
		return "", err
	}

	key, err := uploadCover(ctx, s.store, "communities", r, filename, contentType, size)
	if err != nil {
		return "", err
	}

	if err := s.communities.SetCoverPath(ctx, id, key); err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return "", fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return "", fmt.Errorf("db save failed: %w", err)
	}

	if community.CoverPath != "" && community.CoverPath != key {
		_ = s.store.Delete(ctx, community.CoverPath)
	}

	return key, nil
}

func (s *communityService) CoverURL(ctx context.Context, id string) (string, error) {
	community, err := s.communities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: community", ErrNotFound)
		}
		return "", err
	}
	if community.CoverPath == "" {
		return "", fmt.Errorf("%w: cover image", ErrNotFound)
	}
	return s.store.PresignGet(ctx, community.CoverPath, coverURLExpiry)
}

// uploadCover streams a cover image to object storage under
// <prefix>/<uuid><ext> and returns the object key.
func uploadCover(ctx context.Context, store storage.Storage, prefix string, r io.Reader, filename, contentType string, size int64) (string, error) {
	ext := filepath.Ext(filename)
	key := filepath.ToSlash(filepath.Join(prefix, uuid.New().String()+ext))

	if _, err := store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": filename,
		},
	}); err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}
	return key, nil
}
