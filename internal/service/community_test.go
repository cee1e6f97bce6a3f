package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"eventflow/internal/model"
	repoMocks "eventflow/internal/repository/mocks"
	"eventflow/internal/storage"
	storeMocks "eventflow/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func activeSub(userID string) *model.Subscription {
	return &model.Subscription{
		ID:        "sub1",
		UserID:    userID,
		Kind:      model.SubscriptionKindPaid,
		Status:    model.SubscriptionStatusActive,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

func expiredSub(userID string) *model.Subscription {
	return &model.Subscription{
		ID:        "sub1",
		UserID:    userID,
		Kind:      model.SubscriptionKindPaid,
		Status:    model.SubscriptionStatusActive,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "go-meetup-berlin", Slugify("Go Meetup, Berlin!"))
	assert.Equal(t, "big-tent-2024", Slugify("  Big Tent 2024  "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestCommunityService_Create(t *testing.T) {
	ctx := context.Background()
	parentID := "parent1"

	tests := []struct {
		name       string
		input      CreateCommunityInput
		setupMocks func(mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository, mSubs *repoMocks.MockSubscriptionRepository)
		wantErr    error
	}{
		{
			name:  "happy path",
			input: CreateCommunityInput{Name: "Go Meetup"},
			setupMocks: func(mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(activeSub("u1"), nil)
				mComm.On("FindBySlug", ctx, "go-meetup").Return(nil, sql.ErrNoRows)
				mComm.On("Create", ctx, mock.MatchedBy(func(c *model.Community) bool {
					return c.Name == "Go Meetup" && c.Slug == "go-meetup" && c.CreatedBy == "u1"
				})).Return(&model.Community{ID: "c1", Slug: "go-meetup"}, nil)
				mAdmins.On("Upsert", ctx, mock.MatchedBy(func(a *model.CommunityAdmin) bool {
					return a.CommunityID == "c1" && a.UserID == "u1" && a.Role == model.AdminRoleOrganizer
				})).Return(nil)
				mMembers.On("Add", ctx, mock.MatchedBy(func(m *model.CommunityMember) bool {
					return m.CommunityID == "c1" && m.UserID == "u1"
				})).Return(nil)
			},
		},
		{
			name:  "no subscription",
			input: CreateCommunityInput{Name: "Go Meetup"},
			setupMocks: func(mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrSubscriptionRequired,
		},
		{
			name:  "expired subscription",
			input: CreateCommunityInput{Name: "Go Meetup"},
			setupMocks: func(mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(expiredSub("u1"), nil)
			},
			wantErr: ErrSubscriptionRequired,
		},
		{
			name:  "slug taken",
			input: CreateCommunityInput{Name: "Go Meetup"},
			setupMocks: func(mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(activeSub("u1"), nil)
				mComm.On("FindBySlug", ctx, "go-meetup").Return(&model.Community{ID: "other"}, nil)
			},
			wantErr: ErrSlugTaken,
		},
		{
			name:  "sub-community requires parent admin",
			input: CreateCommunityInput{Name: "Go Meetup", ParentID: &parentID},
			setupMocks: func(mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(activeSub("u1"), nil)
				mComm.On("FindByID", ctx, parentID).Return(&model.Community{ID: parentID}, nil)
				mAdmins.On("Find", ctx, parentID, "u1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrForbidden,
		},
		{
			name:  "sub-community under missing parent",
			input: CreateCommunityInput{Name: "Go Meetup", ParentID: &parentID},
			setupMocks: func(mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(activeSub("u1"), nil)
				mComm.On("FindByID", ctx, parentID).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "empty name",
			input:   CreateCommunityInput{Name: "   "},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mComm := new(repoMocks.MockCommunityRepository)
			mAdmins := new(repoMocks.MockCommunityAdminRepository)
			mMembers := new(repoMocks.MockCommunityMemberRepository)
			mSubs := new(repoMocks.MockSubscriptionRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(mComm, mAdmins, mMembers, mSubs)
			}

			svc := NewCommunityService(mComm, mAdmins, mMembers, mSubs, new(storeMocks.MockStorage))
			community, err := svc.Create(ctx, "u1", tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, community)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, community)
			}
			mComm.AssertExpectations(t)
			mAdmins.AssertExpectations(t)
			mMembers.AssertExpectations(t)
		})
	}
}

func TestCommunityService_Leave(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository)
		wantErr    error
	}{
		{
			name: "plain member leaves",
			setupMocks: func(mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository) {
				mMembers.On("Find", ctx, "c1", "u1").Return(&model.CommunityMember{}, nil)
				mAdmins.On("Find", ctx, "c1", "u1").Return(nil, sql.ErrNoRows)
				mAdmins.On("Delete", ctx, "c1", "u1").Return(nil)
				mMembers.On("Remove", ctx, "c1", "u1").Return(nil)
			},
		},
		{
			name: "organizer leaves when another organizer remains",
			setupMocks: func(mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository) {
				mMembers.On("Find", ctx, "c1", "u1").Return(&model.CommunityMember{}, nil)
				mAdmins.On("Find", ctx, "c1", "u1").
					Return(&model.CommunityAdmin{Role: model.AdminRoleOrganizer}, nil)
				mAdmins.On("CountByRole", ctx, "c1", model.AdminRoleOrganizer).Return(2, nil)
				mAdmins.On("Delete", ctx, "c1", "u1").Return(nil)
				mMembers.On("Remove", ctx, "c1", "u1").Return(nil)
			},
		},
		{
			name: "last organizer cannot leave",
			setupMocks: func(mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository) {
				mMembers.On("Find", ctx, "c1", "u1").Return(&model.CommunityMember{}, nil)
				mAdmins.On("Find", ctx, "c1", "u1").
					Return(&model.CommunityAdmin{Role: model.AdminRoleOrganizer}, nil)
				mAdmins.On("CountByRole", ctx, "c1", model.AdminRoleOrganizer).Return(1, nil)
			},
			wantErr: ErrLastOrganizer,
		},
		{
			name: "not a member",
			setupMocks: func(mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository) {
				mMembers.On("Find", ctx, "c1", "u1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mAdmins := new(repoMocks.MockCommunityAdminRepository)
			mMembers := new(repoMocks.MockCommunityMemberRepository)
			tt.setupMocks(mAdmins, mMembers)

			svc := NewCommunityService(new(repoMocks.MockCommunityRepository), mAdmins, mMembers, new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
			err := svc.Leave(ctx, "c1", "u1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mAdmins.AssertExpectations(t)
			mMembers.AssertExpectations(t)
		})
	}
}

func TestCommunityService_SetAdminRole(t *testing.T) {
	ctx := context.Background()

	organizer := &model.CommunityAdmin{CommunityID: "c1", UserID: "actor", Role: model.AdminRoleOrganizer}
	moderator := &model.CommunityAdmin{CommunityID: "c1", UserID: "actor", Role: model.AdminRoleModerator}

	tests := []struct {
		name       string
		role       model.AdminRole
		setupMocks func(mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository)
		wantErr    error
	}{
		{
			name: "organizer promotes member to moderator",
			role: model.AdminRoleModerator,
			setupMocks: func(mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository) {
				mAdmins.On("Find", ctx, "c1", "actor").Return(organizer, nil)
				mMembers.On("Find", ctx, "c1", "target").Return(&model.CommunityMember{}, nil)
				mAdmins.On("Find", ctx, "c1", "target").Return(nil, sql.ErrNoRows)
				mAdmins.On("Upsert", ctx, mock.MatchedBy(func(a *model.CommunityAdmin) bool {
					return a.UserID == "target" && a.Role == model.AdminRoleModerator
				})).Return(nil)
			},
		},
		{
			name: "moderator cannot promote",
			role: model.AdminRoleModerator,
			setupMocks: func(mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository) {
				mAdmins.On("Find", ctx, "c1", "actor").Return(moderator, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name: "non-admin cannot promote",
			role: model.AdminRoleModerator,
			setupMocks: func(mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository) {
				mAdmins.On("Find", ctx, "c1", "actor").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrForbidden,
		},
		{
			name: "target must be a member",
			role: model.AdminRoleModerator,
			setupMocks: func(mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository) {
				mAdmins.On("Find", ctx, "c1", "actor").Return(organizer, nil)
				mMembers.On("Find", ctx, "c1", "target").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotMember,
		},
		{
			name: "demoting the last organizer is refused",
			role: model.AdminRoleModerator,
			setupMocks: func(mAdmins *repoMocks.MockCommunityAdminRepository, mMembers *repoMocks.MockCommunityMemberRepository) {
				mAdmins.On("Find", ctx, "c1", "actor").Return(organizer, nil)
				mMembers.On("Find", ctx, "c1", "target").Return(&model.CommunityMember{}, nil)
				mAdmins.On("Find", ctx, "c1", "target").
					Return(&model.CommunityAdmin{UserID: "target", Role: model.AdminRoleOrganizer}, nil)
				mAdmins.On("CountByRole", ctx, "c1", model.AdminRoleOrganizer).Return(1, nil)
			},
			wantErr: ErrLastOrganizer,
		},
		{
			name:    "unknown role",
			role:    model.AdminRole("owner"),
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mAdmins := new(repoMocks.MockCommunityAdminRepository)
			mMembers := new(repoMocks.MockCommunityMemberRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(mAdmins, mMembers)
			}

			svc := NewCommunityService(new(repoMocks.MockCommunityRepository), mAdmins, mMembers, new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
			err := svc.SetAdminRole(ctx, "c1", "actor", "target", tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mAdmins.AssertExpectations(t)
		})
	}
}

func TestCommunityService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("organizer deletes a leaf community", func(t *testing.T) {
		mComm := new(repoMocks.MockCommunityRepository)
		mAdmins := new(repoMocks.MockCommunityAdminRepository)
		mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
		mAdmins.On("Find", ctx, "c1", "u1").
			Return(&model.CommunityAdmin{Role: model.AdminRoleOrganizer}, nil)
		mComm.On("CountChildren", ctx, "c1").Return(0, nil)
		mComm.On("Delete", ctx, "c1").Return(nil)

		svc := NewCommunityService(mComm, mAdmins, new(repoMocks.MockCommunityMemberRepository), new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
		assert.NoError(t, svc.Delete(ctx, "c1", "u1"))
		mComm.AssertExpectations(t)
	})

	t.Run("refuses when children exist", func(t *testing.T) {
		mComm := new(repoMocks.MockCommunityRepository)
		mAdmins := new(repoMocks.MockCommunityAdminRepository)
		mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
		mAdmins.On("Find", ctx, "c1", "u1").
			Return(&model.CommunityAdmin{Role: model.AdminRoleOrganizer}, nil)
		mComm.On("CountChildren", ctx, "c1").Return(2, nil)

		svc := NewCommunityService(mComm, mAdmins, new(repoMocks.MockCommunityMemberRepository), new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
		assert.ErrorIs(t, svc.Delete(ctx, "c1", "u1"), ErrHasChildren)
	})

	t.Run("moderator cannot delete", func(t *testing.T) {
		mComm := new(repoMocks.MockCommunityRepository)
		mAdmins := new(repoMocks.MockCommunityAdminRepository)
		mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
		mAdmins.On("Find", ctx, "c1", "u1").
			Return(&model.CommunityAdmin{Role: model.AdminRoleModerator}, nil)

		svc := NewCommunityService(mComm, mAdmins, new(repoMocks.MockCommunityMemberRepository), new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
		assert.ErrorIs(t, svc.Delete(ctx, "c1", "u1"), ErrForbidden)
	})
}

func TestCommunityService_UploadCover(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path replaces old cover", func(t *testing.T) {
		mComm := new(repoMocks.MockCommunityRepository)
		mAdmins := new(repoMocks.MockCommunityAdminRepository)
		mStore := new(storeMocks.MockStorage)

		mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1", CoverPath: "communities/old.png"}, nil)
		mAdmins.On("Find", ctx, "c1", "u1").
			Return(&model.CommunityAdmin{Role: model.AdminRoleModerator}, nil)

		r := strings.NewReader("png-bytes")
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "communities/") && strings.HasSuffix(key, ".png")
		}), r, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mComm.On("SetCoverPath", ctx, "c1", mock.AnythingOfType("string")).Return(nil)
		mStore.On("Delete", ctx, "communities/old.png").Return(nil)

		svc := NewCommunityService(mComm, mAdmins, new(repoMocks.MockCommunityMemberRepository), new(repoMocks.MockSubscriptionRepository), mStore)
		key, err := svc.UploadCover(ctx, "c1", "u1", r, "cover.png", "image/png", 9)
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(key, "communities/"))
		mStore.AssertExpectations(t)
	})

	t.Run("db failure rolls back the upload", func(t *testing.T) {
		mComm := new(repoMocks.MockCommunityRepository)
		mAdmins := new(repoMocks.MockCommunityAdminRepository)
		mStore := new(storeMocks.MockStorage)

		mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
		mAdmins.On("Find", ctx, "c1", "u1").
			Return(&model.CommunityAdmin{Role: model.AdminRoleOrganizer}, nil)

		r := strings.NewReader("png-bytes")
		mStore.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mComm.On("SetCoverPath", ctx, "c1", mock.AnythingOfType("string")).
			Return(errors.New("db down"))
		mStore.On("Delete", ctx, mock.AnythingOfType("string")).Return(nil)

		svc := NewCommunityService(mComm, mAdmins, new(repoMocks.MockCommunityMemberRepository), new(repoMocks.MockSubscriptionRepository), mStore)
		_, err := svc.UploadCover(ctx, "c1", "u1", r, "cover.png", "image/png", 9)
		assert.ErrorContains(t, err, "db save failed")
		mStore.AssertExpectations(t)
	})

	t.Run("non-admin is refused", func(t *testing.T) {
		mComm := new(repoMocks.MockCommunityRepository)
		mAdmins := new(repoMocks.MockCommunityAdminRepository)
		mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
		mAdmins.On("Find", ctx, "c1", "u1").Return(nil, sql.ErrNoRows)

		svc := NewCommunityService(mComm, mAdmins, new(repoMocks.MockCommunityMemberRepository), new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
		_, err := svc.UploadCover(ctx, "c1", "u1", strings.NewReader("x"), "cover.png", "image/png", 1)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
