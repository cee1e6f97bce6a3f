package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventflow/internal/model"
	repoMocks "eventflow/internal/repository/mocks"
	storeMocks "eventflow/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	starts := time.Now().Add(48 * time.Hour)
	ends := starts.Add(2 * time.Hour)

	admin := &model.CommunityAdmin{CommunityID: "c1", UserID: "u1", Role: model.AdminRoleModerator}

	base := CreateEventInput{
		Title:    "Monthly Meetup",
		Type:     model.EventTypeInPerson,
		Metadata: map[string]string{"venue": "Town Hall"},
		StartsAt: starts,
		EndsAt:   ends,
	}

	tests := []struct {
		name       string
		input      CreateEventInput
		setupMocks func(mEvents *repoMocks.MockEventRepository, mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mSubs *repoMocks.MockSubscriptionRepository)
		wantErr    error
	}{
		{
			name:  "happy path",
			input: base,
			setupMocks: func(mEvents *repoMocks.MockEventRepository, mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
				mAdmins.On("Find", ctx, "c1", "u1").Return(admin, nil)
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(activeSub("u1"), nil)
				mEvents.On("Create", ctx, mock.MatchedBy(func(e *model.Event) bool {
					return e.CommunityID == "c1" && e.Title == "Monthly Meetup" && e.CreatedBy == "u1"
				})).Return(&model.Event{ID: "e1"}, nil)
			},
		},
		{
			name:  "non-admin is refused",
			input: base,
			setupMocks: func(mEvents *repoMocks.MockEventRepository, mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
				mAdmins.On("Find", ctx, "c1", "u1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrForbidden,
		},
		{
			name:  "expired subscription gates creation",
			input: base,
			setupMocks: func(mEvents *repoMocks.MockEventRepository, mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
				mAdmins.On("Find", ctx, "c1", "u1").Return(admin, nil)
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(expiredSub("u1"), nil)
			},
			wantErr: ErrSubscriptionRequired,
		},
		{
			name: "unknown community",
			input: base,
			setupMocks: func(mEvents *repoMocks.MockEventRepository, mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mComm.On("FindByID", ctx, "c1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "in-person event needs a venue",
			input: CreateEventInput{
				Title:    "Monthly Meetup",
				Type:     model.EventTypeInPerson,
				StartsAt: starts,
				EndsAt:   ends,
			},
			setupMocks: func(mEvents *repoMocks.MockEventRepository, mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
				mAdmins.On("Find", ctx, "c1", "u1").Return(admin, nil)
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(activeSub("u1"), nil)
			},
			wantErr: ErrValidation,
		},
		{
			name: "hybrid event needs venue and url",
			input: CreateEventInput{
				Title:    "Monthly Meetup",
				Type:     model.EventTypeHybrid,
				Metadata: map[string]string{"venue": "Town Hall"},
				StartsAt: starts,
				EndsAt:   ends,
			},
			setupMocks: func(mEvents *repoMocks.MockEventRepository, mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
				mAdmins.On("Find", ctx, "c1", "u1").Return(admin, nil)
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(activeSub("u1"), nil)
			},
			wantErr: ErrValidation,
		},
		{
			name: "ends before it starts",
			input: CreateEventInput{
				Title:    "Monthly Meetup",
				Type:     model.EventTypeOnline,
				Metadata: map[string]string{"url": "https://meet.example.com/x"},
				StartsAt: ends,
				EndsAt:   starts,
			},
			setupMocks: func(mEvents *repoMocks.MockEventRepository, mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
				mAdmins.On("Find", ctx, "c1", "u1").Return(admin, nil)
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(activeSub("u1"), nil)
			},
			wantErr: ErrValidation,
		},
		{
			name: "unknown event type",
			input: CreateEventInput{
				Title:    "Monthly Meetup",
				Type:     model.EventType("metaverse"),
				StartsAt: starts,
				EndsAt:   ends,
			},
			setupMocks: func(mEvents *repoMocks.MockEventRepository, mComm *repoMocks.MockCommunityRepository, mAdmins *repoMocks.MockCommunityAdminRepository, mSubs *repoMocks.MockSubscriptionRepository) {
				mComm.On("FindByID", ctx, "c1").Return(&model.Community{ID: "c1"}, nil)
				mAdmins.On("Find", ctx, "c1", "u1").Return(admin, nil)
				mSubs.On("FindCurrentByUser", ctx, "u1").Return(activeSub("u1"), nil)
			},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEvents := new(repoMocks.MockEventRepository)
			mComm := new(repoMocks.MockCommunityRepository)
			mAdmins := new(repoMocks.MockCommunityAdminRepository)
			mSubs := new(repoMocks.MockSubscriptionRepository)
			tt.setupMocks(mEvents, mComm, mAdmins, mSubs)

			svc := NewEventService(mEvents, mComm, mAdmins, mSubs, new(storeMocks.MockStorage))
			event, err := svc.Create(ctx, "c1", "u1", tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, event)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, event)
			}
			mEvents.AssertExpectations(t)
		})
	}
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()

	starts := time.Now().Add(48 * time.Hour)
	stored := &model.Event{
		ID:          "e1",
		CommunityID: "c1",
		Title:       "Monthly Meetup",
		Type:        model.EventTypeOnline,
		Metadata:    map[string]string{"url": "https://meet.example.com/x"},
		StartsAt:    starts,
		EndsAt:      starts.Add(time.Hour),
	}

	t.Run("admin edits the title", func(t *testing.T) {
		mEvents := new(repoMocks.MockEventRepository)
		mAdmins := new(repoMocks.MockCommunityAdminRepository)
		copy := *stored
		mEvents.On("FindByID", ctx, "e1").Return(&copy, nil)
		mAdmins.On("Find", ctx, "c1", "u1").
			Return(&model.CommunityAdmin{Role: model.AdminRoleModerator}, nil)
		mEvents.On("Update", ctx, mock.MatchedBy(func(e *model.Event) bool {
			return e.Title == "Renamed"
		})).Return(&model.Event{ID: "e1", Title: "Renamed"}, nil)

		svc := NewEventService(mEvents, new(repoMocks.MockCommunityRepository), mAdmins, new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
		event, err := svc.Update(ctx, "e1", "u1", UpdateEventInput{Title: "Renamed"})
		assert.NoError(t, err)
		assert.Equal(t, "Renamed", event.Title)
	})

	t.Run("type change revalidates metadata", func(t *testing.T) {
		mEvents := new(repoMocks.MockEventRepository)
		mAdmins := new(repoMocks.MockCommunityAdminRepository)
		copy := *stored
		mEvents.On("FindByID", ctx, "e1").Return(&copy, nil)
		mAdmins.On("Find", ctx, "c1", "u1").
			Return(&model.CommunityAdmin{Role: model.AdminRoleModerator}, nil)

		svc := NewEventService(mEvents, new(repoMocks.MockCommunityRepository), mAdmins, new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
		_, err := svc.Update(ctx, "e1", "u1", UpdateEventInput{Type: model.EventTypeInPerson})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("non-admin is refused", func(t *testing.T) {
		mEvents := new(repoMocks.MockEventRepository)
		mAdmins := new(repoMocks.MockCommunityAdminRepository)
		copy := *stored
		mEvents.On("FindByID", ctx, "e1").Return(&copy, nil)
		mAdmins.On("Find", ctx, "c1", "u1").Return(nil, sql.ErrNoRows)

		svc := NewEventService(mEvents, new(repoMocks.MockCommunityRepository), mAdmins, new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
		_, err := svc.Update(ctx, "e1", "u1", UpdateEventInput{Title: "Renamed"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown event", func(t *testing.T) {
		mEvents := new(repoMocks.MockEventRepository)
		mEvents.On("FindByID", ctx, "e1").Return(nil, sql.ErrNoRows)

		svc := NewEventService(mEvents, new(repoMocks.MockCommunityRepository), new(repoMocks.MockCommunityAdminRepository), new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
		_, err := svc.Update(ctx, "e1", "u1", UpdateEventInput{Title: "Renamed"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("admin deletes and the cover goes with it", func(t *testing.T) {
		mEvents := new(repoMocks.MockEventRepository)
		mAdmins := new(repoMocks.MockCommunityAdminRepository)
		mStore := new(storeMocks.MockStorage)
		mEvents.On("FindByID", ctx, "e1").
			Return(&model.Event{ID: "e1", CommunityID: "c1", CoverPath: "events/x.png"}, nil)
		mAdmins.On("Find", ctx, "c1", "u1").
			Return(&model.CommunityAdmin{Role: model.AdminRoleOrganizer}, nil)
		mStore.On("Delete", ctx, "events/x.png").Return(nil)
		mEvents.On("Delete", ctx, "e1").Return(nil)

		svc := NewEventService(mEvents, new(repoMocks.MockCommunityRepository), mAdmins, new(repoMocks.MockSubscriptionRepository), mStore)
		assert.NoError(t, svc.Delete(ctx, "e1", "u1"))
		mStore.AssertExpectations(t)
	})

	t.Run("non-admin is refused", func(t *testing.T) {
		mEvents := new(repoMocks.MockEventRepository)
		mAdmins := new(repoMocks.MockCommunityAdminRepository)
		mEvents.On("FindByID", ctx, "e1").
			Return(&model.Event{ID: "e1", CommunityID: "c1"}, nil)
		mAdmins.On("Find", ctx, "c1", "u1").Return(nil, sql.ErrNoRows)

		svc := NewEventService(mEvents, new(repoMocks.MockCommunityRepository), mAdmins, new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
		assert.ErrorIs(t, svc.Delete(ctx, "e1", "u1"), ErrForbidden)
	})
}

func TestEventService_CoverURL(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns the stored cover", func(t *testing.T) {
		mEvents := new(repoMocks.MockEventRepository)
		mStore := new(storeMocks.MockStorage)
		mEvents.On("FindByID", ctx, "e1").
			Return(&model.Event{ID: "e1", CoverPath: "events/x.png"}, nil)
		mStore.On("PresignGet", ctx, "events/x.png", coverURLExpiry).
			Return("https://minio.local/events/x.png?sig=abc", nil)

		svc := NewEventService(mEvents, new(repoMocks.MockCommunityRepository), new(repoMocks.MockCommunityAdminRepository), new(repoMocks.MockSubscriptionRepository), mStore)
		url, err := svc.CoverURL(ctx, "e1")
		assert.NoError(t, err)
		assert.Contains(t, url, "sig=abc")
	})

	t.Run("no cover set", func(t *testing.T) {
		mEvents := new(repoMocks.MockEventRepository)
		mEvents.On("FindByID", ctx, "e1").Return(&model.Event{ID: "e1"}, nil)

		svc := NewEventService(mEvents, new(repoMocks.MockCommunityRepository), new(repoMocks.MockCommunityAdminRepository), new(repoMocks.MockSubscriptionRepository), new(storeMocks.MockStorage))
		_, err := svc.CoverURL(ctx, "e1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
