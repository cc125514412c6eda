package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"paintpro/internal/auth"
	"paintpro/internal/cache"
	apperrors "paintpro/internal/errors"
	"paintpro/internal/gateway"
	"paintpro/internal/model"
)

// MockProfileRecords is a mock implementation of gateway.ProfileRecords.
type MockProfileRecords struct {
	mock.Mock
}

func (m *MockProfileRecords) List(ctx context.Context) ([]model.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *MockProfileRecords) Insert(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRecords) Update(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRecords) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockJobRecords is a mock implementation of gateway.JobRecords.
type MockJobRecords struct {
	mock.Mock
}

func (m *MockJobRecords) ListByOwner(ctx context.Context, ownerID int64) ([]model.Job, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Job), args.Error(1)
}

func (m *MockJobRecords) Insert(ctx context.Context, job *model.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRecords) Update(ctx context.Context, job *model.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRecords) Delete(ctx context.Context, ownerID, jobID int64) error {
	args := m.Called(ctx, ownerID, jobID)
	return args.Error(0)
}

func (m *MockJobRecords) DeleteByOwner(ctx context.Context, ownerID int64) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

// mockGateway bundles the record mocks behind the gateway interface.
type mockGateway struct {
	profiles *MockProfileRecords
	jobs     *MockJobRecords
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		profiles: new(MockProfileRecords),
		jobs:     new(MockJobRecords),
	}
}

func (g *mockGateway) Profiles() gateway.ProfileRecords { return g.profiles }
func (g *mockGateway) Jobs() gateway.JobRecords         { return g.jobs }

var errRemoteDown = errors.New("connection refused")

func newProfileService(gw *mockGateway, store cache.Store) ProfileService {
	return NewProfileService(gw, store, auth.NewSessionStore(store))
}

func TestProfileService_LoadProfiles(t *testing.T) {
	roster := []model.Profile{
		{ID: 1, Name: "Hlavní uživatel", PIN: "123456", Avatar: "HU", Color: "#4F46E5"},
		{ID: 2, Name: "Pomocník", PIN: "654321", Avatar: "PO", Color: "#EF4444"},
	}

	tests := []struct {
		name           string
		setupMock      func(*MockProfileRecords)
		setupCache     func(*cache.Memory)
		expectedSource Source
		expectedNames  []string
	}{
		{
			name: "remote roster wins",
			setupMock: func(m *MockProfileRecords) {
				m.On("List", mock.Anything).Return(roster, nil)
			},
			expectedSource: SourceRemote,
			expectedNames:  []string{"Hlavní uživatel", "Pomocník"},
		},
		{
			name: "remote failure falls back to cached roster",
			setupMock: func(m *MockProfileRecords) {
				m.On("List", mock.Anything).Return(nil, errRemoteDown)
			},
			setupCache: func(store *cache.Memory) {
				payload, _ := json.Marshal(roster)
				_ = store.Set(context.Background(), cache.KeyProfiles, payload, 0)
			},
			expectedSource: SourceCache,
			expectedNames:  []string{"Hlavní uživatel", "Pomocník"},
		},
		{
			name: "empty everywhere seeds the default profile",
			setupMock: func(m *MockProfileRecords) {
				m.On("List", mock.Anything).Return(nil, errRemoteDown)
			},
			expectedSource: SourceCache,
			expectedNames:  []string{"Hlavní uživatel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newMockGateway()
			tt.setupMock(gw.profiles)
			store := cache.NewMemory()
			if tt.setupCache != nil {
				tt.setupCache(store)
			}

			service := newProfileService(gw, store)
			profiles, source, err := service.LoadProfiles(context.Background())

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedSource, source)
			names := make([]string, 0, len(profiles))
			for _, p := range profiles {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.expectedNames, names)
			gw.profiles.AssertExpectations(t)
		})
	}
}

func TestProfileService_Login(t *testing.T) {
	tests := []struct {
		name          string
		pin           string
		expectedError error
	}{
		{
			name: "matching pin signs in",
			pin:  "123456",
		},
		{
			name:          "unknown pin is rejected",
			pin:           "000000",
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newMockGateway()
			gw.profiles.On("List", mock.Anything).Return([]model.Profile{model.DefaultProfile()}, nil)
			store := cache.NewMemory()

			service := newProfileService(gw, store)
			session, err := service.Login(context.Background(), tt.pin)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, session)
				assert.Nil(t, service.CurrentSession())
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, session)
				assert.Equal(t, int64(1), session.ProfileID)
				assert.Equal(t, "Hlavní uživatel", session.Name)
				assert.Equal(t, session, service.CurrentSession())

				// The session must be mirrored for restarts.
				mirrored, err := store.Get(context.Background(), cache.KeySession)
				assert.NoError(t, err)
				assert.NotNil(t, mirrored)
			}
		})
	}
}

func TestProfileService_RestoreSession(t *testing.T) {
	gw := newMockGateway()
	gw.profiles.On("List", mock.Anything).Return([]model.Profile{model.DefaultProfile()}, nil)
	store := cache.NewMemory()

	first := newProfileService(gw, store)
	_, err := first.Login(context.Background(), "123456")
	assert.NoError(t, err)

	// A fresh service instance stands in for a process restart.
	second := newProfileService(gw, store)
	assert.Nil(t, second.CurrentSession())

	restored, err := second.RestoreSession(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, restored)
	assert.Equal(t, int64(1), restored.ProfileID)
	assert.Equal(t, restored, second.CurrentSession())
}

func TestProfileService_AddProfile(t *testing.T) {
	tests := []struct {
		name           string
		input          ProfileInput
		setupMock      func(*MockProfileRecords)
		expectedError  error
		expectedSource Source
		expectedID     int64
		expectedAvatar string
	}{
		{
			name:  "remote create assigns the id",
			input: ProfileInput{Name: "Pomocník", PIN: "654321"},
			setupMock: func(m *MockProfileRecords) {
				m.On("List", mock.Anything).Return([]model.Profile{model.DefaultProfile()}, nil)
				m.On("Insert", mock.Anything, mock.AnythingOfType("*model.Profile")).Run(func(args mock.Arguments) {
					args.Get(1).(*model.Profile).ID = 7
				}).Return(nil)
			},
			expectedSource: SourceRemote,
			expectedID:     7,
			expectedAvatar: "PO",
		},
		{
			name:  "remote failure synthesizes max+1 locally",
			input: ProfileInput{Name: "Pomocník", PIN: "654321"},
			setupMock: func(m *MockProfileRecords) {
				m.On("List", mock.Anything).Return([]model.Profile{model.DefaultProfile()}, nil)
				m.On("Insert", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(errRemoteDown)
			},
			expectedSource: SourceCache,
			expectedID:     2,
			expectedAvatar: "PO",
		},
		{
			name:  "duplicate pin is refused",
			input: ProfileInput{Name: "Pomocník", PIN: "123456"},
			setupMock: func(m *MockProfileRecords) {
				m.On("List", mock.Anything).Return([]model.Profile{model.DefaultProfile()}, nil)
			},
			expectedError: apperrors.ErrPINTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newMockGateway()
			tt.setupMock(gw.profiles)
			store := cache.NewMemory()

			service := newProfileService(gw, store)
			_, _, err := service.LoadProfiles(context.Background())
			assert.NoError(t, err)

			profile, source, err := service.AddProfile(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, profile)
				assert.Len(t, service.Roster(), 1)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedSource, source)
				assert.Equal(t, tt.expectedID, profile.ID)
				assert.Equal(t, tt.expectedAvatar, profile.Avatar)
				assert.Equal(t, "#4F46E5", profile.Color)
				assert.Len(t, service.Roster(), 2)
			}
			gw.profiles.AssertExpectations(t)
		})
	}
}

func TestProfileService_EditProfile(t *testing.T) {
	roster := []model.Profile{
		{ID: 1, Name: "Hlavní uživatel", PIN: "123456", Avatar: "HU", Color: "#4F46E5"},
		{ID: 2, Name: "Pomocník", PIN: "654321", Avatar: "PO", Color: "#EF4444"},
	}

	tests := []struct {
		name          string
		id            int64
		pin           string
		input         ProfileInput
		setupMock     func(*MockProfileRecords)
		expectedError error
		expectedName  string
	}{
		{
			name:  "rename with the correct pin",
			id:    2,
			pin:   "654321",
			input: ProfileInput{Name: "Malíř"},
			setupMock: func(m *MockProfileRecords) {
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)
			},
			expectedName: "Malíř",
		},
		{
			name:          "wrong pin fails closed",
			id:            2,
			pin:           "123456",
			input:         ProfileInput{Name: "Malíř"},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:          "pin change onto a taken pin is refused",
			id:            2,
			pin:           "654321",
			input:         ProfileInput{PIN: "123456"},
			expectedError: apperrors.ErrPINTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newMockGateway()
			gw.profiles.On("List", mock.Anything).Return(roster, nil)
			if tt.setupMock != nil {
				tt.setupMock(gw.profiles)
			}
			store := cache.NewMemory()

			service := newProfileService(gw, store)
			_, _, err := service.LoadProfiles(context.Background())
			assert.NoError(t, err)

			profile, err := service.EditProfile(context.Background(), tt.id, tt.pin, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, profile)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedName, profile.Name)
			}
			gw.profiles.AssertExpectations(t)
		})
	}
}

func TestProfileService_EditProfileRefreshesSession(t *testing.T) {
	gw := newMockGateway()
	gw.profiles.On("List", mock.Anything).Return([]model.Profile{model.DefaultProfile()}, nil)
	gw.profiles.On("Update", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)
	store := cache.NewMemory()

	service := newProfileService(gw, store)
	_, err := service.Login(context.Background(), "123456")
	assert.NoError(t, err)

	_, err = service.EditProfile(context.Background(), 1, "123456", ProfileInput{Name: "Malíř"})
	assert.NoError(t, err)

	session := service.CurrentSession()
	assert.NotNil(t, session)
	assert.Equal(t, "Malíř", session.Name)
}

func TestProfileService_DeleteProfile(t *testing.T) {
	roster := []model.Profile{
		{ID: 1, Name: "Hlavní uživatel", PIN: "123456"},
		{ID: 2, Name: "Pomocník", PIN: "654321"},
	}

	t.Run("last profile is protected", func(t *testing.T) {
		gw := newMockGateway()
		gw.profiles.On("List", mock.Anything).Return([]model.Profile{model.DefaultProfile()}, nil)
		store := cache.NewMemory()

		service := newProfileService(gw, store)
		_, _, err := service.LoadProfiles(context.Background())
		assert.NoError(t, err)

		err = service.DeleteProfile(context.Background(), 1, "123456")
		assert.ErrorIs(t, err, apperrors.ErrLastProfile)
		assert.Len(t, service.Roster(), 1)
	})

	t.Run("wrong pin is rejected", func(t *testing.T) {
		gw := newMockGateway()
		gw.profiles.On("List", mock.Anything).Return(roster, nil)
		store := cache.NewMemory()

		service := newProfileService(gw, store)
		_, _, err := service.LoadProfiles(context.Background())
		assert.NoError(t, err)

		err = service.DeleteProfile(context.Background(), 2, "123456")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("cascade removes jobs and the active session", func(t *testing.T) {
		gw := newMockGateway()
		gw.profiles.On("List", mock.Anything).Return(roster, nil)
		gw.profiles.On("Delete", mock.Anything, int64(2)).Return(nil)
		gw.jobs.On("DeleteByOwner", mock.Anything, int64(2)).Return(nil)
		store := cache.NewMemory()
		_ = store.Set(context.Background(), cache.JobsKey(2), []byte("[]"), 0)

		service := newProfileService(gw, store)
		_, _, err := service.LoadProfiles(context.Background())
		assert.NoError(t, err)
		_, err = service.Login(context.Background(), "654321")
		assert.NoError(t, err)

		err = service.DeleteProfile(context.Background(), 2, "654321")
		assert.NoError(t, err)
		assert.Len(t, service.Roster(), 1)
		assert.Nil(t, service.CurrentSession())

		// The cached job list must be gone even though the remote cascade ran.
		cached, err := store.Get(context.Background(), cache.JobsKey(2))
		assert.NoError(t, err)
		assert.Nil(t, cached)

		gw.profiles.AssertExpectations(t)
		gw.jobs.AssertExpectations(t)
	})
}
