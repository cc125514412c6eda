package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"paintpro/internal/auth"
	"paintpro/internal/cache"
	"paintpro/internal/errors"
	"paintpro/internal/gateway"
	"paintpro/internal/model"
)

// Source tells callers which store answered: the remote gateway or the local
// cache standing in for it. Cache-sourced data may be stale and cache-applied
// writes may be lost once the remote copy reappears.
type Source string

const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
)

// ProfileService owns the authenticated session and the in-memory roster of
// profiles, degrading to the local cache when the remote gateway fails.
type ProfileService interface {
	// LoadProfiles refreshes the roster from the remote gateway, falling back
	// to the cached copy and finally to the hard-coded default profile.
	LoadProfiles(ctx context.Context) ([]model.Profile, Source, error)
	// Roster returns the current in-memory roster.
	Roster() []model.Profile
	// Login resolves a PIN to a profile, first match wins.
	Login(ctx context.Context, pin string) (*model.Session, error)
	Logout(ctx context.Context) error
	// CurrentSession returns the active session, or nil.
	CurrentSession() *model.Session
	// RestoreSession reloads a previously mirrored session from the cache.
	RestoreSession(ctx context.Context) (*model.Session, error)
	AddProfile(ctx context.Context, input ProfileInput) (*model.Profile, Source, error)
	EditProfile(ctx context.Context, id int64, pin string, input ProfileInput) (*model.Profile, error)
	DeleteProfile(ctx context.Context, id int64, pin string) error
}

// ProfileInput carries the caller-editable profile fields.
type ProfileInput struct {
	Name   string
	PIN    string
	Avatar string
	Color  string
}

type profileService struct {
	gw       gateway.Gateway
	cache    cache.Store
	sessions auth.SessionStoreInterface

	mu      sync.RWMutex
	roster  []model.Profile
	current *model.Session
}

// NewProfileService creates a new profile service.
func NewProfileService(gw gateway.Gateway, cacheStore cache.Store, sessions auth.SessionStoreInterface) ProfileService {
	return &profileService{
		gw:       gw,
		cache:    cacheStore,
		sessions: sessions,
	}
}

func (s *profileService) LoadProfiles(ctx context.Context) ([]model.Profile, Source, error) {
	profiles, err := s.gw.Profiles().List(ctx)
	if err == nil && len(profiles) > 0 {
		s.setRoster(profiles)
		s.mirrorRoster(ctx, profiles)
		return profiles, SourceRemote, nil
	}
	if err != nil {
		log.Printf("profiles: remote load failed, using cache: %v", err)
	}

	if cached := s.cachedRoster(ctx); len(cached) > 0 {
		s.setRoster(cached)
		return cached, SourceCache, nil
	}

	// Neither store has a roster: seed it so login is always possible.
	seed := []model.Profile{model.DefaultProfile()}
	s.setRoster(seed)
	s.mirrorRoster(ctx, seed)
	return seed, SourceCache, nil
}

func (s *profileService) Roster() []model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Profile, len(s.roster))
	copy(out, s.roster)
	return out
}

func (s *profileService) Login(ctx context.Context, pin string) (*model.Session, error) {
	if len(s.Roster()) == 0 {
		if _, _, err := s.LoadProfiles(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.roster {
		if p.PIN == pin {
			session := &model.Session{
				ProfileID: p.ID,
				Name:      p.Name,
				Avatar:    p.Avatar,
				Color:     p.Color,
				LoginTime: time.Now(),
			}
			if err := s.sessions.Save(ctx, session); err != nil {
				return nil, err
			}
			s.current = session
			return session, nil
		}
	}
	return nil, errors.ErrInvalidCredentials
}

func (s *profileService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return s.sessions.Clear(ctx)
}

func (s *profileService) CurrentSession() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *profileService) RestoreSession(ctx context.Context) (*model.Session, error) {
	session, err := s.sessions.Load(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = session
	s.mu.Unlock()
	return session, nil
}

func (s *profileService) AddProfile(ctx context.Context, input ProfileInput) (*model.Profile, Source, error) {
	profile := model.Profile{
		Name:   input.Name,
		PIN:    input.PIN,
		Avatar: defaultAvatar(input.Avatar, input.Name),
		Color:  defaultColor(input.Color),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinTakenLocked(input.PIN, 0) {
		return nil, "", errors.ErrPINTaken
	}

	src := SourceRemote
	if err := s.gw.Profiles().Insert(ctx, &profile); err != nil {
		// Silent degrade: synthesize a local id and keep going.
		log.Printf("profiles: remote create failed, keeping local copy: %v", err)
		profile.ID = maxProfileID(s.roster) + 1
		profile.CreatedAt = time.Now()
		src = SourceCache
	}
	s.roster = append(s.roster, profile)
	s.mirrorRoster(ctx, s.roster)
	return &profile, src, nil
}

func (s *profileService) EditProfile(ctx context.Context, id int64, pin string, input ProfileInput) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.matchLocked(id, pin)
	if idx < 0 {
		// Fails closed: the caller must present the target's current PIN.
		return nil, errors.ErrInvalidCredentials
	}

	updated := s.roster[idx]
	if input.Name != "" {
		updated.Name = input.Name
	}
	if input.Avatar != "" {
		updated.Avatar = input.Avatar
	} else if input.Name != "" {
		updated.Avatar = defaultAvatar("", input.Name)
	}
	if input.Color != "" {
		updated.Color = input.Color
	}
	if input.PIN != "" && input.PIN != updated.PIN {
		if s.pinTakenLocked(input.PIN, id) {
			return nil, errors.ErrPINTaken
		}
		updated.PIN = input.PIN
	}

	if err := s.gw.Profiles().Update(ctx, &updated); err != nil {
		// Silent degrade: apply the mutation to the local roster instead.
		log.Printf("profiles: remote update failed, keeping local copy: %v", err)
	}
	s.roster[idx] = updated
	s.mirrorRoster(ctx, s.roster)

	if s.current != nil && s.current.ProfileID == id {
		s.current.Name = updated.Name
		s.current.Avatar = updated.Avatar
		s.current.Color = updated.Color
		_ = s.sessions.Save(ctx, s.current)
	}
	return &updated, nil
}

func (s *profileService) DeleteProfile(ctx context.Context, id int64, pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.roster) <= 1 {
		return errors.ErrLastProfile
	}
	idx := s.matchLocked(id, pin)
	if idx < 0 {
		return errors.ErrInvalidCredentials
	}

	// Cascade: the profile's jobs go first so no orphans survive a partial
	// failure. When the remote is down the cached job list is purged instead.
	if err := s.gw.Jobs().DeleteByOwner(ctx, id); err != nil {
		log.Printf("profiles: remote job cascade failed, purging cached jobs: %v", err)
	}
	if err := s.gw.Profiles().Delete(ctx, id); err != nil {
		log.Printf("profiles: remote delete failed, removing local copy: %v", err)
	}
	_ = s.cache.Delete(ctx, cache.JobsKey(id))

	s.roster = append(s.roster[:idx], s.roster[idx+1:]...)
	s.mirrorRoster(ctx, s.roster)

	if s.current != nil && s.current.ProfileID == id {
		s.current = nil
		_ = s.sessions.Clear(ctx)
	}
	return nil
}

// matchLocked returns the roster index of the profile with the given id and
// PIN, or -1. Callers must hold the mutex.
func (s *profileService) matchLocked(id int64, pin string) int {
	for i, p := range s.roster {
		if p.ID == id && p.PIN == pin {
			return i
		}
	}
	return -1
}

// pinTakenLocked reports whether any profile other than exceptID uses pin.
func (s *profileService) pinTakenLocked(pin string, exceptID int64) bool {
	for _, p := range s.roster {
		if p.PIN == pin && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *profileService) setRoster(profiles []model.Profile) {
	s.mu.Lock()
	s.roster = profiles
	s.mu.Unlock()
}

func (s *profileService) mirrorRoster(ctx context.Context, profiles []model.Profile) {
	payload, err := json.Marshal(profiles)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, cache.KeyProfiles, payload, 0)
}

func (s *profileService) cachedRoster(ctx context.Context) []model.Profile {
	data, err := s.cache.Get(ctx, cache.KeyProfiles)
	if err != nil || data == nil {
		return nil
	}
	var profiles []model.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil
	}
	return profiles
}

func maxProfileID(profiles []model.Profile) int64 {
	var max int64
	for _, p := range profiles {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

func defaultAvatar(avatar, name string) string {
	if avatar != "" {
		return avatar
	}
	initials := []rune(strings.TrimSpace(name))
	if len(initials) > 2 {
		initials = initials[:2]
	}
	return strings.ToUpper(string(initials))
}

func defaultColor(color string) string {
	if color != "" {
		return color
	}
	return "#4F46E5"
}
