// Package apitest runs an in-process double of the ChallengeMe backend for
// tests. It implements the consumed REST surface with just enough semantics
// to exercise the client: participation lifecycle, reward side effects,
// badge awards on completion, and the notification feed.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/challengeme/client/internal/models"
)

// Server is the fake backend. Seed state through the exported methods, then
// point an api.Client at URL(). All handlers share one lock, so tests may
// mutate state while the client is running.
type Server struct {
	mu sync.Mutex

	user           models.UserProfile // the authenticated user
	challenges     map[string]models.Challenge
	participations map[string]*models.Participation
	badges         []models.Badge
	userBadges     map[string][]models.Badge        // by username
	feed           map[string][]models.Notification // by user id
	rawFeed        map[string][]byte                // raw JSON override, by user id
	friends        []models.Friend

	// awardOnComplete maps challenge id -> badge granted when the
	// authenticated user completes that challenge.
	awardOnComplete map[string]models.Badge

	failGets     int  // fail the next N GETs with 500
	failMarkRead bool // fail PATCH /notifications/{id} with 500

	httpSrv *httptest.Server
}

// NewServer starts a fake backend for the given user.
func NewServer(user models.UserProfile) *Server {
	s := &Server{
		user:            user,
		challenges:      make(map[string]models.Challenge),
		participations:  make(map[string]*models.Participation),
		userBadges:      make(map[string][]models.Badge),
		feed:            make(map[string][]models.Notification),
		rawFeed:         make(map[string][]byte),
		awardOnComplete: make(map[string]models.Badge),
	}

	r := mux.NewRouter()

	r.HandleFunc("/challenges/{id}/status", s.updateParticipationStatus).Methods(http.MethodPut)
	r.HandleFunc("/challenges/user/{username}", s.listUserChallenges).Methods(http.MethodGet)
	r.HandleFunc("/challenges", s.listChallenges).Methods(http.MethodGet)
	r.HandleFunc("/challenges", s.createChallenge).Methods(http.MethodPost)
	r.HandleFunc("/challenges/{id}", s.updateChallenge).Methods(http.MethodPut)
	r.HandleFunc("/challenges/{id}", s.deleteChallenge).Methods(http.MethodDelete)

	r.HandleFunc("/challenge-users/user/{userId}/status/{status}", s.listParticipationsByStatus).Methods(http.MethodGet)
	r.HandleFunc("/challenge-users/user/{userId}", s.listParticipations).Methods(http.MethodGet)
	r.HandleFunc("/challenge-users/assign", s.assignChallenge).Methods(http.MethodPost)
	r.HandleFunc("/challenge-users/{challengeId}/accept", s.acceptChallenge).Methods(http.MethodPost)
	r.HandleFunc("/challenge-users/{id}", s.deleteParticipation).Methods(http.MethodDelete)

	r.HandleFunc("/badges/user/{username}", s.listUserBadges).Methods(http.MethodGet)
	r.HandleFunc("/badges", s.listBadges).Methods(http.MethodGet)

	r.HandleFunc("/notifications/user/{userId}/mark-all-read", s.markAllRead).Methods(http.MethodPost)
	r.HandleFunc("/notifications/user/{userId}", s.listNotifications).Methods(http.MethodGet)
	r.HandleFunc("/notifications/{id}", s.markRead).Methods(http.MethodPatch)

	r.HandleFunc("/users/profile", s.getProfile).Methods(http.MethodGet)
	r.HandleFunc("/users/{userId}/friends", s.listFriends).Methods(http.MethodGet)

	s.httpSrv = httptest.NewServer(s.gate(r))
	return s
}

// URL returns the base URL to configure the client with.
func (s *Server) URL() string { return s.httpSrv.URL }

// Close shuts the fake backend down.
func (s *Server) Close() { s.httpSrv.Close() }

// ── Seeding and knobs ───────────────────────────────────

// SeedChallenge adds a catalog entry.
func (s *Server) SeedChallenge(c models.Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.ID] = c
}

// SeedParticipation adds a participation link.
func (s *Server) SeedParticipation(p models.Participation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.participations[p.ID] = &cp
}

// SeedBadge adds a catalog badge, optionally pre-awarded to usernames.
func (s *Server) SeedBadge(b models.Badge, awardedTo ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badges = append(s.badges, b)
	for _, username := range awardedTo {
		s.userBadges[username] = append(s.userBadges[username], b)
	}
}

// AwardOnCompletion makes completing challengeID grant badge to the user.
func (s *Server) AwardOnCompletion(challengeID string, badge models.Badge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awardOnComplete[challengeID] = badge
}

// SeedFeed replaces a user's notification feed.
func (s *Server) SeedFeed(userID string, feed []models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed[userID] = feed
	delete(s.rawFeed, userID)
}

// SeedRawFeed serves raw JSON for a user's feed, for exercising wire-shape
// handling (tuple timestamps) end to end.
func (s *Server) SeedRawFeed(userID string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawFeed[userID] = raw
}

// SeedFriends replaces the friends list.
func (s *Server) SeedFriends(friends []models.Friend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends = friends
}

// FailNextGets makes the next n GET requests return 500.
func (s *Server) FailNextGets(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGets = n
}

// FailMarkRead toggles a 500 on single mark-read calls.
func (s *Server) FailMarkRead(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMarkRead = fail
}

// Profile returns the backend's current (authoritative) profile.
func (s *Server) Profile() models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Participation returns the backend's copy of a link.
func (s *Server) Participation(id string) (models.Participation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.participations[id]; ok {
		return *p, true
	}
	return models.Participation{}, false
}

// ── Middleware ──────────────────────────────────────────

func (s *Server) gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeJSON(w, http.StatusUnauthorized, errBody("missing bearer token"))
			return
		}
		if r.Method == http.MethodGet {
			s.mu.Lock()
			fail := s.failGets > 0
			if fail {
				s.failGets--
			}
			s.mu.Unlock()
			if fail {
				writeJSON(w, http.StatusInternalServerError, errBody("transient failure"))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ── Challenge handlers ──────────────────────────────────

func (s *Server) listChallenges(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]models.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		out = append(out, c)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listUserChallenges(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	s.mu.Lock()
	out := []models.Challenge{}
	for _, c := range s.challenges {
		if c.CreatedBy == username {
			out = append(out, c)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createChallenge(w http.ResponseWriter, r *http.Request) {
	var draft models.ChallengeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid body"))
		return
	}
	c := models.Challenge{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Difficulty:  draft.Difficulty,
		Points:      draft.Points,
		CreatedBy:   draft.CreatedBy,
	}
	s.mu.Lock()
	s.challenges[c.ID] = c
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) updateChallenge(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var draft models.ChallengeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid body"))
		return
	}
	s.mu.Lock()
	c, ok := s.challenges[id]
	if ok {
		c.Title, c.Description, c.Category = draft.Title, draft.Description, draft.Category
		c.Difficulty, c.Points = draft.Difficulty, draft.Points
		s.challenges[id] = c
	}
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("challenge not found"))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteChallenge(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	_, ok := s.challenges[id]
	delete(s.challenges, id)
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("challenge not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Participation handlers ──────────────────────────────

func (s *Server) listParticipations(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	s.mu.Lock()
	out := []models.Participation{}
	for _, p := range s.participations {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listParticipationsByStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.mu.Lock()
	out := []models.Participation{}
	for _, p := range s.participations {
		if p.UserID == vars["userId"] && string(p.Status) == vars["status"] {
			out = append(out, *p)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) acceptChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID := mux.Vars(r)["challengeId"]
	var req models.AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid body"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.challenges[challengeID]
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("challenge not found"))
		return
	}

	now := models.NewFlexTime(time.Now().UTC())
	for _, p := range s.participations {
		if p.UserID != s.user.ID || p.ChallengeID != challengeID {
			continue
		}
		if p.Status == models.StatusPending {
			// Promote the pending invitation instead of duplicating.
			p.Status = models.StatusAccepted
			p.StartDate = models.NewFlexTime(req.StartDate.Time)
			p.Deadline = req.TargetDeadline
			p.DateAccepted = now
			writeJSON(w, http.StatusOK, *p)
			return
		}
		writeJSON(w, http.StatusConflict, errBody("You already have this challenge in your list or inbox."))
		return
	}

	p := models.Participation{
		ID:                 uuid.NewString(),
		UserID:             s.user.ID,
		Username:           s.user.Username,
		ChallengeID:        challenge.ID,
		ChallengeTitle:     challenge.Title,
		Description:        challenge.Description,
		Points:             challenge.Points,
		Category:           challenge.Category,
		Difficulty:         string(challenge.Difficulty),
		ChallengeCreatedBy: challenge.CreatedBy,
		Status:             models.StatusAccepted,
		StartDate:          models.NewFlexTime(req.StartDate.Time),
		Deadline:           req.TargetDeadline,
		DateAccepted:       now,
	}
	s.participations[p.ID] = &p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateParticipationStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req models.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid body"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participations[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("participation not found"))
		return
	}

	old := p.Status
	p.Status = req.Status
	now := models.NewFlexTime(time.Now().UTC())

	switch {
	case req.Status == models.StatusCompleted && old != models.StatusCompleted:
		p.DateCompleted = now
		p.TimesCompleted++
		if p.UserID == s.user.ID {
			s.user.Points += p.Points
			s.user.TotalCompletedChallenges++
			if badge, ok := s.awardOnComplete[p.ChallengeID]; ok {
				s.awardBadgeLocked(p.Username, badge)
			}
		}
	case req.Status == models.StatusAccepted && old == models.StatusCompleted:
		p.StartDate = now
		p.DateCompleted = models.FlexTime{}
	}

	writeJSON(w, http.StatusOK, *p)
}

func (s *Server) deleteParticipation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	_, ok := s.participations[id]
	delete(s.participations, id)
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("participation not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) assignChallenge(w http.ResponseWriter, r *http.Request) {
	var req models.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid body"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.challenges[req.ChallengeID]
	if !ok {
		writeJSON(w, http.StatusNotFound, errBody("challenge not found"))
		return
	}
	for _, p := range s.participations {
		if p.UserID == req.UserID && p.ChallengeID == req.ChallengeID && p.Status != models.StatusCompleted {
			writeJSON(w, http.StatusConflict, errBody("You have already sent this challenge to this friend."))
			return
		}
	}

	p := models.Participation{
		ID:                 uuid.NewString(),
		UserID:             req.UserID,
		ChallengeID:        challenge.ID,
		ChallengeTitle:     challenge.Title,
		Points:             challenge.Points,
		Category:           challenge.Category,
		Difficulty:         string(challenge.Difficulty),
		ChallengeCreatedBy: challenge.CreatedBy,
		AssignedByUsername: s.user.Username,
		Status:             models.StatusPending,
	}
	s.participations[p.ID] = &p
	writeJSON(w, http.StatusCreated, p)
}

// ── Badge handlers ──────────────────────────────────────

func (s *Server) listBadges(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]models.Badge{}, s.badges...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listUserBadges(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	s.mu.Lock()
	out := append([]models.Badge{}, s.userBadges[username]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) awardBadgeLocked(username string, badge models.Badge) {
	for _, b := range s.userBadges[username] {
		if b.ID == badge.ID {
			return // awards are once per (user, badge)
		}
	}
	s.userBadges[username] = append(s.userBadges[username], badge)
}

// ── Notification handlers ───────────────────────────────

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	s.mu.Lock()
	raw, hasRaw := s.rawFeed[userID]
	out := append([]models.Notification{}, s.feed[userID]...)
	s.mu.Unlock()

	if hasRaw {
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failMarkRead {
		writeJSON(w, http.StatusInternalServerError, errBody("transient failure"))
		return
	}
	for userID, list := range s.feed {
		for i := range list {
			if list[i].ID == id {
				list[i].IsRead = true
				s.feed[userID] = list
				writeJSON(w, http.StatusOK, list[i])
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, errBody("notification not found"))
}

func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	s.mu.Lock()
	list := s.feed[userID]
	for i := range list {
		list[i].IsRead = true
	}
	s.feed[userID] = list
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// ── User handlers ───────────────────────────────────────

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := s.user
	p.Badges = append([]models.Badge{}, s.userBadges[p.Username]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) listFriends(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]models.Friend{}, s.friends...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

// ── Helpers ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
