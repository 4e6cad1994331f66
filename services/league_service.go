package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/Dosada05/league-tracker/models"
	"github.com/Dosada05/league-tracker/storage"
)

// Event types published after a successful mutation.
const (
	EventLeagueCreated        = "league_created"
	EventLeagueLoaded         = "league_loaded"
	EventLeagueSaved          = "league_saved"
	EventLeagueClosed         = "league_closed"
	EventTeamAdded            = "team_added"
	EventPlayerAdded          = "player_added"
	EventMatchCreated         = "match_created"
	EventMatchScored          = "match_scored"
	EventPlayerResultRecorded = "player_result_recorded"
	EventRoundAdvanced        = "round_advanced"
)

// Notifier receives league events. Rooms are league record keys.
type Notifier interface {
	Publish(room, eventType string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, string, interface{}) {}

// LeagueEvent is the payload sent with every event.
type LeagueEvent struct {
	League    LeagueSummary  `json:"league"`
	Data      interface{}    `json:"data,omitempty"`
	Standings []StandingView `json:"standings"`
}

type CreateTeamInput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreatePlayerInput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Age      *int   `json:"age"`
}

type LeagueService interface {
	CreateLeague(ctx context.Context, name string) (*LeagueSummary, error)
	ListLeagues(ctx context.Context) (*LeagueListing, error)
	GetLeague(ctx context.Context, league string) (*LeagueSummary, error)
	CloseLeague(ctx context.Context, league string) error

	AddTeam(ctx context.Context, league string, input CreateTeamInput) (*TeamView, error)
	ListTeams(ctx context.Context, league string) ([]TeamView, error)
	GetTeam(ctx context.Context, league, teamID string) (*TeamView, error)
	FindTeamByName(ctx context.Context, league, name string) (*TeamView, error)

	AddPlayer(ctx context.Context, league, teamID string, input CreatePlayerInput) (*PlayerView, error)
	ListPlayers(ctx context.Context, league string) ([]PlayerView, error)
	GetPlayer(ctx context.Context, league, playerID string) (*PlayerView, error)

	CreateMatch(ctx context.Context, league, homeTeamID, awayTeamID string) (*MatchView, error)
	ListMatches(ctx context.Context, league string, filter MatchFilter) ([]MatchView, error)
	RecordScore(ctx context.Context, league, matchID string, homeScore, awayScore int) (*MatchView, error)
	RecordOutcome(ctx context.Context, league, matchID string, home, away models.Outcome) (*MatchView, error)
	RecordPlayerResult(ctx context.Context, league, matchID, playerID string, outcome models.Outcome) (*MatchView, error)
	AdvanceRound(ctx context.Context, league string) (*LeagueSummary, error)

	Standings(ctx context.Context, league string) ([]StandingView, error)
	PlayerRankings(ctx context.Context, league string) ([]RankingView, error)

	SaveLeague(ctx context.Context, league string) error
	SaveAll(ctx context.Context) error
	LoadLeague(ctx context.Context, name string) (*LeagueSummary, error)
	ListSaved(ctx context.Context) ([]string, error)
}

// leagueService keeps the open leagues in memory. One mutex serializes every
// operation, so each mutation is applied as a whole or not at all.
type leagueService struct {
	mu       sync.Mutex
	leagues  map[string]*models.League
	store    storage.LeagueStore
	notifier Notifier
	logger   *slog.Logger
}

func NewLeagueService(store storage.LeagueStore, notifier Notifier, logger *slog.Logger) LeagueService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &leagueService{
		leagues:  make(map[string]*models.League),
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// openLeague must be called with s.mu held.
func (s *leagueService) openLeague(name string) (*models.League, error) {
	l, ok := s.leagues[storage.RecordKey(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not open", ErrLeagueNotFound, name)
	}
	return l, nil
}

// publish must be called with s.mu held so the standings match the event.
func (s *leagueService) publish(l *models.League, eventType string, data interface{}) {
	s.notifier.Publish(storage.RecordKey(l.Name), eventType, LeagueEvent{
		League:    toLeagueSummary(l),
		Data:      data,
		Standings: toStandingViews(l.Standings()),
	})
}

func (s *leagueService) CreateLeague(ctx context.Context, name string) (*LeagueSummary, error) {
	name = strings.TrimSpace(name)
	if err := storage.ValidateLeagueName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := storage.RecordKey(name)
	if _, ok := s.leagues[key]; ok {
		return nil, fmt.Errorf("%w: %q", ErrLeagueConflict, name)
	}
	l := models.NewLeague(name)
	s.leagues[key] = l

	s.logger.InfoContext(ctx, "league created", slog.String("league", key))
	s.publish(l, EventLeagueCreated, nil)
	summary := toLeagueSummary(l)
	return &summary, nil
}

func (s *leagueService) ListLeagues(ctx context.Context) (*LeagueListing, error) {
	s.mu.Lock()
	listing := &LeagueListing{Open: make([]LeagueSummary, 0, len(s.leagues))}
	for _, l := range s.leagues {
		listing.Open = append(listing.Open, toLeagueSummary(l))
	}
	s.mu.Unlock()

	sort.Slice(listing.Open, func(i, j int) bool {
		return listing.Open[i].Key < listing.Open[j].Key
	})

	saved, err := s.ListSaved(ctx)
	if err != nil {
		return nil, err
	}
	listing.Saved = saved
	return listing, nil
}

func (s *leagueService) GetLeague(ctx context.Context, league string) (*LeagueSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	summary := toLeagueSummary(l)
	return &summary, nil
}

// CloseLeague drops the working copy without saving it.
func (s *leagueService) CloseLeague(ctx context.Context, league string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return err
	}
	delete(s.leagues, storage.RecordKey(l.Name))

	s.logger.InfoContext(ctx, "league closed", slog.String("league", l.Name))
	s.publish(l, EventLeagueClosed, nil)
	return nil
}

func (s *leagueService) AddTeam(ctx context.Context, league string, input CreateTeamInput) (*TeamView, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}

	teamTaken := func(candidate string) bool {
		_, ok := l.Team(candidate)
		return ok
	}
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = deriveID(name, "team", len(l.Teams)+1, teamTaken)
	} else if teamTaken(id) {
		return nil, fmt.Errorf("%w: %q", ErrTeamConflict, id)
	}

	team := models.NewTeam(id, name)
	l.AddTeam(team)

	s.logger.InfoContext(ctx, "team added", slog.String("league", l.Name), slog.String("team_id", id))
	view := toTeamView(team)
	s.publish(l, EventTeamAdded, view)
	return &view, nil
}

func (s *leagueService) ListTeams(ctx context.Context, league string) ([]TeamView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	views := make([]TeamView, 0, len(l.Teams))
	for _, t := range l.SortedTeams() {
		views = append(views, toTeamView(t))
	}
	return views, nil
}

func (s *leagueService) GetTeam(ctx context.Context, league, teamID string) (*TeamView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	t, ok := l.Team(teamID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTeamNotFound, teamID)
	}
	view := toTeamView(t)
	return &view, nil
}

func (s *leagueService) FindTeamByName(ctx context.Context, league, name string) (*TeamView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	t, ok := l.TeamByName(strings.TrimSpace(name))
	if !ok {
		return nil, fmt.Errorf("%w: no team named %q", ErrTeamNotFound, name)
	}
	view := toTeamView(t)
	return &view, nil
}

func (s *leagueService) AddPlayer(ctx context.Context, league, teamID string, input CreatePlayerInput) (*PlayerView, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}
	if input.Age != nil && *input.Age < 0 {
		return nil, fmt.Errorf("%w: age must not be negative, got %d", ErrValidationFailed, *input.Age)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	team, ok := l.Team(teamID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTeamNotFound, teamID)
	}

	playerTaken := func(candidate string) bool {
		_, _, ok := l.FindPlayer(candidate)
		return ok
	}
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = deriveID(name, "player", len(team.Players)+1, playerTaken)
	} else if playerTaken(id) {
		return nil, fmt.Errorf("%w: %q", ErrPlayerConflict, id)
	}

	player := models.NewPlayer(id, name)
	player.Position = strings.TrimSpace(input.Position)
	if input.Age != nil {
		age := *input.Age
		player.Age = &age
	}
	team.AddPlayer(player)

	s.logger.InfoContext(ctx, "player added",
		slog.String("league", l.Name), slog.String("team_id", team.ID), slog.String("player_id", id))
	view := toPlayerView(player, team)
	s.publish(l, EventPlayerAdded, view)
	return &view, nil
}

func (s *leagueService) ListPlayers(ctx context.Context, league string) ([]PlayerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	views := make([]PlayerView, 0, l.PlayerCount())
	for _, t := range l.SortedTeams() {
		for _, p := range t.SortedPlayers() {
			views = append(views, toPlayerView(p, t))
		}
	}
	return views, nil
}

func (s *leagueService) GetPlayer(ctx context.Context, league, playerID string) (*PlayerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	p, team, ok := l.FindPlayer(playerID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, playerID)
	}
	view := toPlayerView(p, team)
	return &view, nil
}

func (s *leagueService) CreateMatch(ctx context.Context, league, homeTeamID, awayTeamID string) (*MatchView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	m, err := l.CreateMatch(homeTeamID, awayTeamID)
	if err != nil {
		return nil, classifyModelError(err)
	}

	s.logger.InfoContext(ctx, "match created",
		slog.String("league", l.Name), slog.String("match_id", m.ID), slog.Int("round", m.Round))
	view := toMatchView(m)
	s.publish(l, EventMatchCreated, view)
	return &view, nil
}

func (s *leagueService) ListMatches(ctx context.Context, league string, filter MatchFilter) ([]MatchView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	views := make([]MatchView, 0, len(l.Matches))
	for _, m := range l.Matches {
		if filter.matches(m) {
			views = append(views, toMatchView(m))
		}
	}
	return views, nil
}

// findMatch must be called with s.mu held.
func (s *leagueService) findMatch(league, matchID string) (*models.League, *models.Match, error) {
	l, err := s.openLeague(league)
	if err != nil {
		return nil, nil, err
	}
	m, ok := l.Match(matchID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrMatchNotFound, matchID)
	}
	return l, m, nil
}

func (s *leagueService) RecordScore(ctx context.Context, league, matchID string, homeScore, awayScore int) (*MatchView, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, fmt.Errorf("%w: scores must not be negative, got %d-%d", ErrValidationFailed, homeScore, awayScore)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, m, err := s.findMatch(league, matchID)
	if err != nil {
		return nil, err
	}
	if err := m.SetScore(homeScore, awayScore); err != nil {
		return nil, classifyModelError(err)
	}

	s.logger.InfoContext(ctx, "match scored",
		slog.String("league", l.Name), slog.String("match_id", m.ID),
		slog.Int("home_score", homeScore), slog.Int("away_score", awayScore))
	view := toMatchView(m)
	s.publish(l, EventMatchScored, view)
	return &view, nil
}

func (s *leagueService) RecordOutcome(ctx context.Context, league, matchID string, home, away models.Outcome) (*MatchView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, m, err := s.findMatch(league, matchID)
	if err != nil {
		return nil, err
	}
	if err := m.SetScoreByOutcome(home, away); err != nil {
		return nil, classifyModelError(err)
	}

	s.logger.InfoContext(ctx, "match outcome recorded",
		slog.String("league", l.Name), slog.String("match_id", m.ID),
		slog.String("home", home.String()), slog.String("away", away.String()))
	view := toMatchView(m)
	s.publish(l, EventMatchScored, view)
	return &view, nil
}

func (s *leagueService) RecordPlayerResult(ctx context.Context, league, matchID, playerID string, outcome models.Outcome) (*MatchView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, m, err := s.findMatch(league, matchID)
	if err != nil {
		return nil, err
	}
	if _, _, ok := l.FindPlayer(playerID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, playerID)
	}
	if err := m.AddPlayerResult(playerID, outcome); err != nil {
		return nil, classifyModelError(err)
	}

	s.logger.InfoContext(ctx, "player result recorded",
		slog.String("league", l.Name), slog.String("match_id", m.ID),
		slog.String("player_id", playerID), slog.String("outcome", outcome.String()))
	view := toMatchView(m)
	s.publish(l, EventPlayerResultRecorded, view)
	return &view, nil
}

// AdvanceRound refuses while the current round has unfinished matches and
// lists them in the error.
func (s *leagueService) AdvanceRound(ctx context.Context, league string) (*LeagueSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	pending := l.UnfinishedMatches(l.CurrentRound)
	if err := l.AdvanceRound(); err != nil {
		fixtures := make([]string, 0, len(pending))
		for _, m := range pending {
			fixtures = append(fixtures, m.String())
		}
		return nil, fmt.Errorf("%w: %s", classifyModelError(err), strings.Join(fixtures, "; "))
	}

	s.logger.InfoContext(ctx, "round advanced", slog.String("league", l.Name), slog.Int("round", l.CurrentRound))
	s.publish(l, EventRoundAdvanced, nil)
	summary := toLeagueSummary(l)
	return &summary, nil
}

func (s *leagueService) Standings(ctx context.Context, league string) ([]StandingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	return toStandingViews(l.Standings()), nil
}

func (s *leagueService) PlayerRankings(ctx context.Context, league string) ([]RankingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return nil, err
	}
	return toRankingViews(l.PlayerRankings()), nil
}

// SaveLeague holds the lock for the whole write so the snapshot is consistent.
func (s *leagueService) SaveLeague(ctx context.Context, league string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.openLeague(league)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, l); err != nil {
		s.logger.ErrorContext(ctx, "failed to save league", slog.String("league", l.Name), slog.Any("error", err))
		return classifyStorageError("save "+l.Name, err)
	}

	s.logger.InfoContext(ctx, "league saved", slog.String("league", l.Name))
	s.publish(l, EventLeagueSaved, nil)
	return nil
}

// SaveAll saves every open league and reports all failures together.
func (s *leagueService) SaveAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.leagues))
	for key := range s.leagues {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		l := s.leagues[key]
		if err := s.store.Save(ctx, l); err != nil {
			s.logger.ErrorContext(ctx, "failed to save league", slog.String("league", l.Name), slog.Any("error", err))
			errs = append(errs, classifyStorageError("save "+l.Name, err))
			continue
		}
		s.logger.InfoContext(ctx, "league saved", slog.String("league", l.Name))
	}
	return errors.Join(errs...)
}

// LoadLeague reads a stored league and replaces the working copy with the
// same key. The working copy is untouched when loading fails.
func (s *leagueService) LoadLeague(ctx context.Context, name string) (*LeagueSummary, error) {
	loaded, err := s.store.Load(ctx, strings.TrimSpace(name))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load league", slog.String("league", name), slog.Any("error", err))
		return nil, classifyStorageError("load "+name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := storage.RecordKey(loaded.Name)
	_, replaced := s.leagues[key]
	s.leagues[key] = loaded

	s.logger.InfoContext(ctx, "league loaded",
		slog.String("league", key), slog.Bool("replaced", replaced),
		slog.Int("teams", len(loaded.Teams)), slog.Int("matches", len(loaded.Matches)))
	s.publish(loaded, EventLeagueLoaded, nil)
	summary := toLeagueSummary(loaded)
	return &summary, nil
}

func (s *leagueService) ListSaved(ctx context.Context) ([]string, error) {
	keys, err := s.store.List(ctx)
	if err != nil {
		return nil, classifyStorageError("list", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

func classifyModelError(err error) error {
	switch {
	case errors.Is(err, models.ErrTeamNotFound):
		return fmt.Errorf("%w: %w", ErrTeamNotFound, err)
	case errors.Is(err, models.ErrSameTeam),
		errors.Is(err, models.ErrPlayerNotInMatch),
		errors.Is(err, models.ErrInvalidOutcome),
		errors.Is(err, models.ErrInconsistentOutcomes):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	case errors.Is(err, models.ErrMatchFinished),
		errors.Is(err, models.ErrMatchNotFinished),
		errors.Is(err, models.ErrPlayerResultRecorded),
		errors.Is(err, models.ErrRoundIncomplete):
		return fmt.Errorf("%w: %w", ErrStateConflict, err)
	}
	return err
}

func classifyStorageError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrLeagueNotFound):
		return fmt.Errorf("%w: %w", ErrLeagueNotFound, err)
	case errors.Is(err, storage.ErrInvalidName):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStorageFailed, op, err)
}
