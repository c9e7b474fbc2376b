package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jaminalder/duell/internal/domain"
	"github.com/jaminalder/duell/internal/storage"
)

// Errors exposed by the service layer.
var (
	ErrNotFound        = errors.New("game not found")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrNotAPlayer      = errors.New("not a player")
	ErrRoundInProgress = errors.New("round still in progress")
	ErrNoStore         = errors.New("saving is disabled")
	ErrSaveNotFound    = errors.New("no saved game")
)

const (
	// historySize bounds GameState.History.
	historySize = 12
	// maxAutoTurns bounds the turns advance plays without the human.
	maxAutoTurns = 8
	// recentSaves is the length of Saves when no limit is given.
	recentSaves = 20
)

// SaveStore persists games in the save file layout.
type SaveStore interface {
	PutSave(ctx context.Context, save storage.SavedGame) error
	GetSave(ctx context.Context, gameID string) (storage.SavedGame, error)
	ListSaves(ctx context.Context, limit int) ([]storage.SavedGame, error)
}

// GameState is the in-memory state tracked per game. The human seat is
// held by the first visitor; everyone else watches.
type GameState struct {
	ID        string
	Game      domain.Game
	Player    string
	Toss      domain.Toss
	Narration string   // explanation of the last computer move
	Advice    string   // set only on the copy Recommend returns
	History   []string // one line per move, oldest first
	Created   time.Time
	Updated   time.Time
}

func (gs *GameState) snapshot() GameState {
	cp := *gs
	cp.History = slices.Clone(gs.History)
	return cp
}

func (gs *GameState) note(line string) {
	gs.History = append(gs.History, line)
	if n := len(gs.History); n > historySize {
		gs.History = gs.History[n-historySize:]
	}
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers.
type Service struct {
	mu     sync.Mutex
	games  map[string]*GameState
	subs   map[string]map[*subscriber]struct{}
	render func(GameState) []byte
	store  SaveStore
	seed   int64
}

// NewService creates a service with a renderer that broadcasts nothing.
func NewService() *Service { return NewServiceWithRenderer(nil) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
	s := &Service{
		games: make(map[string]*GameState),
		subs:  make(map[string]map[*subscriber]struct{}),
	}
	s.SetRenderer(renderer)
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		renderer = func(GameState) []byte { return nil }
	}
	s.render = renderer
}

// SetStore enables saving and resuming. A nil store disables both.
func (s *Service) SetStore(store SaveStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
}

// SetSeed fixes the random seed of every game created afterwards.
// Zero restores a fresh seed per game.
func (s *Service) SetSeed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed = seed
}

// CreateGame creates and registers a new game and starts its first round.
// When the computer wins the toss it has already moved.
func (s *Service) CreateGame() (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rng, err := newRand(s.seed)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	gs := &GameState{ID: newGameID(), Game: domain.New(rng), Created: now, Updated: now}
	startRound(gs)
	s.games[gs.ID] = gs
	cp := gs.snapshot()
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := gs.snapshot()
	return &cp, true
}

// Join seats the player as the human if the seat is free and returns the
// side they control. Spectators get domain.Unowned.
func (s *Service) Join(id, playerID string) (domain.Side, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return domain.Unowned, nil, ErrNotFound
	}
	side := domain.Unowned
	if gs.Player == "" || gs.Player == playerID {
		gs.Player = playerID
		side = domain.Human
	}
	gs.Updated = time.Now()
	cp := gs.snapshot()
	return side, &cp, nil
}

// Play validates the seat and turn, applies the human move and lets the
// computer reply. Everyone watching the game is sent the new state.
func (s *Service) Play(id, playerID string, m domain.Move) (*GameState, error) {
	return s.update(id, playerID, func(gs *GameState) error {
		if gs.Game.Turn != domain.Human && !gs.Game.Over {
			return ErrNotYourTurn
		}
		rec, err := gs.Game.ApplyHumanMove(m)
		if err != nil {
			return err
		}
		gs.note(domain.Describe(rec))
		advance(gs)
		return nil
	})
}

// Recommend asks the computer which move it would make for the human.
// The advice is for the seated player alone: it is returned on the copy
// and never stored or broadcast.
func (s *Service) Recommend(id, playerID string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, err := s.seatedLocked(id, playerID)
	if err != nil {
		return nil, err
	}
	if gs.Game.Turn != domain.Human && !gs.Game.Over {
		return nil, ErrNotYourTurn
	}
	rec, err := gs.Game.RecommendMove(domain.Human)
	if err != nil {
		return nil, err
	}
	cp := gs.snapshot()
	cp.Advice = domain.Advise(rec)
	return &cp, nil
}

// NewRound starts the next round of the tournament once the current one
// is decided. Win counts carry over.
func (s *Service) NewRound(id, playerID string) (*GameState, error) {
	return s.update(id, playerID, func(gs *GameState) error {
		if !gs.Game.Over {
			return ErrRoundInProgress
		}
		startRound(gs)
		return nil
	})
}

// Export returns the game in the save file layout.
func (s *Service) Export(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return "", ErrNotFound
	}
	return encode(&gs.Game)
}

// Save writes the game to the configured store.
func (s *Service) Save(ctx context.Context, id, playerID string) error {
	s.mu.Lock()
	store := s.store
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if gs.Player != playerID {
		s.mu.Unlock()
		return ErrNotAPlayer
	}
	text, err := encode(&gs.Game)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if store == nil {
		return ErrNoStore
	}
	return store.PutSave(ctx, storage.SavedGame{GameID: id, Text: text, SavedAt: time.Now()})
}

// Resume replaces the game with its last save. The game is left as it was
// when the save cannot be read.
func (s *Service) Resume(ctx context.Context, id, playerID string) (*GameState, error) {
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()
	if store == nil {
		return nil, ErrNoStore
	}
	saved, err := store.GetSave(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.update(id, playerID, func(gs *GameState) error {
		if err := gs.Game.Resume(strings.NewReader(saved.Text)); err != nil {
			return fmt.Errorf("resume %s: %w", id, err)
		}
		gs.Narration = ""
		gs.History = nil
		gs.note(fmt.Sprintf("Resumed from the save of %s.", saved.SavedAt.Format(time.DateTime)))
		advance(gs)
		return nil
	})
}

// Import starts a new game from save file text with playerID in the human
// seat. Nothing is registered when the text does not parse.
func (s *Service) Import(playerID, text string) (*GameState, error) {
	if playerID == "" {
		return nil, ErrNotAPlayer
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rng, err := newRand(s.seed)
	if err != nil {
		return nil, err
	}
	g := domain.New(rng)
	if err := g.Resume(strings.NewReader(text)); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	now := time.Now()
	gs := &GameState{ID: newGameID(), Game: g, Player: playerID, Created: now, Updated: now}
	gs.note(fmt.Sprintf("Imported a saved game. %s moves next.", g.Turn.Name()))
	advance(gs)
	s.games[gs.ID] = gs
	cp := gs.snapshot()
	return &cp, nil
}

// Load starts a new game from the stored save of saveID. The game that
// wrote the save does not need to be running.
func (s *Service) Load(ctx context.Context, saveID, playerID string) (*GameState, error) {
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()
	if store == nil {
		return nil, ErrNoStore
	}
	saved, err := store.GetSave(ctx, saveID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.Import(playerID, saved.Text)
}

// Saves lists the most recent saves, newest first. A limit of zero or less
// means the default.
func (s *Service) Saves(ctx context.Context, limit int) ([]storage.SavedGame, error) {
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()
	if store == nil {
		return nil, ErrNoStore
	}
	if limit <= 0 {
		limit = recentSaves
	}
	return store.ListSaves(ctx, limit)
}

// update runs fn on the seated player's game under the lock and then
// broadcasts the new state.
func (s *Service) update(id, playerID string, fn func(*GameState) error) (*GameState, error) {
	s.mu.Lock()
	gs, err := s.seatedLocked(id, playerID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := fn(gs); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	gs.Updated = time.Now()

	cp := gs.snapshot()
	subs := s.copySubsLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	s.broadcast(id, subs, payload)
	return &cp, nil
}

func (s *Service) seatedLocked(id, playerID string) (*GameState, error) {
	gs, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	if gs.Player == "" || gs.Player != playerID {
		return nil, ErrNotAPlayer
	}
	return gs, nil
}

// broadcast fans payload out, dropping subscribers that are not keeping up.
func (s *Service) broadcast(id string, subs map[*subscriber]struct{}, payload []byte) {
	var toDrop []*subscriber
	for sub := range subs {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) > 0 {
		s.mu.Lock()
		for _, sub := range toDrop {
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
		}
		s.mu.Unlock()
	}
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}

func encode(g *domain.Game) (string, error) {
	var buf bytes.Buffer
	if err := g.Save(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func startRound(gs *GameState) {
	gs.Toss = gs.Game.StartRound()
	gs.Narration = ""
	gs.History = nil
	gs.note(fmt.Sprintf("Toss: human %d, computer %d. %s moves first.",
		gs.Toss.Human, gs.Toss.Computer, gs.Game.Turn.Name()))
	advance(gs)
}

// advance plays computer turns and passes for stuck sides until the human
// has a move to make or the round is over. Two passes in a row end the
// round in a stalemate.
func advance(gs *GameState) {
	g := &gs.Game
	for turns := 0; !g.Over; turns++ {
		if turns == maxAutoTurns {
			log.Printf("game %s: still not the human's move after %d turns", gs.ID, turns)
			return
		}
		if g.Turn == domain.Human {
			if domain.HasLegalMove(&g.Board, domain.Human) {
				return
			}
			if err := g.Pass(domain.Human); err != nil {
				log.Printf("game %s: human pass: %v", gs.ID, err)
				return
			}
			gs.note("Human has no legal move and passes.")
			continue
		}
		rec, err := g.ComputerTakeTurn(domain.Computer)
		if errors.Is(err, domain.ErrNoLegalMove) {
			if err := g.Pass(domain.Computer); err != nil {
				log.Printf("game %s: computer pass: %v", gs.ID, err)
				return
			}
			gs.note("Computer has no legal move and passes.")
			continue
		}
		if err != nil {
			log.Printf("game %s: computer turn: %v", gs.ID, err)
			return
		}
		gs.Narration = domain.Narrate(rec)
		gs.note(domain.Describe(rec))
	}
	gs.note(g.Outcome.String() + ".")
}
