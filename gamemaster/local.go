package gamemaster

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"towers/game"
)

// ErrGameOver is returned for moves sent after the match ended.
var ErrGameOver = errors.New("game is over - no moves allowed")

// updateBuffer is how many unread updates a session keeps. Older ones are
// dropped once it is full.
const updateBuffer = 64

// Update is one accepted move and the snapshot it produced.
type Update struct {
	Move    game.GameMove
	State   *game.GameState
	Victory game.Victory
}

// UpdateGetter returns the next unread update without blocking. ok is false
// when nothing is pending or the session has ended and been drained.
type UpdateGetter func() (u Update, ok bool)

// Engine is the boundary a presentation layer talks to: intents in,
// snapshots out.
type Engine interface {
	Init() (*game.GameState, UpdateGetter)
	Play(move game.GameMove) error
}

type Option func(e *localEngine)

func WithSink(sink game.Sink) Option {
	return func(e *localEngine) {
		if sink != nil {
			e.log = sink
		}
	}
}

type localEngine struct {
	mu       sync.Mutex
	id       uuid.UUID
	m        *game.Manager
	log      game.Sink
	state    *game.GameState
	updateCh chan Update
	gameOver bool
}

func NewLocalEngine(m *game.Manager, options ...Option) *localEngine {
	e := &localEngine{m: m, log: game.NopSink{}}
	for _, option := range options {
		option(e)
	}
	return e
}

// Init starts a new session and returns a copy of its opening snapshot.
func (e *localEngine) Init() (*game.GameState, UpdateGetter) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.id = uuid.New()
	e.state = e.m.NewGame()
	e.gameOver = false
	e.updateCh = make(chan Update, updateBuffer)
	e.log.Log(game.CategoryStateChange, "session started", game.Fields{"session": e.id.String()})

	updates := e.updateCh
	return e.state.Copy(), func() (Update, bool) {
		select {
		case u, ok := <-updates:
			return u, ok
		default:
			return Update{}, false
		}
	}
}

// Session identifies the current session. It is the zero UUID before Init.
func (e *localEngine) Session() uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.id
}

// State returns a copy of the current snapshot.
func (e *localEngine) State() *game.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil
	}
	return e.state.Copy()
}

// Play validates and applies a move. A decided battle is concluded in the
// same step. Rule violations come back as *game.Error and leave the session
// unchanged.
func (e *localEngine) Play(move game.GameMove) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return fmt.Errorf("session not initialised")
	}
	if e.gameOver {
		return ErrGameOver
	}
	defer func() {
		if r := recover(); r != nil {
			err = game.Invariant(game.CodeRecoveredPanic, fmt.Sprintf("engine panic while playing %s: %v", move, r), nil)
			e.log.Log(game.CategoryError, err.Error(), game.Fields{
				"session": e.id.String(),
				"move":    move.String(),
			})
		}
	}()

	next, err := e.m.Play(e.state, move)
	if err != nil {
		return err
	}
	v := game.EvaluateVictory(next)
	if v.Decided() {
		if next, err = e.m.ConcludeBattle(next, v); err != nil {
			return err
		}
	}
	e.state = next
	e.publish(Update{Move: move, State: next.Copy(), Victory: v})

	if next.Phase == game.MatchEndPhase {
		e.gameOver = true
		close(e.updateCh)
		e.log.Log(game.CategoryStateChange, "session ended", game.Fields{
			"session": e.id.String(),
			"winner":  string(next.Winner),
			"reason":  next.WinReason,
		})
	}
	return nil
}

func (e *localEngine) publish(u Update) {
	for {
		select {
		case e.updateCh <- u:
			return
		default:
			select {
			case <-e.updateCh:
			default:
			}
		}
	}
}
