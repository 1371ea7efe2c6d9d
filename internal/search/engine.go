package search

import (
	"fmt"
	"log"

	"github.com/kestrelchess/engine/internal/book"
	"github.com/kestrelchess/engine/internal/chess"
	"github.com/kestrelchess/engine/internal/nnue"
)

// Options configures a new Engine. A zero value is valid: it yields a
// 64MB hash table, no book, and classical evaluation.
type Options struct {
	HashSizeMB int
	NNUEPath   string
	BookPath   string
}

const defaultHashSizeMB = 64

// Engine orchestrates a Searcher with an optional opening book and a
// choice of static or NNUE evaluation. It is the single type the UCI
// loop drives.
type Engine struct {
	searcher *Searcher
	tt       *TranspositionTable
	book     *book.Book
	nnue     *nnue.Evaluator
	useNNUE  bool
}

// NewEngine builds an Engine from opts. A book or NNUE network that
// fails to load is logged and skipped rather than treated as fatal,
// per the engine's optional-extras error policy.
func NewEngine(opts Options) *Engine {
	hashMB := opts.HashSizeMB
	if hashMB <= 0 {
		hashMB = defaultHashSizeMB
	}

	tt := NewTranspositionTable(hashMB)
	e := &Engine{tt: tt, searcher: NewSearcher(tt)}

	if opts.BookPath != "" {
		b, err := book.Open(opts.BookPath)
		if err != nil {
			log.Printf("[Engine] book not loaded: %v", err)
		} else {
			e.book = b
			log.Printf("[Engine] opening book loaded from %s", opts.BookPath)
		}
	}

	if opts.NNUEPath != "" {
		if err := e.LoadNNUE(opts.NNUEPath); err != nil {
			log.Printf("[Engine] NNUE not loaded, using classical evaluation: %v", err)
		}
	}

	return e
}

// LoadNNUE loads weights from path and switches evaluation to NNUE. On
// failure the engine keeps using the static evaluator; this is the
// IOError-falls-back-to-static-evaluator policy for optional NNUE.
func (e *Engine) LoadNNUE(path string) error {
	ev, err := nnue.NewEvaluator(path)
	if err != nil {
		return fmt.Errorf("search: load NNUE: %w", err)
	}
	e.nnue = ev
	e.useNNUE = true
	e.searcher.SetEvaluator(ev)
	log.Printf("[Engine] NNUE network loaded from %s", path)
	return nil
}

// SetUseNNUE switches between the loaded NNUE network and the static
// evaluator. Enabling it without a loaded network is a no-op.
func (e *Engine) SetUseNNUE(use bool) {
	if use && e.nnue == nil {
		return
	}
	e.useNNUE = use
	if use {
		e.searcher.SetEvaluator(e.nnue)
	} else {
		e.searcher.SetEvaluator(nil)
	}
}

// UseNNUE reports whether NNUE evaluation is currently active.
func (e *Engine) UseNNUE() bool { return e.useNNUE }

// HasBook reports whether an opening book is attached.
func (e *Engine) HasBook() bool { return e.book != nil }

// SetBook installs an already-opened book, e.g. loaded from a Polyglot
// file rather than an existing store directory.
func (e *Engine) SetBook(b *book.Book) { e.book = b }

// Clear resets all persistent search state for a new game.
func (e *Engine) Clear() { e.searcher.NewGame() }

// Stop requests the in-progress search halt as soon as it next checks.
func (e *Engine) Stop() { e.searcher.Stop() }

// Nodes reports the number of nodes visited by the most recent search.
func (e *Engine) Nodes() uint64 { return e.searcher.Nodes() }

// HashFull reports the transposition table's permille occupancy.
func (e *Engine) HashFull() int { return e.tt.HashFull() }

// Go finds the best move for pos: a book pick if one resolves to a
// legal move, otherwise a full search. gameHashes seeds repetition
// detection exactly as Searcher.ComputeBestMove expects.
func (e *Engine) Go(pos *chess.Position, limits Limits, gameHashes []uint64, infoFn InfoCallback) PrincipalVariation {
	if e.book != nil {
		if wm, ok := e.book.Pick(pos.Hash); ok {
			if m, ok := wm.Resolve(pos); ok {
				return PrincipalVariation{Moves: []chess.Move{m}}
			}
		}
	}
	return e.searcher.ComputeBestMove(pos, limits, gameHashes, infoFn)
}
