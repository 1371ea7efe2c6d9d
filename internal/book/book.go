// Package book implements an opening book: a position hash keyed to a
// weighted list of known-good replies, backed by an embedded key-value
// store (a badger directory) so the book can be probed without loading it
// into memory up front. LoadPolyglot fills the store from a Polyglot .bin
// file; every other method only reads it.
package book

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/kestrelchess/engine/internal/chess"
)

// WeightedMove is one candidate reply stored in the book. It carries only
// from/to/promotion, the same information Polyglot itself encodes — not a
// fully-formed chess.Move, since the book has no way to know a move's
// capture/en-passant/castling kind without the actual position in hand.
// Resolve reconstructs the real chess.Move against a caller-supplied
// position.
type WeightedMove struct {
	From, To  chess.Square
	Promotion chess.PieceType
	Weight    uint16
}

// Resolve matches wm against pos's legal moves, returning the fully-formed
// move (with correct capture/en-passant/castling/promotion kind bits) a
// search can actually play.
func (wm WeightedMove) Resolve(pos *chess.Position) (chess.Move, bool) {
	legal := pos.GenerateLegalMoves()
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.From() != wm.From || m.To() != wm.To {
			continue
		}
		if wm.Promotion == 0 {
			if !m.IsPromotion() {
				return m, true
			}
			continue
		}
		if m.IsPromotion() && m.Kind().PromotedType() == wm.Promotion {
			return m, true
		}
	}
	return chess.NoMove, false
}

// Book is a handle onto an opening book store.
type Book struct {
	db *badger.DB
}

// Open opens (creating if necessary) the book store at dir.
func Open(dir string) (*Book, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("book: open %s: %w", dir, err)
	}
	return &Book{db: db}, nil
}

// OpenEphemeral opens an in-memory book store, useful for tests and for
// building a book from a Polyglot file without touching disk.
func OpenEphemeral() (*Book, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("book: open in-memory store: %w", err)
	}
	return &Book{db: db}, nil
}

// Close releases the underlying store.
func (b *Book) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func bookKey(hash uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], hash)
	return k[:]
}

// entrySize is the encoded size of one WeightedMove: from, to, promotion
// (one byte each) and weight (two bytes, little-endian).
const entrySize = 5

func encodeEntries(entries []WeightedMove) []byte {
	out := make([]byte, len(entries)*entrySize)
	for i, e := range entries {
		off := i * entrySize
		out[off] = byte(e.From)
		out[off+1] = byte(e.To)
		out[off+2] = byte(e.Promotion)
		binary.LittleEndian.PutUint16(out[off+3:], e.Weight)
	}
	return out
}

func decodeEntries(data []byte) []WeightedMove {
	n := len(data) / entrySize
	entries := make([]WeightedMove, n)
	for i := 0; i < n; i++ {
		off := i * entrySize
		entries[i] = WeightedMove{
			From:      chess.Square(data[off]),
			To:        chess.Square(data[off+1]),
			Promotion: chess.PieceType(data[off+2]),
			Weight:    binary.LittleEndian.Uint16(data[off+3:]),
		}
	}
	return entries
}

// Probe looks up hash and returns its weighted replies, highest weight
// first. Book construction (turning a PGN corpus into a store) is out of
// scope; this reader only consumes a pre-built one.
func (b *Book) Probe(hash uint64) ([]WeightedMove, bool) {
	if b == nil || b.db == nil {
		return nil, false
	}

	var entries []WeightedMove
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(bookKey(hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			entries = decodeEntries(val)
			return nil
		})
	})
	if err != nil || len(entries) == 0 {
		return nil, false
	}

	sortByWeightDescending(entries)
	return entries, true
}

// Pick performs weighted-random selection among hash's replies, the way
// an engine actually varies its opening play from game to game.
func (b *Book) Pick(hash uint64) (WeightedMove, bool) {
	entries, ok := b.Probe(hash)
	if !ok {
		return WeightedMove{}, false
	}

	total := uint32(0)
	for _, e := range entries {
		total += uint32(e.Weight)
	}
	if total == 0 {
		return entries[0], true
	}

	r := rand.Uint32() % total
	cumulative := uint32(0)
	for _, e := range entries {
		cumulative += uint32(e.Weight)
		if r < cumulative {
			return e, true
		}
	}
	return entries[len(entries)-1], true
}

func sortByWeightDescending(entries []WeightedMove) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Weight > entries[j-1].Weight; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

// LoadPolyglot populates the store from a Polyglot-format .bin file,
// overwriting any existing entries for a position it touches.
func (b *Book) LoadPolyglot(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("book: open polyglot file: %w", err)
	}
	defer f.Close()
	return b.loadPolyglotReader(f)
}

func (b *Book) loadPolyglotReader(r io.Reader) error {
	byHash := make(map[uint64][]WeightedMove)

	var rec [16]byte
	for {
		_, err := io.ReadFull(r, rec[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("book: reading polyglot record: %w", err)
		}

		key := binary.BigEndian.Uint64(rec[0:8])
		moveData := binary.BigEndian.Uint16(rec[8:10])
		weight := binary.BigEndian.Uint16(rec[10:12])

		from, to, promo := decodePolyglotMove(moveData)
		byHash[key] = append(byHash[key], WeightedMove{From: from, To: to, Promotion: promo, Weight: weight})
	}

	return b.db.Update(func(txn *badger.Txn) error {
		for hash, entries := range byHash {
			if err := txn.Set(bookKey(hash), encodeEntries(entries)); err != nil {
				return err
			}
		}
		return nil
	})
}

// decodePolyglotMove decodes Polyglot's from/to/promotion bit layout:
// bits 0-5 to-square, 6-11 from-square, 12-14 promotion piece (0=none,
// 1=knight..4=queen). Polyglot encodes castling as king-captures-rook;
// that's translated here to this engine's king-moves-two-squares
// convention so Resolve can match it against a generated castling move.
func decodePolyglotMove(data uint16) (from, to chess.Square, promo chess.PieceType) {
	toFile := data & 7
	toRank := (data >> 3) & 7
	fromFile := (data >> 6) & 7
	fromRank := (data >> 9) & 7
	promoBits := (data >> 12) & 7

	from = chess.NewSquare(int(fromFile), int(fromRank))
	to = chess.NewSquare(int(toFile), int(toRank))

	switch {
	case from == chess.E1 && to == chess.H1:
		to = chess.G1
	case from == chess.E1 && to == chess.A1:
		to = chess.C1
	case from == chess.E8 && to == chess.H8:
		to = chess.G8
	case from == chess.E8 && to == chess.A8:
		to = chess.C8
	}

	if promoBits > 0 {
		promoTypes := [5]chess.PieceType{0, chess.Knight, chess.Bishop, chess.Rook, chess.Queen}
		promo = promoTypes[promoBits]
	}

	return from, to, promo
}
