package book

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/kestrelchess/engine/internal/chess"
)

func newTestBook(t *testing.T) *Book {
	t.Helper()
	b, err := OpenEphemeral()
	if err != nil {
		t.Fatalf("OpenEphemeral: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestDecodePolyglotMoveE2E4(t *testing.T) {
	// e2 = file 4, rank 1; e4 = file 4, rank 3.
	encoded := uint16(4 | (3 << 3) | (4 << 6) | (1 << 9))
	from, to, promo := decodePolyglotMove(encoded)

	if from != chess.E2 || to != chess.E4 || promo != 0 {
		t.Errorf("decodePolyglotMove(e2e4) = (%v, %v, %v), want (E2, E4, 0)", from, to, promo)
	}
}

func TestDecodePolyglotMoveCastlingIsTranslated(t *testing.T) {
	// Polyglot encodes white kingside castling as e1-h1 (king captures rook).
	encoded := uint16(7 | (0 << 3) | (4 << 6) | (0 << 9))
	from, to, _ := decodePolyglotMove(encoded)

	if from != chess.E1 || to != chess.G1 {
		t.Errorf("decodePolyglotMove(e1h1) = (%v, %v), want (E1, G1)", from, to)
	}
}

func TestLoadPolyglotAndProbe(t *testing.T) {
	pos := chess.NewPosition()
	key := pos.Hash

	// e2 = (file 4, rank 1), e4 = (file 4, rank 3).
	e2e4 := uint16(4 | (3 << 3) | (4 << 6) | (1 << 9))

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, key)
	binary.Write(&buf, binary.BigEndian, e2e4)
	binary.Write(&buf, binary.BigEndian, uint16(100)) // weight
	binary.Write(&buf, binary.BigEndian, uint32(0))   // learn data, ignored

	b := newTestBook(t)
	if err := b.loadPolyglotReader(&buf); err != nil {
		t.Fatalf("loadPolyglotReader: %v", err)
	}

	entries, ok := b.Probe(key)
	if !ok {
		t.Fatal("expected a book hit")
	}
	if len(entries) != 1 || entries[0].From != chess.E2 || entries[0].To != chess.E4 {
		t.Errorf("Probe = %+v, want a single e2e4 entry", entries)
	}

	move, ok := entries[0].Resolve(pos)
	if !ok {
		t.Fatal("expected Resolve to match a legal move")
	}
	if move.From() != chess.E2 || move.To() != chess.E4 {
		t.Errorf("Resolve = %s, want e2e4", move)
	}
}

func TestProbeMissesUnknownPosition(t *testing.T) {
	b := newTestBook(t)
	if _, ok := b.Probe(0xdeadbeef); ok {
		t.Error("expected a miss on an empty book")
	}
}

func TestPickChoosesAmongWeightedEntries(t *testing.T) {
	pos := chess.NewPosition()
	key := pos.Hash

	b := newTestBook(t)
	entries := []WeightedMove{
		{From: chess.E2, To: chess.E4, Weight: 10},
		{From: chess.D2, To: chess.D4, Weight: 0},
	}
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(bookKey(key), encodeEntries(entries))
	}); err != nil {
		t.Fatalf("seeding book: %v", err)
	}

	pick, ok := b.Pick(key)
	if !ok {
		t.Fatal("expected Pick to find a reply")
	}
	if pick.From != chess.E2 && pick.From != chess.D2 {
		t.Errorf("Pick returned an entry not in the seeded set: %+v", pick)
	}
}
