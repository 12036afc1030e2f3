package board

import "testing"

// shiftedSoldier is the classic opening with the (4,0) soldier moved one
// cell right, breaking the left-right symmetry.
func shiftedSoldier() Layout {
	b := classicBoard()
	b[4][0] = Empty
	b[4][1] = Soldier
	l, err := Pack(b)
	if err != nil {
		panic(err)
	}
	return l
}

func TestMirror(t *testing.T) {
	// Mirroring must equal packing the row-reversed board.
	b := shiftedSoldier()
	orig, err := b.Unpack()
	if err != nil {
		t.Fatalf("Unpack() error: %v", err)
	}
	reversed := New()
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			reversed[r][Cols-1-c] = orig[r][c]
		}
	}
	want, err := Pack(reversed)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if got := b.Mirror(); got != want {
		t.Errorf("Mirror() = %d, want %d", got, want)
	}
}

func TestMirrorInvolution(t *testing.T) {
	for _, l := range []Layout{classicLayout, shiftedSoldier(), 0} {
		if got := l.Mirror().Mirror(); got != l {
			t.Errorf("Mirror(Mirror(%d)) = %d, want the original", l, got)
		}
	}
}

func TestMirrorOfSymmetricLayout(t *testing.T) {
	// The classic opening is left-right symmetric, so it is its own mirror
	// and its own canonical form.
	if got := classicLayout.Mirror(); got != classicLayout {
		t.Errorf("Mirror() = %d, want %d", got, classicLayout)
	}
	if got := classicLayout.Canonical(); got != classicLayout {
		t.Errorf("Canonical() = %d, want %d", got, classicLayout)
	}
}

func TestCanonical(t *testing.T) {
	l := shiftedSoldier()
	m := l.Mirror()
	if m == l {
		t.Fatal("fixture is symmetric; it cannot exercise Canonical")
	}

	want := l
	if m < l {
		want = m
	}
	if got := l.Canonical(); got != want {
		t.Errorf("Canonical() = %d, want %d", got, want)
	}

	// Idempotence and mirror agreement.
	if got := l.Canonical().Canonical(); got != l.Canonical() {
		t.Errorf("Canonical is not idempotent: %d then %d", l.Canonical(), got)
	}
	if l.Canonical() != m.Canonical() {
		t.Errorf("mirror pair disagrees: %d vs %d", l.Canonical(), m.Canonical())
	}

	// A canonical form must stay decodable.
	if _, err := l.Canonical().Unpack(); err != nil {
		t.Errorf("canonical form fails to decode: %v", err)
	}
}
