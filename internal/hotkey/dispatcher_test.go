package hotkey

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestDispatcherBindAndDispatch(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	if err := d.Bind(MustParse("<alt>+s"), func() { calls++ }); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if !d.Dispatch(Binding{Mods: ModAlt, Key: "s"}) {
		t.Fatal("Dispatch returned false for bound combination")
	}
	if d.Dispatch(Binding{Key: "s"}) {
		t.Fatal("Dispatch matched without the modifier")
	}
	if d.Dispatch(Binding{Mods: ModAlt | ModShift, Key: "s"}) {
		t.Fatal("Dispatch matched with an extra modifier")
	}
	if calls != 1 {
		t.Fatalf("callback ran %d times, want 1", calls)
	}
}

func TestDispatcherRejectsDuplicate(t *testing.T) {
	d := NewDispatcher()
	if err := d.Bind(MustParse("alt+q"), func() {}); err != nil {
		t.Fatal(err)
	}
	err := d.Bind(MustParse("<alt>+q"), func() {})
	if !errors.Is(err, ErrDuplicateBinding) {
		t.Fatalf("Bind duplicate error = %v, want ErrDuplicateBinding", err)
	}
}

func TestDispatcherBindingsSorted(t *testing.T) {
	d := NewDispatcher()
	for _, s := range []string{"<alt>+q", "<alt>+p", "<alt>+s"} {
		if err := d.Bind(MustParse(s), func() {}); err != nil {
			t.Fatal(err)
		}
	}
	got := d.Bindings()
	want := []string{"<alt>+p", "<alt>+q", "<alt>+s"}
	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("Bindings()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestModifierMaskRoundTrip(t *testing.T) {
	for _, m := range []Modifier{0, ModAlt, ModCtrl | ModShift, ModSuper | ModAlt} {
		if got := modifiersFromState(maskFor(m)); got != m {
			t.Errorf("modifiersFromState(maskFor(%b)) = %b", m, got)
		}
	}
	// NumLock and CapsLock do not change the binding.
	state := uint16(xproto.ModMask1 | xproto.ModMask2 | xproto.ModMaskLock)
	if got := modifiersFromState(state); got != ModAlt {
		t.Fatalf("modifiersFromState with locks = %b, want alt", got)
	}
}

func TestRepeatFilter(t *testing.T) {
	var f repeatFilter
	if f.isRepeat(39, 100) {
		t.Fatal("first press treated as repeat")
	}
	f.release(39, 200)
	if !f.isRepeat(39, 200) {
		t.Fatal("press with release timestamp not treated as repeat")
	}
	if f.isRepeat(39, 450) {
		t.Fatal("later press treated as repeat")
	}
	if f.isRepeat(40, 200) {
		t.Fatal("other key treated as repeat")
	}
}

func TestBuildKeymap(t *testing.T) {
	// Two keycodes, two columns each: 38 = a/A, 39 = s/S.
	syms := []xproto.Keysym{'a', 'A', 's', 'S'}
	symToCode, codeToSym := buildKeymap(38, 2, syms)

	if symToCode['s'] != 39 {
		t.Fatalf("symToCode['s'] = %d, want 39", symToCode['s'])
	}
	if symToCode['A'] != 38 {
		t.Fatalf("symToCode['A'] = %d, want 38", symToCode['A'])
	}
	if codeToSym[38] != 'a' {
		t.Fatalf("codeToSym[38] = %#x, want 'a'", codeToSym[38])
	}
}
