package memview

import "testing"

func TestRegionStateString(t *testing.T) {
	cases := map[RegionState]string{
		StateReserved: "reserved",
		StateCommit:   "commit",
		StateFree:     "free",
		StateUnknown:  "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("RegionState(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestRegionTypeString(t *testing.T) {
	cases := map[RegionType]string{
		TypePrivate: "private",
		TypeMapped:  "mapped",
		TypeImage:   "image",
		TypeUnknown: "unknown",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("RegionType(%d).String() = %q, want %q", typ, got, want)
		}
	}
}

func TestReadZeroSizeReturnsNil(t *testing.T) {
	v := &View{}
	buf, err := v.Read(0x1000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf != nil {
		t.Fatalf("expected nil buffer for zero-size read, got %v", buf)
	}
}
