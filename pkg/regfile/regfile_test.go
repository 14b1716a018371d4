package regfile

import (
	"strings"
	"testing"
)

func testLayout() *Layout {
	return &Layout{
		Name:    "test",
		Version: 1,
		Registers: []Register{
			{Index: 0, Name: "ctrl", Dir: Control, Fields: []Field{
				{Name: "go", Hi: 0, Lo: 0},
				{Name: "mode", Hi: 2, Lo: 1},
			}},
			{Index: 1, Name: "value", Dir: Control, Fields: []Field{
				{Name: "value", Hi: 15, Lo: 0},
			}},
			{Index: 2, Name: "state", Dir: Status, Fields: []Field{
				{Name: "fsm", Hi: 2, Lo: 0},
				{Name: "fault", Hi: 3, Lo: 3},
			}},
		},
	}
}

func TestFieldExtractInsert(t *testing.T) {
	f := Field{Name: "mode", Hi: 6, Lo: 4}

	if got := f.Width(); got != 3 {
		t.Fatalf("Width() = %d, want 3", got)
	}
	if got := f.Mask(); got != 0x0070 {
		t.Fatalf("Mask() = %#04x, want 0x0070", got)
	}

	word := f.Insert(0xFFFF, 0b101)
	if got := f.Extract(word); got != 0b101 {
		t.Fatalf("Extract(Insert()) = %#b, want 0b101", got)
	}
	// Bits outside the field must be untouched.
	if word&^f.Mask() != 0xFFFF&^f.Mask() {
		t.Fatalf("Insert disturbed bits outside field: %#04x", word)
	}
	// Oversized values truncate to the declared width.
	if got := f.Extract(f.Insert(0, 0xFF)); got != 0b111 {
		t.Fatalf("Insert truncation = %#b, want 0b111", got)
	}
}

func TestDirectionPartition(t *testing.T) {
	file, err := New(testLayout())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := file.HostWrite(0, 0x0003); err != nil {
		t.Fatalf("HostWrite(control) returned error: %v", err)
	}
	if err := file.DeviceWrite(2, 0x0005); err != nil {
		t.Fatalf("DeviceWrite(status) returned error: %v", err)
	}

	if err := file.HostWrite(2, 1); err == nil {
		t.Fatal("HostWrite to status register succeeded, want error")
	}
	if err := file.DeviceWrite(0, 1); err == nil {
		t.Fatal("DeviceWrite to control register succeeded, want error")
	}

	got, err := file.Read(2)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got != 0x0005 {
		t.Fatalf("Read(2) = %#04x, want 0x0005", got)
	}
}

func TestReadUnmappedIndex(t *testing.T) {
	file, err := New(testLayout())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := file.Read(7); err == nil {
		t.Fatal("Read of unmapped index succeeded, want error")
	}
}

func TestReset(t *testing.T) {
	file, err := New(testLayout())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := file.HostWrite(1, 0xBEEF); err != nil {
		t.Fatalf("HostWrite returned error: %v", err)
	}
	file.Reset()
	got, _ := file.Read(1)
	if got != 0 {
		t.Fatalf("Read after Reset = %#04x, want 0", got)
	}
}

func TestLayoutValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Layout)
		wantErr string
	}{
		{
			name:    "field exceeds word",
			mutate:  func(l *Layout) { l.Registers[0].Fields[0].Hi = 16 },
			wantErr: "exceeds",
		},
		{
			name: "overlapping fields",
			mutate: func(l *Layout) {
				l.Registers[0].Fields[1] = Field{Name: "mode", Hi: 1, Lo: 0}
			},
			wantErr: "overlaps",
		},
		{
			name:    "inverted range",
			mutate:  func(l *Layout) { l.Registers[1].Fields[0] = Field{Name: "value", Hi: 0, Lo: 15} },
			wantErr: "inverted",
		},
		{
			name:    "duplicate register index",
			mutate:  func(l *Layout) { l.Registers[1].Index = 0 },
			wantErr: "share index",
		},
		{
			name:    "duplicate register name",
			mutate:  func(l *Layout) { l.Registers[1].Name = "ctrl" },
			wantErr: "duplicate register",
		},
		{
			name:    "missing version",
			mutate:  func(l *Layout) { l.Version = 0 },
			wantErr: "version",
		},
	}

	for _, tc := range cases {
		l := testLayout()
		tc.mutate(l)
		err := l.Validate()
		if err == nil {
			t.Fatalf("%s: Validate() = nil, want error containing %q", tc.name, tc.wantErr)
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: Validate() = %q, want error containing %q", tc.name, err, tc.wantErr)
		}
	}
}

func TestLookup(t *testing.T) {
	l := testLayout()
	ref, err := l.Lookup("state", "fault")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if ref.Index != 2 || ref.Dir != Status || ref.Field.Hi != 3 {
		t.Fatalf("Lookup = %+v, want index 2 status bit 3", ref)
	}

	if _, err := l.Lookup("state", "nope"); err == nil {
		t.Fatal("Lookup of missing field succeeded, want error")
	}
	if _, err := l.Lookup("nope", "fault"); err == nil {
		t.Fatal("Lookup of missing register succeeded, want error")
	}
}
