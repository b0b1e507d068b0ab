package hexrecord

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeImageProducesParsableRecords(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}

	var buf bytes.Buffer
	err := EncodeImage(&buf, []Segment{{Address: 0x08008000, Data: data}})
	if err != nil {
		t.Fatalf("EncodeImage() unexpected error: %v", err)
	}

	lines, err := ReadLines(&buf)
	if err != nil {
		t.Fatalf("ReadLines() unexpected error: %v", err)
	}

	var base uint32
	var total int
	for _, line := range lines {
		rec, _ := Parse(line)
		switch rec.Type {
		case ExtendedLinearAddress:
			base = uint32(rec.Data[0])<<24 | uint32(rec.Data[1])<<16
		case Data:
			if rec.Length > DefaultLineLength {
				t.Errorf("record %q longer than %d bytes", line, DefaultLineLength)
			}
			addr := base | uint32(rec.Address)
			for i, b := range rec.Payload() {
				if want := byte(addr - 0x08008000 + uint32(i)); b != want {
					t.Fatalf("byte at 0x%08X = 0x%02X, want 0x%02X", addr+uint32(i), b, want)
				}
			}
			total += int(rec.Length)
		}
	}

	if total != len(data) {
		t.Errorf("encoded %d data bytes, want %d", total, len(data))
	}

	last, _ := Parse(lines[len(lines)-1])
	if last.Type != EndOfFile {
		t.Errorf("last record type = %v, want EndOfFile", last.Type)
	}
}

func TestLoadImage(t *testing.T) {
	input := ":020000040800F2\n" +
		":10000000214601360121470136007EFE09D2190141\n" +
		":00000001FF\n"

	segments, err := LoadImage(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadImage() unexpected error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("LoadImage() returned %d segments, want 1", len(segments))
	}
	if segments[0].Address != 0x08000000 {
		t.Errorf("segment address = 0x%08X, want 0x08000000", segments[0].Address)
	}
	if len(segments[0].Data) != 16 || segments[0].End() != 0x08000010 {
		t.Errorf("segment = %d bytes ending at 0x%08X", len(segments[0].Data), segments[0].End())
	}
}

func TestLoadImageInvalid(t *testing.T) {
	if _, err := LoadImage(strings.NewReader("garbage\n")); err == nil {
		t.Error("LoadImage() expected error for invalid input")
	}
}

func TestFlatten(t *testing.T) {
	segments := []Segment{
		{Address: 0x100, Data: []byte{1, 2}},
		{Address: 0x106, Data: []byte{3}},
	}

	got, err := Flatten(segments, 0x100, 8, 0xFF)
	if err != nil {
		t.Fatalf("Flatten() unexpected error: %v", err)
	}
	want := []byte{1, 2, 0xFF, 0xFF, 0xFF, 0xFF, 3, 0xFF}
	if !bytes.Equal(got, want) {
		t.Errorf("Flatten() = % X, want % X", got, want)
	}

	if _, err := Flatten(segments, 0x101, 8, 0xFF); err == nil {
		t.Error("Flatten() expected error for segment below base")
	}
	if _, err := Flatten(segments, 0x100, 6, 0xFF); err == nil {
		t.Error("Flatten() expected error for segment past end")
	}
}
