package printer

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewDocumentInitializes(t *testing.T) {
	d := NewDocument(32)
	data := d.Bytes()
	if !bytes.HasPrefix(data, []byte{ESC, '@'}) {
		t.Fatalf("document should start with ESC @, got % x", data[:2])
	}
}

func TestKeyValueAlignment(t *testing.T) {
	d := NewDocument(32)
	d.Reset()
	d.KeyValue("Subtotal", "$25.50")

	line := string(d.Bytes()[2:]) // skip ESC @
	line = strings.TrimSuffix(line, "\n")
	if len(line) != 32 {
		t.Fatalf("expected line padded to width 32, got %d: %q", len(line), line)
	}
	if !strings.HasPrefix(line, "Subtotal") || !strings.HasSuffix(line, "$25.50") {
		t.Fatalf("unexpected line layout: %q", line)
	}
}

func TestKeyValueOverflowKeepsOneSpace(t *testing.T) {
	d := NewDocument(10)
	d.Reset()
	d.KeyValue("A very long key", "$100.00")

	line := strings.TrimSuffix(string(d.Bytes()[2:]), "\n")
	if !strings.Contains(line, " $100.00") {
		t.Fatalf("overflowing line should still separate key and value: %q", line)
	}
}

func TestItemLine(t *testing.T) {
	d := NewDocument(32)
	d.Reset()
	d.ItemLine(2, "Widget", "$20.00")

	line := strings.TrimSuffix(string(d.Bytes()[2:]), "\n")
	if !strings.HasPrefix(line, "2x Widget") {
		t.Fatalf("expected qty prefix, got %q", line)
	}
	if !strings.HasSuffix(line, "$20.00") {
		t.Fatalf("expected right-aligned total, got %q", line)
	}
}

func TestSeparatorWidth(t *testing.T) {
	d := NewDocument(48)
	d.Reset()
	d.Separator('-')

	line := strings.TrimSuffix(string(d.Bytes()[2:]), "\n")
	if line != strings.Repeat("-", 48) {
		t.Fatalf("expected 48 dashes, got %q", line)
	}
}

func TestQRCodeEmitsPrintCommand(t *testing.T) {
	d := NewDocument(32)
	d.Reset()
	d.QRCode("https://example.com/r/INV123", 4)

	data := d.Bytes()
	if !bytes.Contains(data, []byte("https://example.com/r/INV123")) {
		t.Fatalf("QR payload missing from output")
	}
	// GS ( k ... 0x31 0x51 0x30 is the print-symbol command
	if !bytes.Contains(data, []byte{GS, '(', 'k', 0x03, 0x00, 0x31, 0x51, 0x30}) {
		t.Fatalf("QR print command missing from output")
	}
}

func TestCut(t *testing.T) {
	d := NewDocument(32)
	d.Cut()
	if !bytes.HasSuffix(d.Bytes(), []byte{GS, 'V', 0x00}) {
		t.Fatalf("expected full cut command at end")
	}
}
