package enums

import "testing"

func TestSegmentsDeclarationOrder(t *testing.T) {
	segments := Segments()
	if len(segments) != 11 {
		t.Fatalf("expected 11 segments, got %d", len(segments))
	}
	if segments[0] != SegmentChampion {
		t.Fatalf("expected champion first, got %s", segments[0])
	}
	if segments[len(segments)-1] != SegmentLost {
		t.Fatalf("expected lost last, got %s", segments[len(segments)-1])
	}
	for i, s := range segments {
		if s.Ordinal() != i {
			t.Fatalf("segment %s ordinal %d, want %d", s, s.Ordinal(), i)
		}
	}
}

func TestParseSegment(t *testing.T) {
	seg, err := ParseSegment("cant_lose")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg != SegmentCantLose {
		t.Fatalf("unexpected segment %s", seg)
	}

	if _, err := ParseSegment("vip"); err == nil {
		t.Fatal("expected error for unknown segment")
	}
	if Segment("vip").IsValid() {
		t.Fatal("expected vip to be invalid")
	}
	if Segment("vip").Ordinal() != -1 {
		t.Fatal("expected -1 ordinal for unknown segment")
	}
}

func TestEverySegmentHasMetadata(t *testing.T) {
	for _, s := range Segments() {
		meta := s.Metadata()
		if meta.Label == "" || meta.Action == "" || meta.Tone == "" {
			t.Fatalf("segment %s has incomplete metadata: %+v", s, meta)
		}
	}
}

func TestUnknownSegmentMetadataFallsBackToLost(t *testing.T) {
	if got := Segment("vip").Metadata(); got != SegmentLost.Metadata() {
		t.Fatalf("expected lost metadata fallback, got %+v", got)
	}
}
