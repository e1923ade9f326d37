package services

import "testing"

func TestNormalizeExtractedText(t *testing.T) {
	input := "Line one  \r\n\r\n\r\n\r\nLine two\r\n   Line three   \n"
	expected := "Line one\n\nLine two\nLine three"

	if got := normalizeExtractedText(input); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}
