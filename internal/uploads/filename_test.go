package uploads

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateFile(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		size        int64
		want        error
	}{
		{"small pdf", "application/pdf", 2 << 20, nil},
		{"small png", "image/png", 2 << 20, nil},
		{"jpeg with charset", "image/jpeg; charset=binary", 1 << 20, nil},
		{"exactly at limit", "application/pdf", MaxUploadBytes, nil},
		{"oversized pdf", "application/pdf", 70 << 20, ErrTooLarge},
		{"just over limit", "image/png", MaxUploadBytes + 1, ErrTooLarge},
		{"executable", "application/x-msdownload", 1 << 20, ErrContentType},
		{"gif", "image/gif", 1 << 20, ErrContentType},
		{"empty type", "", 1 << 20, ErrContentType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateFile(tc.contentType, tc.size)
			if !errors.Is(err, tc.want) {
				t.Errorf("ValidateFile(%q, %d) = %v, want %v", tc.contentType, tc.size, err, tc.want)
			}
		})
	}
}

func TestGenerateStoredNameKeepsExtension(t *testing.T) {
	name := GenerateStoredName("My Electric Bill.PDF")
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("stored name %q should end in .pdf", name)
	}
	if strings.Contains(name, " ") {
		t.Errorf("stored name %q should not contain spaces", name)
	}
}

func TestGenerateStoredNameDistinct(t *testing.T) {
	a := GenerateStoredName("a.png")
	b := GenerateStoredName("a.png")
	if a == b {
		t.Errorf("two generated names collided: %q", a)
	}
}
