package services

import "testing"

func TestGenerateOTP_Format(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateOTP()
		if err != nil {
			t.Fatalf("generateOTP failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("Expected 6-digit code, got %q", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("Expected digits only, got %q", code)
			}
		}
	}
}

func TestEmailRegex(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com"}
	invalid := []string{"", "plain", "a@b", "@example.com", "a b@example.com"}

	for _, email := range valid {
		if !emailRegex.MatchString(email) {
			t.Errorf("Expected %q to be accepted", email)
		}
	}
	for _, email := range invalid {
		if emailRegex.MatchString(email) {
			t.Errorf("Expected %q to be rejected", email)
		}
	}
}
