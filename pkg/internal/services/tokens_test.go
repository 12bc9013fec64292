package services

import "testing"

func TestRandomToken(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int
	}{
		{"verification code", 4, 8},
		{"bearer capability", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := RandomToken(tt.byteLen)
			if err != nil {
				t.Fatalf("RandomToken() error = %v", err)
			}
			if len(token) != tt.wantLen {
				t.Errorf("RandomToken() length = %d, want %d", len(token), tt.wantLen)
			}
			for _, c := range token {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("RandomToken() contains invalid hex char: %c", c)
				}
			}
		})
	}

	first, _ := RandomToken(24)
	second, _ := RandomToken(24)
	if first == second {
		t.Error("RandomToken() produced duplicate tokens (extremely unlikely)")
	}
}
