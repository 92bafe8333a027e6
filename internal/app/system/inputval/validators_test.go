package inputval

import "testing"

func TestIsValidAuthMethod(t *testing.T) {
	tests := []struct {
		method string
		want   bool
	}{
		{"password", true},
		{"google", true},
		{"PASSWORD", true},
		{"Google", true},
		{"  google  ", true},

		{"", false},
		{"magic-link", false},
		{"facebook", false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if got := IsValidAuthMethod(tt.method); got != tt.want {
				t.Errorf("IsValidAuthMethod(%q) = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}

func TestIsValidPaymentMethod(t *testing.T) {
	tests := []struct {
		method string
		want   bool
	}{
		{"cod", true},
		{"online", true},
		{"COD", true},
		{" online ", true},

		{"", false},
		{"upi", false},
		{"card", false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if got := IsValidPaymentMethod(tt.method); got != tt.want {
				t.Errorf("IsValidPaymentMethod(%q) = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}

func TestIsValidRating(t *testing.T) {
	for n, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		if got := IsValidRating(n); got != want {
			t.Errorf("IsValidRating(%d) = %v, want %v", n, got, want)
		}
	}
}
