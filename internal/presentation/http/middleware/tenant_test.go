package middleware

import "testing"

func TestExtractTenantFromHost(t *testing.T) {
	tests := []struct {
		host    string
		want    string
		wantErr bool
	}{
		{"acme.tillpoint.io", "acme", false},
		{"acme.tillpoint.io:8080", "acme", false},
		{"corner-store.pos.example.com", "corner-store", false},
		{"tillpoint.io", "", true},
		{"localhost", "", true},
		{"localhost:8080", "", true},
	}

	for _, tt := range tests {
		got, err := ExtractTenantFromHost(tt.host)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ExtractTenantFromHost(%q) expected error, got %q", tt.host, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ExtractTenantFromHost(%q) unexpected error: %v", tt.host, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractTenantFromHost(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}
