package transport

import "testing"

func TestParseHost(t *testing.T) {
	tests := []struct {
		spec    string
		want    Options
		wantErr bool
	}{
		{"deploy@10.0.0.5", Options{User: "deploy", Addr: "10.0.0.5", Port: 22}, false},
		{"root@edge-01:2222", Options{User: "root", Addr: "edge-01", Port: 2222}, false},
		{"nouser", Options{}, true},
		{"@host", Options{}, true},
		{"user@", Options{}, true},
		{"user@host:abc", Options{}, true},
		{"user@host:-1", Options{}, true},
	}

	for _, tt := range tests {
		got, err := ParseHost(tt.spec)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHost(%q) expected error, got %+v", tt.spec, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHost(%q) returned error: %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHost(%q) = %+v, want %+v", tt.spec, got, tt.want)
		}
	}
}
