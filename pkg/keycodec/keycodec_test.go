package keycodec

import "testing"

const plainKey = "AIzaSyD4x8f2kQ9mN1pR7tV3wY5zB6cE0gH2jL"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	encoded := Encode(plainKey)
	if encoded == plainKey {
		t.Fatal("Encode() returned the plain key unchanged")
	}
	if got := Decode(encoded); got != plainKey {
		t.Errorf("Decode(Encode()) = %q, want %q", got, plainKey)
	}
}

func TestDecode_InvalidBase64(t *testing.T) {
	if got := Decode("not base64!!!"); got != "" {
		t.Errorf("Decode() = %q, want empty string", got)
	}
}

func TestIsEncoded(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"encoded key", Encode(plainKey), true},
		{"plain key", plainKey, false},
		{"empty", "", false},
		{"garbage", "not base64!!!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEncoded(tt.value); got != tt.want {
				t.Errorf("IsEncoded(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestSmartDecode(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain key passes through", plainKey, plainKey},
		{"encoded key is decoded", Encode(plainKey), plainKey},
		{"empty", "", ""},
		{"unrelated value passes through", "some-other-secret", "some-other-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SmartDecode(tt.value); got != tt.want {
				t.Errorf("SmartDecode(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
