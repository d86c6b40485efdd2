package materialize

import "testing"

func TestTransliterate(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Smart Switch", "smart_switch"},
		{"Smart-Switch 3", "smart_switch_3"},
		{"Café Sensor", "cafe_sensor"},
		{"  spaced   out  ", "spaced_out"},
		// Han characters transliterate to pinyin.
		{"开关3", "kaiguan3"},
		{"传感器", "chuanganqi"},
		{"智能开关", "zhinengkaiguan"},
		{"人体传感器", "rentichuanganqi"},
		// Names with no pinyin reading and no ASCII fall back.
		{"★★★", "device"},
		{"", "device"},
		// Underscore runs collapse and edges trim.
		{"__a__b__", "a_b"},
	}

	for _, tt := range tests {
		if got := Transliterate(tt.in); got != tt.expected {
			t.Errorf("Transliterate(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestTransliterateDistinguishesNames(t *testing.T) {
	// Distinct Chinese short names must yield distinct filename tokens, or
	// materialized files for different products would collide.
	names := []string{"智能开关", "人体传感器", "多功能网关"}
	seen := map[string]string{}
	for _, name := range names {
		token := Transliterate(name)
		if token == "device" {
			t.Errorf("Transliterate(%q) collapsed to the placeholder", name)
		}
		if prev, ok := seen[token]; ok {
			t.Errorf("Transliterate(%q) and (%q) collide on %q", name, prev, token)
		}
		seen[token] = name
	}
}

func TestTransliterateDeterministic(t *testing.T) {
	for _, name := range []string{"Smart Switch", "开关3", "Café"} {
		first := Transliterate(name)
		for i := 0; i < 3; i++ {
			if got := Transliterate(name); got != first {
				t.Fatalf("Transliterate(%q) unstable: %q then %q", name, first, got)
			}
		}
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		pdid, device, ext string
		expected          string
	}{
		{"12345", "Smart Switch", ".png", "12345_smart_switch.png"},
		{"12345", "Smart Switch", ".jpeg", "12345_smart_switch.jpeg"},
		// Extension defaults to .png when the source carries none.
		{"7", "Sensor", "", "7_sensor.png"},
		// Hostile identifier characters are replaced.
		{"12/34", "x", ".png", "12_34_x.png"},
		{"", "x", ".png", "unknown_x.png"},
	}

	for _, tt := range tests {
		if got := FileName(tt.pdid, tt.device, tt.ext); got != tt.expected {
			t.Errorf("FileName(%q, %q, %q) = %q, expected %q",
				tt.pdid, tt.device, tt.ext, got, tt.expected)
		}
	}
}
