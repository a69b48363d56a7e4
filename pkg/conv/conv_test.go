package conv

import "testing"

func TestToInt64(t *testing.T) {
	tests := []struct {
		in   any
		want int64
		ok   bool
	}{
		{int(3), 3, true},
		{int64(4), 4, true},
		{float64(5), 5, true}, // JSON 数字
		{"6", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToInt64(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToInt64(%v) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConfigGetters(t *testing.T) {
	cfg := map[string]any{
		"n":    10,              // YAML 整数
		"min":  0.5,
		"days": float64(30),     // JSON 整数
		"key":  "hot:products",
	}

	if got := ConfigGetInt(cfg, "n", 0); got != 10 {
		t.Errorf("ConfigGetInt(n) = %d", got)
	}
	if got := ConfigGetInt(cfg, "days", 0); got != 30 {
		t.Errorf("ConfigGetInt(days) = %d", got)
	}
	if got := ConfigGetInt(cfg, "absent", 7); got != 7 {
		t.Errorf("ConfigGetInt(absent) = %d, want default", got)
	}
	if got := ConfigGetFloat64(cfg, "min", 0); got != 0.5 {
		t.Errorf("ConfigGetFloat64(min) = %f", got)
	}
	if got := ConfigGetFloat64(cfg, "n", 0); got != 10 {
		t.Errorf("ConfigGetFloat64(n) = %f, want int promoted", got)
	}
	if got := ConfigGet(cfg, "key", ""); got != "hot:products" {
		t.Errorf("ConfigGet(key) = %q", got)
	}
	if got := ConfigGet[string](nil, "key", "fallback"); got != "fallback" {
		t.Errorf("ConfigGet on nil map = %q", got)
	}
}

func TestSliceAnyToInt64(t *testing.T) {
	got := SliceAnyToInt64([]any{1, int64(2), float64(3), "bad"})
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("SliceAnyToInt64 = %v", got)
	}
	if got := SliceAnyToInt64("not a slice"); got != nil {
		t.Errorf("SliceAnyToInt64(non-slice) = %v, want nil", got)
	}
}
