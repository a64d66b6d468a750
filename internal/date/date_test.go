package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	d, err := Parse("2026-03-15")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.String() != "2026-03-15" {
		t.Errorf("String = %q", d.String())
	}

	for _, bad := range []string{"", "15-03-2026", "2026/03/15", "2026-13-01", "tomorrow"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", bad)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2026, time.December, 31)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2026-12-31"` {
		t.Errorf("Marshal = %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"03/15/2026"`), &d); err == nil {
		t.Error("Unmarshal accepted a malformed date")
	}
	if err := json.Unmarshal([]byte(`42`), &d); err == nil {
		t.Error("Unmarshal accepted a number")
	}
}
