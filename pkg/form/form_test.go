package form

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSelect_DefaultsToFirstChoice(t *testing.T) {
	f := Select("role", Choice{Value: "patient", Label: "Patient"}, Choice{Value: "doctor", Label: "Doctor"})
	if f.Default != "patient" || !f.Required || len(f.Choices) != 2 {
		t.Errorf("unexpected field %+v", f)
	}
	if empty := Select("doctor_id"); empty.Default != "" {
		t.Errorf("expected no default without choices, got %q", empty.Default)
	}
}

func TestDescriptor_JSON(t *testing.T) {
	d := New("/book", Date("date"), Time("time"), TextArea("description"))
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"action":"/book"`, `"method":"POST"`, `"format":"YYYY-MM-DD"`, `"format":"HH:MM"`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
	if strings.Contains(s, "choices") {
		t.Errorf("empty choices must be omitted: %s", s)
	}
}
