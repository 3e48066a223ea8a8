// Package form describes the input a POST endpoint accepts. GET on a form
// endpoint answers with a Descriptor instead of rendering HTML.
package form

// Choice is one allowed value of a select field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Field struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Required  bool     `json:"required"`
	MaxLength int      `json:"max_length,omitempty"`
	Format    string   `json:"format,omitempty"`
	Default   string   `json:"default,omitempty"`
	Choices   []Choice `json:"choices,omitempty"`
}

type Descriptor struct {
	Action string  `json:"action"`
	Method string  `json:"method"`
	Fields []Field `json:"fields"`
}

// New returns a POST descriptor for action.
func New(action string, fields ...Field) Descriptor {
	return Descriptor{Action: action, Method: "POST", Fields: fields}
}

func Text(name string, required bool, maxLength int) Field {
	return Field{Name: name, Type: "text", Required: required, MaxLength: maxLength}
}

func Password(name string) Field {
	return Field{Name: name, Type: "password", Required: true}
}

func TextArea(name string) Field {
	return Field{Name: name, Type: "textarea", Required: true}
}

func Email(name string) Field {
	return Field{Name: name, Type: "email", Required: true}
}

// Date and Time fields carry their expected layout in Format.
func Date(name string) Field {
	return Field{Name: name, Type: "date", Required: true, Format: "YYYY-MM-DD"}
}

func Time(name string) Field {
	return Field{Name: name, Type: "time", Required: true, Format: "HH:MM"}
}

// Select builds a required select field; the first choice is the default.
func Select(name string, choices ...Choice) Field {
	f := Field{Name: name, Type: "select", Required: true, Choices: choices}
	if len(choices) > 0 {
		f.Default = choices[0].Value
	}
	return f
}
