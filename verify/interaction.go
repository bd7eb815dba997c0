package verify

import (
	"bytes"
	"strings"

	json "github.com/goccy/go-json"
)

// Interaction is one observed request/response exchange.
type Interaction struct {
	Request  RecordedRequest  `json:"request"`
	Response RecordedResponse `json:"response"`
}

type RecordedRequest struct {
	Method  string        `json:"method"`
	Path    string        `json:"path"`
	Headers []HeaderField `json:"headers"`
	Body    Body          `json:"body,omitempty"`
}

type RecordedResponse struct {
	Status  int           `json:"status"`
	Headers []HeaderField `json:"headers"`
	Body    Body          `json:"body,omitempty"`
}

type HeaderField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Body is an observed payload held as JSON text. It decodes from either a
// string carrying the text or the JSON value itself, and always encodes as a
// string. An empty Body means no payload was observed.
type Body []byte

func (b *Body) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*b = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = Body(s)
		return nil
	}
	*b = append(Body(nil), data...)
	return nil
}

func (b Body) MarshalJSON() ([]byte, error) { return json.Marshal(string(b)) }

// Present reports whether a payload was observed.
func (b Body) Present() bool { return len(bytes.TrimSpace(b)) > 0 }

// DecodeInteraction parses the wire form of an interaction.
func DecodeInteraction(data []byte) (Interaction, error) {
	var in Interaction
	if err := json.Unmarshal(data, &in); err != nil {
		return Interaction{}, err
	}
	return in, nil
}

func findHeader(fields []HeaderField, name string) (HeaderField, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return HeaderField{}, false
}
