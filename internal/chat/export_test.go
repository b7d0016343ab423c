package chat

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleExport = `{
  "name": "Book club",
  "type": "private_group",
  "id": 4412,
  "messages": [
    {
      "id": 1,
      "type": "service",
      "date": "2023-03-17T09:12:00",
      "date_unixtime": "1679044320",
      "actor": "Anna",
      "action": "create_group",
      "title": "Book club",
      "text_entities": []
    },
    {
      "id": 2,
      "type": "message",
      "date": "2023-03-17T09:15:41",
      "date_unixtime": "1679044541",
      "from": "Anna",
      "from_id": "user101",
      "text": "Hello there",
      "text_entities": [{"type": "plain", "text": "Hello there"}]
    }
  ]
}`

func TestDecode(t *testing.T) {
	t.Parallel()

	export, err := Decode(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Export{
		ID:   4412,
		Name: "Book club",
		Type: "private_group",
		Messages: []Message{
			{
				ID:           1,
				Type:         "service",
				Date:         "2023-03-17T09:12:00",
				DateUnixtime: "1679044320",
				Title:        "Book club",
				TextEntities: []TextEntity{},
			},
			{
				ID:           2,
				Type:         "message",
				Date:         "2023-03-17T09:15:41",
				DateUnixtime: "1679044541",
				From:         "Anna",
				FromID:       "user101",
				TextEntities: []TextEntity{{Type: "plain", Text: "Hello there"}},
			},
		},
	}

	if diff := cmp.Diff(want, export); diff != "" {
		t.Fatalf("unexpected export (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"{",
		`{"messages": "nope"}`,
		`{"id": "not a number"}`,
	}

	for _, in := range inputs {
		if _, err := Decode(strings.NewReader(in)); !errors.Is(err, ErrInvalidExport) {
			t.Fatalf("expected ErrInvalidExport for %q, got %v", in, err)
		}
	}
}
