package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/senacirak/DEU-DevClubGames/internal/dto"
)

// Event types emitted by JSONHandler.
const (
	EventScene  = "scene"
	EventNotice = "notice"
)

// Event is one line of JSONHandler output.
type Event struct {
	Type    string         `json:"type"`
	Scene   *dto.SceneView `json:"scene,omitempty"`
	Message string         `json:"message,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

// Output emits the scene as a single JSON line.
func (h *JSONHandler) Output(ctx context.Context, view dto.SceneView) error {
	return h.Encoder.Encode(Event{Type: EventScene, Scene: &view})
}

// Input reads one line. A JSON string is unquoted; anything else is taken as raw text.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	return CleanLine(text)
}

// SystemOutput emits a notice event.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Event{Type: EventNotice, Message: msg})
}
