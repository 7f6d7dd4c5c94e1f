package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ayusman/handcursor/internal/detector"
	"github.com/ayusman/handcursor/internal/session"
)

const landmarksSchemaURL = "mem://schemas/landmarks.json"

// landmarksSchema describes one frame of detections pushed by a client-side
// pose model.
const landmarksSchema = `{
  "type": "object",
  "required": ["hands"],
  "properties": {
    "hands": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["points"],
        "properties": {
          "points": {
            "type": "array",
            "minItems": 21,
            "maxItems": 21,
            "items": {
              "type": "object",
              "required": ["x", "y"],
              "properties": {
                "x": {"type": "number"},
                "y": {"type": "number"},
                "z": {"type": "number"}
              }
            }
          },
          "handedness": {"type": "string"},
          "score": {"type": "number", "minimum": 0, "maximum": 1}
        }
      }
    }
  }
}`

const maxLandmarksMessage = 64 << 10

type landmarksMessage struct {
	Hands []struct {
		Points     []detector.Point3D `json:"points"`
		Handedness string             `json:"handedness"`
		Score      float64            `json:"score"`
	} `json:"hands"`
}

// LandmarksHandler feeds externally detected landmarks into the session. It
// accepts a WebSocket stream of frames or a single POSTed frame.
type LandmarksHandler struct {
	session *session.Session
	schema  *jsonschema.Schema
}

// NewLandmarksHandler compiles the message schema and creates the handler.
func NewLandmarksHandler(s *session.Session) (*LandmarksHandler, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(landmarksSchemaURL, bytes.NewReader([]byte(landmarksSchema))); err != nil {
		return nil, fmt.Errorf("failed to add landmarks schema: %w", err)
	}
	schema, err := compiler.Compile(landmarksSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile landmarks schema: %w", err)
	}
	return &LandmarksHandler{session: s, schema: schema}, nil
}

// Decode validates one message and converts it to detector output.
func (h *LandmarksHandler) Decode(data []byte) ([]detector.HandLandmarks, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := h.schema.Validate(doc); err != nil {
		return nil, err
	}

	var msg landmarksMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}

	hands := make([]detector.HandLandmarks, 0, len(msg.Hands))
	for _, hand := range msg.Hands {
		hands = append(hands, detector.FromPoints(hand.Points, hand.Handedness, hand.Score))
	}
	return hands, nil
}

func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		h.serveWS(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxLandmarksMessage))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	hands, err := h.Decode(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	h.session.Process(hands)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.session.Snapshot())
}

func (h *LandmarksHandler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxLandmarksMessage)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		hands, err := h.Decode(data)
		if err != nil {
			log.Printf("Dropping landmarks message: %v", err)
			continue
		}
		h.session.Process(hands)
	}
}
