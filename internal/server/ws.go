package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/logflix/logflix/internal/core/cast"
	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/player"
	"github.com/logflix/logflix/internal/util"
)

// upgrader accepts any origin: the surface is read-only replay data, and
// browser viewers are expected to live on other hosts.
var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// streamFrame is one playback snapshot pushed to a viewer.
type streamFrame struct {
	Time       float64           `json:"time"`
	Text       string            `json:"text"`
	Annotation *model.Annotation `json:"annotation,omitempty"`
	Playing    bool              `json:"playing"`
	Speed      float64           `json:"speed"`
}

// streamControl is one transport command received from a viewer.
type streamControl struct {
	Action string  `json:"action"` // play, pause, seek, speed, reset
	Time   float64 `json:"time,omitempty"`
	Speed  float64 `json:"speed,omitempty"`
}

// viewer is one WebSocket connection. The mutex serializes writes; the
// playback it watches is owned entirely by the stream goroutine.
type viewer struct {
	id     string
	conn   *websocket.Conn
	sendMu sync.Mutex
}

func (v *viewer) send(frame streamFrame) error {
	v.sendMu.Lock()
	defer v.sendMu.Unlock()
	return v.conn.WriteJSON(frame)
}

// handleStream upgrades the connection and runs a private playback over
// the requested cast: the same one-shot tick discipline as the terminal
// player, with frames pushed over the socket instead of painted.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	path, err := s.resolveSession(id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	doc, err := s.loadDocument(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		util.LogDebug(fmt.Sprintf("WebSocket upgrade failed: %v", err))
		return
	}

	v := &viewer{id: uuid.NewString(), conn: conn}
	util.LogInfo(fmt.Sprintf("Viewer %s connected to session %s", v.id, id))
	s.runStream(r, v, doc)
	util.LogInfo(fmt.Sprintf("Viewer %s disconnected", v.id))
}

// runStream drives one viewer's playback until the connection drops or
// the server shuts down. At most one tick is pending at any moment;
// every control that touches the clock cancels it before arming a fresh
// one, so a fired tick always carries a target computed from current
// state. Returning cancels the pending tick.
func (s *Server) runStream(r *http.Request, v *viewer, doc *cast.Document) {
	defer v.conn.Close()

	playback := player.NewPlayback(doc)

	controls := make(chan streamControl, 16)
	readDone := make(chan struct{})
	go v.readControls(controls, readDone)

	var (
		tickTimer  *time.Timer
		tickC      <-chan time.Time
		tickTarget float64
	)
	cancelTick := func() {
		if tickTimer != nil {
			tickTimer.Stop()
			tickTimer = nil
			tickC = nil
		}
	}
	armTick := func() {
		cancelTick()
		delay, target, ok := playback.Schedule()
		if !ok {
			return
		}
		tickTimer = time.NewTimer(delay)
		tickC = tickTimer.C
		tickTarget = target
	}
	defer cancelTick()

	push := func() bool {
		frame := streamFrame{
			Time:    playback.VirtualTime(),
			Text:    playback.VisibleText(),
			Playing: playback.Playing(),
			Speed:   playback.Speed(),
		}
		if ann, ok := playback.CurrentAnnotation(); ok {
			frame.Annotation = &ann
		}
		if err := v.send(frame); err != nil {
			util.LogDebug(fmt.Sprintf("Viewer %s write failed: %v", v.id, err))
			return false
		}
		return true
	}

	// Initial frame so the viewer renders the stopped start state
	// without having to send anything.
	if !push() {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return

		case <-readDone:
			return

		case <-tickC:
			tickC = nil
			tickTimer = nil
			playback.AdvanceTo(tickTarget)
			armTick()
			if !push() {
				return
			}

		case ctrl := <-controls:
			applyControl(playback, ctrl)
			armTick()
			if !push() {
				return
			}
		}
	}
}

// readControls decodes viewer commands until the connection errors,
// which is also how a normal close surfaces. A message that fails to
// decode is skipped, so one bad client frame cannot end the stream.
// Controls are pushed non-blocking: if the stream loop is mid-shutdown
// a command is dropped rather than wedging this goroutine.
func (v *viewer) readControls(controls chan<- streamControl, done chan<- struct{}) {
	defer close(done)
	for {
		_, data, err := v.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				util.LogDebug(fmt.Sprintf("Viewer %s read failed: %v", v.id, err))
			}
			return
		}
		var ctrl streamControl
		if err := json.Unmarshal(data, &ctrl); err != nil {
			util.LogDebug(fmt.Sprintf("Viewer %s sent an undecodable control: %v", v.id, err))
			continue
		}
		select {
		case controls <- ctrl:
		default:
		}
	}
}

// applyControl maps a viewer command onto the playback clock. Unknown
// actions and unsupported speeds are ignored, exactly like unmapped
// keys in the terminal player.
func applyControl(playback *player.Playback, ctrl streamControl) {
	switch ctrl.Action {
	case "play":
		playback.Play()
	case "pause":
		playback.Pause()
	case "seek":
		playback.SeekTo(ctrl.Time)
	case "speed":
		playback.SetSpeed(ctrl.Speed)
	case "reset":
		playback.Reset()
	}
}
