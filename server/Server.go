// Package server serves a realtime view of a running episode. Frames
// are pushed to the browser over a websocket and painted onto a
// canvas, giving the live belief-map view the original training loop
// had.
package server

import (
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"github.com/gorilla/websocket"
	"github.com/samuelfneumann/goslam/environment/slam"
	ts "github.com/samuelfneumann/goslam/timestep"
)

var upgrader = websocket.Upgrader{}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Interval at which frames are pushed to connected peers
	framePeriod = 50 * time.Millisecond
)

// Frame is the JSON view of one episode snapshot
type Frame struct {
	Cells    [][]int `json:"cells"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Facing   int     `json:"facing"`
	Coverage float64 `json:"coverage"`
	Step     int     `json:"step"`
	Reward   float64 `json:"reward"`
}

// Publisher is a tracker.Tracker that snapshots its environment on
// every tracked timestep and publishes Frames for a view Server.
// Frames are dropped, never blocked on, when the consumer lags, so
// publishing never slows the experiment down.
type Publisher struct {
	env    *slam.Slam
	frames chan Frame
}

// NewPublisher returns a Publisher snapshotting e with the given
// frame buffer size
func NewPublisher(e *slam.Slam, buffer int) *Publisher {
	return &Publisher{env: e, frames: make(chan Frame, buffer)}
}

// Track publishes a Frame of the environment as it stands after the
// argument timestep
func (p *Publisher) Track(t ts.TimeStep) {
	cells := p.env.BeliefSnapshot()
	view := make([][]int, len(cells))
	for i, row := range cells {
		view[i] = make([]int, len(row))
		for j, c := range row {
			view[i][j] = int(c)
		}
	}

	pose := p.env.Pose()
	frame := Frame{
		Cells:    view,
		Row:      pose.Row,
		Col:      pose.Col,
		Facing:   int(pose.Facing),
		Coverage: p.env.Coverage(),
		Step:     t.Number,
		Reward:   t.Reward,
	}

	select {
	case p.frames <- frame:
	default: // drop the frame rather than stall the experiment
	}
}

// Save implements tracker.Tracker; a Publisher persists nothing
func (p *Publisher) Save() {}

// Frames returns the channel of published frames
func (p *Publisher) Frames() <-chan Frame {
	return p.frames
}

// Server pushes published Frames to connected browsers
type Server struct {
	addr   string
	frames <-chan Frame
	done   <-chan struct{}

	mu   sync.RWMutex
	last Frame
	seen bool
}

// New returns a Server listening on addr and serving the frames
// channel until done is closed
func New(addr string, frames <-chan Frame, done <-chan struct{}) *Server {
	return &Server{addr: addr, frames: frames, done: done}
}

// Serve consumes frames and serves the view page and its websocket.
// It blocks until the underlying listener fails.
func (s *Server) Serve() error {
	go s.consume()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.servePage)
	mux.HandleFunc("/ws", s.serveWebsocket)
	return http.ListenAndServe(s.addr, mux)
}

// consume keeps the most recent frame for newly connecting peers and
// slow consumers
func (s *Server) consume() {
	for frame := range channerics.OrDone(s.done, s.frames) {
		s.mu.Lock()
		s.last = frame
		s.seen = true
		s.mu.Unlock()
	}
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if err := page.Execute(w, nil); err != nil {
		log.Printf("serve page: %v", err)
	}
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("serve websocket: upgrade: %v", err)
		return
	}
	defer conn.Close()

	for range channerics.NewTicker(s.done, framePeriod) {
		s.mu.RLock()
		frame, seen := s.last, s.seen
		s.mu.RUnlock()
		if !seen {
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
	}
}

var page = template.Must(template.New("view").Parse(`<!DOCTYPE html>
<html>
<head><title>goslam live view</title></head>
<body style="background:#222;color:#ddd;font-family:monospace">
<div id="status">connecting...</div>
<canvas id="view" width="640" height="640"></canvas>
<script>
const colors = {"-1": "#595959", "0": "#ffffff", "1": "#0d0d0d"};
const headings = [[0, 1], [-1, 0], [0, -1], [1, 0]]; // E, N, W, S
const canvas = document.getElementById("view");
const ctx = canvas.getContext("2d");
const status = document.getElementById("status");

const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (event) => {
	const f = JSON.parse(event.data);
	const rows = f.cells.length, cols = f.cells[0].length;
	const size = Math.floor(Math.min(canvas.width / cols, canvas.height / rows));
	for (let r = 0; r < rows; r++) {
		for (let c = 0; c < cols; c++) {
			ctx.fillStyle = colors[f.cells[r][c]];
			ctx.fillRect(c * size, r * size, size, size);
		}
	}
	const cx = (f.col + 0.5) * size, cy = (f.row + 0.5) * size;
	ctx.fillStyle = "#d92626";
	ctx.beginPath();
	ctx.arc(cx, cy, size * 0.35, 0, 2 * Math.PI);
	ctx.fill();
	const d = headings[f.facing];
	ctx.strokeStyle = "#d92626";
	ctx.lineWidth = Math.max(1, size * 0.1);
	ctx.beginPath();
	ctx.moveTo(cx, cy);
	ctx.lineTo(cx + d[1] * size * 0.45, cy + d[0] * size * 0.45);
	ctx.stroke();
	status.textContent = "step " + f.step +
		" | coverage " + (f.coverage * 100).toFixed(1) + "%" +
		" | reward " + f.reward.toFixed(2);
};
ws.onclose = () => { status.textContent = "disconnected"; };
</script>
</body>
</html>
`))
