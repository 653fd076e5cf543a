// Package listfix serves the list repair engine over HTTP.
package listfix

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/dpotapov/go-listfix/conformance"
	"github.com/dpotapov/go-listfix/lists"
)

// DefaultMaxBodyBytes is the request body limit used when Handler.MaxBodyBytes is not set.
const DefaultMaxBodyBytes = 1 << 20

// wsUpgrader is a Gorilla WebSocket instance, used to respond HTTP requests with WebSocket.
var wsUpgrader = websocket.Upgrader{}

// Handler serves list repair over HTTP:
//
//	POST /repair        repair the fragment in the request body
//	GET  /live          repair every fragment sent over a websocket
//	GET  /conformance   run the fixture suites and report the results
type Handler struct {
	// Strict runs every repair in strict mode, see lists.Options.
	Strict bool

	// MaxBodyBytes limits request bodies and websocket messages. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Suites are run by /conformance. If not set, the embedded corpus is used.
	Suites []*conformance.Suite

	// OnError is a callback that is called when an error occurs while serving a request.
	OnError func(*http.Request, error)

	// Logger configures logging for internal events.
	Logger *slog.Logger

	// init is used to initialize the handler only once.
	init sync.Once

	// logger is a private logger instance that is used to log internal events.
	logger *slog.Logger

	router chi.Router
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.init.Do(func() {
		h.logger = slog.New(slog.DiscardHandler)
		if h.Logger != nil {
			h.logger = h.Logger
		}

		if h.Suites == nil {
			h.Suites = conformance.Builtin()
		}

		rt := chi.NewRouter()
		rt.Use(middleware.Recoverer)
		rt.Post("/repair", h.handle(h.serveRepair))
		rt.Get("/live", h.handle(h.serveLive))
		rt.Get("/conformance", h.handle(h.serveConformance))
		h.router = rt
	})

	h.router.ServeHTTP(w, r)
}

// statusError carries the HTTP status a failed request is answered with. A zero code means the
// response has already been written.
type statusError struct {
	code int
	err  error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func withStatus(code int, err error) error {
	return &statusError{code: code, err: err}
}

// handle adapts a handler that returns an error to an http.HandlerFunc.
func (h *Handler) handle(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		code := http.StatusInternalServerError
		var se *statusError
		if errors.As(err, &se) {
			code = se.code
		}

		switch {
		case code == 0:
		case code < http.StatusInternalServerError:
			http.Error(w, err.Error(), code)
		default:
			http.Error(w, http.StatusText(code), code)
		}

		if code >= http.StatusInternalServerError || code == 0 {
			h.logger.Error("Serve HTTP request", "url", r.URL.Redacted(), "error", err)
		} else {
			h.logger.Info("Reject HTTP request", "url", r.URL.Redacted(), "status", code, "error", err)
		}

		if h.OnError != nil {
			h.OnError(r, err)
		}
	}
}

func (h *Handler) maxBodyBytes() int64 {
	if h.MaxBodyBytes > 0 {
		return h.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}

func (h *Handler) repair(src string, strict bool) *lists.Result {
	return lists.RepairFragment(src, &lists.Options{
		Strict: h.Strict || strict,
		Logger: h.logger,
	})
}

func (h *Handler) serveRepair(w http.ResponseWriter, r *http.Request) error {
	req, err := readRepairRequest(w, r, h.maxBodyBytes())
	if err != nil {
		return err
	}

	res := h.repair(req.HTML, req.Strict)
	h.logger.Debug("Repair fragment", "bytes", len(req.HTML), "fixes", len(res.Fixes))

	if req.json || acceptsJSON(r) {
		return writeJSON(w, newRepairReply(res))
	}
	if res.Err != nil {
		return withStatus(http.StatusUnprocessableEntity, res.Err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Listfix-Fixes", strconv.Itoa(len(res.Fixes)))
	if _, err := io.WriteString(w, res.HTML); err != nil {
		return withStatus(0, fmt.Errorf("write response: %w", err))
	}
	return nil
}

// repairReply is the JSON form of a repair result. Error is set when the strict check failed.
type repairReply struct {
	*lists.Result
	Error string `json:"error,omitempty"`
}

func newRepairReply(res *lists.Result) *repairReply {
	reply := &repairReply{Result: res}
	if res.Err != nil {
		reply.Error = res.Err.Error()
	}
	return reply
}

// liveError is sent over the websocket in reply to a message that could not be decoded.
type liveError struct {
	Error string `json:"error"`
}

func (h *Handler) serveLive(w http.ResponseWriter, r *http.Request) error {
	if !websocket.IsWebSocketUpgrade(r) {
		return withStatus(http.StatusBadRequest, errors.New("websocket upgrade required"))
	}

	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has replied to the client already.
		return withStatus(0, fmt.Errorf("upgrade websocket: %w", err))
	}
	defer ws.Close()

	ws.SetReadLimit(h.maxBodyBytes())

	for {
		var req repairRequest
		err := ws.ReadJSON(&req)

		var reply any
		switch {
		case err == nil:
			reply = newRepairReply(h.repair(req.HTML, req.Strict))
		case isJSONError(err):
			reply = liveError{Error: err.Error()}
		case websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure):
			return nil
		default:
			return withStatus(0, fmt.Errorf("read websocket message: %w", err))
		}

		if err := ws.WriteJSON(reply); err != nil {
			return withStatus(0, fmt.Errorf("write websocket message: %w", err))
		}
	}
}

func (h *Handler) serveConformance(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	format := conformance.FormatJSON
	if s := q.Get("format"); s != "" {
		f, err := conformance.ParseFormat(s)
		if err != nil {
			return withStatus(http.StatusBadRequest, err)
		}
		format = f
	}

	filter, err := conformance.NewFilter(q.Get("where"))
	if err != nil {
		return withStatus(http.StatusBadRequest, err)
	}

	runner := &conformance.Runner{
		Repair: func(src string) string { return h.repair(src, false).HTML },
		Filter: filter,
		Logger: h.logger,
	}
	rep, err := runner.Run(r.Context(), h.Suites)
	if err != nil {
		return fmt.Errorf("run conformance suites: %w", err)
	}

	switch format {
	case conformance.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case conformance.FormatJUnit:
		w.Header().Set("Content-Type", "application/xml")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	if err := rep.Write(w, format, q.Has("v")); err != nil {
		return withStatus(0, fmt.Errorf("write report: %w", err))
	}
	return nil
}
