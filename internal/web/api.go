// pattern: Imperative Shell

package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"logfake/internal/config"
	"logfake/internal/logfake"
	"logfake/internal/logging"
)

// CheckResponse is the body of GET /api/check.
type CheckResponse struct {
	OK       bool     `json:"ok"`
	Channel  string   `json:"channel"`
	Failures []string `json:"failures"`
}

// collector gathers assertion failures for one request.
type collector struct {
	failures []string
}

func (c *collector) Errorf(format string, args ...any) {
	c.failures = append(c.failures, logfake.FailureText(fmt.Sprintf(format, args...)))
}

func (c *collector) FailNow() {}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleEntries handles GET /api/entries?channel=<prefix>.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := logging.ReadLogFile(s.path)
	if err != nil {
		s.logger.Error("failed to read log file", "path", s.path, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read log file")
		return
	}

	prefix := r.URL.Query().Get("channel")
	out := make([]logging.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e.MatchesChannel(prefix) {
			out = append(out, e)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// parseCheck builds a check from query parameters named like the CLI flags.
func parseCheck(r *http.Request) (logfake.Check, error) {
	q := r.URL.Query()
	check := logfake.Check{
		Channel: q.Get("channel"),
		Level:   logging.LevelInfo,
		Message: q.Get("message"),
		Times:   -1,
	}

	if v := q.Get("level"); v != "" {
		level, ok := logging.LookupLevel(v)
		if !ok {
			return check, fmt.Errorf("unknown level %q", v)
		}
		check.Level = level
	}
	if v := q.Get("times"); v != "" {
		times, err := strconv.Atoi(v)
		if err != nil || times < 0 {
			return check, fmt.Errorf("invalid times %q", v)
		}
		check.Times = times
	}
	for name, dst := range map[string]*bool{"absent": &check.Absent, "nothing": &check.Nothing} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return check, fmt.Errorf("invalid %s %q", name, v)
			}
			*dst = b
		}
	}
	return check, check.Validate()
}

// handleCheck handles GET /api/check.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	check, err := parseCheck(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := logging.ReadLogFile(s.path)
	if err != nil {
		s.logger.Error("failed to read log file", "path", s.path, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read log file")
		return
	}

	c := &collector{}
	repo := config.NewRepository(map[string]any{
		"logging": map[string]any{"default": channelOrDefault(s.defaultChannel)},
	})
	store := logfake.New(c, logfake.WithConfig(repo))
	store.Replay(entries)

	ok := check.Run(store)
	resp := CheckResponse{
		OK:       ok && len(c.failures) == 0,
		Channel:  store.Channel(check.Channel).Name(),
		Failures: c.failures,
	}
	if resp.Failures == nil {
		resp.Failures = []string{}
	}
	s.logger.Debug("check served", "channel", resp.Channel, "ok", resp.OK)
	writeJSON(w, http.StatusOK, resp)
}

func channelOrDefault(name string) string {
	if name == "" {
		return logging.DefaultChannel
	}
	return name
}
