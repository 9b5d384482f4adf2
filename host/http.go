package host

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const maxBodySize = 64 << 10

// RegisterHandlers exposes the in-memory host over HTTP so an external process
// (usually the host application's own scripting) can feed log lines and telemetry
// and collect the latest command.
func RegisterHandlers(mux *http.ServeMux, mem *Memory, slot *Slot) {
	mux.HandleFunc("PUT /host/log", func(w http.ResponseWriter, r *http.Request) {
		line, ok := readBody(w, r)
		if !ok {
			return
		}

		mem.SetLogLine(line)
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /host/telemetry", func(w http.ResponseWriter, r *http.Request) {
		out := make(map[string]any)

		for _, path := range mem.Paths() {
			if v, ok := mem.Value(path); ok {
				out[path] = v
			}
		}

		writeJSON(w, out)
	})

	mux.HandleFunc("PUT /host/telemetry/{path}", func(w http.ResponseWriter, r *http.Request) {
		value, ok := readBody(w, r)
		if !ok {
			return
		}

		mem.Set(r.PathValue("path"), value)
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("DELETE /host/telemetry/{path}", func(w http.ResponseWriter, r *http.Request) {
		mem.Delete(r.PathValue("path"))
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /host/command", func(w http.ResponseWriter, r *http.Request) {
		var cmd string
		var ok bool

		if peek, _ := strconv.ParseBool(r.URL.Query().Get("peek")); peek {
			var seq uint64
			cmd, seq = slot.Peek()
			ok = seq > 0
		} else {
			cmd, ok = slot.Take()
		}

		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, cmd)
	})
}

func readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		log.Debug().Err(err).Str("Path", r.URL.Path).Msg("host: failed to read request body")
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return "", false
	}

	return strings.TrimRight(string(body), "\r\n"), true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("host: failed to encode response")
	}
}
