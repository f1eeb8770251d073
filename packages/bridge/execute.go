package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apihttp "github.com/abdul-hamid-achik/apidesk/packages/http"
	"github.com/abdul-hamid-achik/apidesk/packages/observability"
)

// Error kinds reported by the bridge. "request" means the call itself could
// not be decoded and never reached the executor.
const (
	KindRequest    = "request"
	KindValidation = "validation"
	KindTransport  = "transport"
)

type executeRequest struct {
	apihttp.Request
	TimeoutMs int64 `json:"timeout_ms,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Kind: kind, Message: message}})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set(InvocationHeader, id)
	log := s.logger.With().Str("invocation", id).Logger()

	var body executeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Debug().Int64("limit", tooLarge.Limit).Msg("execute call too large")
			writeError(w, http.StatusRequestEntityTooLarge, KindRequest, fmt.Sprintf("request exceeds %d bytes", tooLarge.Limit))
			return
		}
		log.Debug().Err(err).Msg("undecodable execute call")
		writeError(w, http.StatusBadRequest, KindRequest, "invalid JSON: "+err.Error())
		return
	}
	if body.TimeoutMs < 0 {
		writeError(w, http.StatusBadRequest, KindRequest, "timeout_ms must not be negative")
		return
	}

	req := body.Request
	req.Timeout = time.Duration(body.TimeoutMs) * time.Millisecond

	start := time.Now()
	resp, err := s.executor.Execute(r.Context(), &req)
	elapsed := time.Since(start)

	label := metricMethod(req.Method)
	if err != nil {
		switch apihttp.KindOf(err) {
		case apihttp.KindValidation:
			s.metrics.Observe(label, observability.OutcomeValidation, elapsed)
			log.Info().Str("method", req.Method).Msg("rejected request")
			writeError(w, http.StatusUnprocessableEntity, KindValidation, err.Error())
		default:
			s.metrics.Observe(label, observability.OutcomeTransport, elapsed)
			log.Warn().Str("method", label).Str("url", req.URL).Err(err).Msg("request failed")
			writeError(w, http.StatusBadGateway, KindTransport, err.Error())
		}
		return
	}

	s.metrics.Observe(label, observability.OutcomeOK, time.Duration(resp.TimeMs)*time.Millisecond)
	log.Info().
		Str("method", label).
		Str("url", req.URL).
		Int("status", resp.Status).
		Int64("time_ms", resp.TimeMs).
		Int("size_bytes", resp.SizeBytes).
		Msg("request executed")

	writeJSON(w, http.StatusOK, resp)
}

// metricMethod keeps label cardinality bounded to the supported methods.
func metricMethod(method string) string {
	upper := strings.ToUpper(method)
	for _, m := range apihttp.SupportedMethods() {
		if upper == m {
			return m
		}
	}
	return "OTHER"
}
