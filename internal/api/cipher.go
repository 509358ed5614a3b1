package api

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/RowanDark/transcode/internal/cipher"
	"github.com/RowanDark/transcode/internal/metrics"
)

// ConvertRequest asks for the input to be run through every codec.
type ConvertRequest struct {
	Input    string `json:"input"`
	LineMode *bool  `json:"line_mode,omitempty"`
}

// TransformRequest asks for a single codec.
type TransformRequest struct {
	Codec    string `json:"codec"`
	Input    string `json:"input"`
	LineMode *bool  `json:"line_mode,omitempty"`
}

// TransformResponse is the outcome of a single codec.
type TransformResponse struct {
	Codec  string        `json:"codec"`
	Result cipher.Result `json:"result"`
}

// ChainRequest asks for a list of codecs applied in order.
type ChainRequest struct {
	Steps    []string `json:"steps"`
	Input    string   `json:"input"`
	LineMode *bool    `json:"line_mode,omitempty"`
	Reverse  bool     `json:"reverse,omitempty"`
}

// ChainResponse reports the steps actually run and the final result.
type ChainResponse struct {
	Steps  []string      `json:"steps"`
	Result cipher.Result `json:"result"`
}

// CodecListResponse lists the registry in display order.
type CodecListResponse struct {
	Encoders []cipher.Codec `json:"encoders"`
	Decoders []cipher.Codec `json:"decoders"`
}

func (s *Server) lineMode(requested *bool) bool {
	if requested == nil {
		return s.cfg.LineMode
	}
	return *requested
}

func (s *Server) handleListCodecs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, CodecListResponse{
		Encoders: cipher.Encoders(),
		Decoders: cipher.Decoders(),
	})
}

// handleConvert runs every codec. Individual codec failures are part of the
// report, so the status is always 200 for a well-formed request.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	report := cipher.Convert(req.Input, s.lineMode(req.LineMode))
	for _, o := range append(report.Decoded, report.Encoded...) {
		recordResult(o.ID, o.Result)
	}
	s.logger.Debug("convert",
		zap.Int("input_bytes", len(req.Input)),
		zap.Bool("line_mode", report.LineMode),
		zap.Int("failures", report.Failures()),
	)
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Codec) == "" {
		http.Error(w, "codec field is required", http.StatusBadRequest)
		return
	}
	codec, ok := cipher.Lookup(req.Codec)
	if !ok {
		http.Error(w, "unknown codec: "+req.Codec, http.StatusBadRequest)
		return
	}

	res := codec.Apply(req.Input, s.lineMode(req.LineMode))
	recordResult(codec.ID, res)
	status := http.StatusOK
	if !res.OK() {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, TransformResponse{Codec: codec.ID, Result: res})
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	var req ChainRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if len(req.Steps) == 0 {
		http.Error(w, "steps field is required and must not be empty", http.StatusBadRequest)
		return
	}

	chain := cipher.Chain{Steps: req.Steps}
	if req.Reverse {
		reversed, err := chain.Reverse()
		if err != nil {
			s.writeChainError(w, err)
			return
		}
		chain = reversed
	}

	res, err := chain.Apply(req.Input, s.lineMode(req.LineMode))
	if err != nil {
		s.writeChainError(w, err)
		return
	}
	recordResult("chain", res)
	status := http.StatusOK
	if !res.OK() {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, ChainResponse{Steps: chain.Steps, Result: res})
}

func (s *Server) writeChainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cipher.ErrUnknownCodec), errors.Is(err, cipher.ErrNotReversible):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func recordResult(codec string, res cipher.Result) {
	kind := ""
	if e := res.Err(); e != nil {
		kind = string(e.Kind)
	}
	metrics.RecordCodecResult(codec, res.OK(), kind)
}
