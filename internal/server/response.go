package server

import (
	"encoding/json"
	"net/http"

	charmlog "github.com/charmbracelet/log"

	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/layout"
	"github.com/matzehuels/panegrid/pkg/session"
)

// renderResponse is the full response shape shared by session, render
// and edit endpoints.
type renderResponse struct {
	Token   string          `json:"token"`
	SVG     string          `json:"svg"`
	Layout  json.RawMessage `json:"layout"`
	FigSize [2]float64      `json:"figsize"`
	Inverse []layout.Change `json:"inverse,omitempty"`
}

func newRenderResponse(sess *session.Session, svg string) (*renderResponse, error) {
	raw, err := layout.MarshalElement(sess.State.Layout)
	if err != nil {
		return nil, err
	}
	return &renderResponse{
		Token:   sess.Token(),
		SVG:     svg,
		Layout:  raw,
		FigSize: sess.State.FigSize,
	}, nil
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// statusFor maps engine error codes onto HTTP statuses. Geometric and
// structural rejections are the user's to fix; internal invariant
// violations are ours.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeUnauthorized, errors.ErrCodeSessionNotFound, errors.ErrCodeSessionExpired:
		return http.StatusUnauthorized
	case errors.ErrCodeProducerNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidPath, errors.ErrCodeInvalidRatios, errors.ErrCodeInvalidEdit,
		errors.ErrCodeInvalidLayout, errors.ErrCodeInvalidGeometry, errors.ErrCodeNoopEdit,
		errors.ErrCodeMergeFailed, errors.ErrCodeNonGuillotine:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		charmlog.Error("encoding response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		charmlog.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: string(code), Error: errors.UserMessage(err)})
}
