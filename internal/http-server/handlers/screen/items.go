package screen

import (
	"SchoolDesk/internal/http-server/handlers/errors"
	"SchoolDesk/internal/lib/access"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// maxBody bounds create and update payloads.
const maxBody = 1 << 20

func allowed(w http.ResponseWriter, r *http.Request, req *request, verb access.Action) bool {
	action := access.WriteAction(chi.URLParam(r, "resource"), verb)
	if !access.Can(action, req.session.User.Role) {
		req.logger.Debug("write forbidden",
			slog.String("action", string(action)),
			slog.String("role", req.session.User.Role),
		)
		errors.Forbidden(w, r)
		return false
	}
	return true
}

// readPayload accepts a JSON object only.
func readPayload(r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	body = bytes.TrimSpace(body)
	if err != nil || len(body) == 0 || body[0] != '{' || !json.Valid(body) {
		return nil, false
	}
	return body, true
}

func itemID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := open(w, r, log, handler)
		if !ok || !allowed(w, r, req, access.Create) {
			return
		}
		payload, ok := readPayload(r)
		if !ok {
			errors.BadRequest(w, r, "Invalid request body")
			return
		}
		v, err := req.controller.Create(r.Context(), payload)
		req.answer(w, r, v, err, "Failed to save")
	}
}

func Update(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := open(w, r, log, handler)
		if !ok || !allowed(w, r, req, access.Update) {
			return
		}
		id, ok := itemID(r)
		if !ok {
			errors.BadRequest(w, r, "Invalid id")
			return
		}
		payload, ok := readPayload(r)
		if !ok {
			errors.BadRequest(w, r, "Invalid request body")
			return
		}
		v, err := req.controller.Update(r.Context(), id, payload)
		req.answer(w, r, v, err, "Failed to save")
	}
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := open(w, r, log, handler)
		if !ok || !allowed(w, r, req, access.Delete) {
			return
		}
		id, ok := itemID(r)
		if !ok {
			errors.BadRequest(w, r, "Invalid id")
			return
		}
		v, err := req.controller.Delete(r.Context(), id)
		req.answer(w, r, v, err, "Failed to delete")
	}
}
