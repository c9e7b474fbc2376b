package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/duell/internal/app"
	"github.com/jaminalder/duell/internal/domain"
)

type handlers struct {
	svc *app.Service
	tpl *templates
}

func (h *handlers) renderBoard(gs app.GameState, errMsg, notice string) []byte {
	v := newBoardView(gs)
	v.Error, v.Notice = errMsg, notice
	return renderTemplate(h.tpl.board, "", v)
}

// writeBoard answers an htmx action with the board fragment. When the
// action failed the current state is shown with the error.
func (h *handlers) writeBoard(w http.ResponseWriter, r *http.Request, gs *app.GameState, err error, notice string) {
	var errMsg string
	if err != nil {
		errMsg = errorMessage(err)
	}
	if gs == nil || err != nil {
		if g, ok := h.svc.Get(chi.URLParam(r, "id")); ok {
			gs = g
		}
	}
	if gs == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, errMsg, notice))
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotYourTurn), errors.Is(err, domain.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, app.ErrNotAPlayer):
		return "You are a spectator"
	case errors.Is(err, app.ErrRoundInProgress):
		return "The round is still being played"
	case errors.Is(err, app.ErrNoStore):
		return "Saving is disabled on this server"
	case errors.Is(err, app.ErrSaveNotFound):
		return "No saved game found"
	case errors.Is(err, domain.ErrImpossibleBoard):
		return "That save holds a board no game can reach"
	case errors.Is(err, domain.ErrBadHeader), errors.Is(err, domain.ErrBadRow),
		errors.Is(err, domain.ErrBadDieToken), errors.Is(err, domain.ErrBadWinCount),
		errors.Is(err, domain.ErrBadNextPlayer):
		return "That is not a valid save file"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "Out of bounds"
	case errors.Is(err, domain.ErrNoDie):
		return "There is no die on that square"
	case errors.Is(err, domain.ErrNotYourDie):
		return "That die belongs to the computer"
	case errors.Is(err, domain.ErrIllegalMove):
		return "That die cannot reach that square"
	case errors.Is(err, domain.ErrOrderingUnavailable):
		return "The die cannot roll in that order"
	case errors.Is(err, domain.ErrGameOver):
		return "The round is over"
	case errors.Is(err, domain.ErrNoLegalMove):
		return "No legal move"
	default:
		return "Invalid request"
	}
}

// indexView feeds the landing page. Saves stays empty when the server
// runs without a store.
type indexView struct {
	Error string
	Saves []savedView
}

type savedView struct {
	ID      string
	SavedAt string
}

func (h *handlers) renderIndex(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	v := indexView{Error: errMsg}
	saves, err := h.svc.Saves(r.Context(), 0)
	if err != nil && !errors.Is(err, app.ErrNoStore) {
		log.Printf("web: list saves: %v", err)
	}
	for _, save := range saves {
		v.Saves = append(v.Saves, savedView{ID: save.GameID, SavedAt: save.SavedAt.Format(time.DateTime)})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(renderTemplate(h.tpl.index, "", v))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, http.StatusOK, "")
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

// importSave starts a game from pasted save file text.
func (h *handlers) importSave(w http.ResponseWriter, r *http.Request) {
	pid := ensurePlayerCookie(w, r)
	if err := r.ParseForm(); err != nil {
		h.renderIndex(w, r, http.StatusBadRequest, "Invalid request")
		return
	}
	gs, err := h.svc.Import(pid, r.Form.Get("save"))
	if err != nil {
		h.renderIndex(w, r, http.StatusBadRequest, errorMessage(err))
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

// load starts a game from a save in the store.
func (h *handlers) load(w http.ResponseWriter, r *http.Request) {
	pid := ensurePlayerCookie(w, r)
	if err := r.ParseForm(); err != nil {
		h.renderIndex(w, r, http.StatusBadRequest, "Invalid request")
		return
	}
	gs, err := h.svc.Load(r.Context(), strings.TrimSpace(r.Form.Get("save_id")), pid)
	switch {
	case errors.Is(err, app.ErrSaveNotFound):
		h.renderIndex(w, r, http.StatusNotFound, errorMessage(err))
		return
	case errors.Is(err, app.ErrNoStore):
		h.renderIndex(w, r, http.StatusConflict, errorMessage(err))
		return
	case err != nil:
		h.renderIndex(w, r, http.StatusBadRequest, errorMessage(err))
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	// ensure cookie and auto-claim seat
	pid := ensurePlayerCookie(w, r)
	_, _, _ = h.svc.Join(id, pid)

	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	data := struct {
		ID    string
		Board template.HTML
	}{ID: gs.ID, Board: template.HTML(h.renderBoard(*gs, "", ""))}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.game, "", data))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	_, gs, err := h.svc.Join(id, pid)
	if err != nil || gs == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, "", ""))
}

// parseMove reads the move form: fr, fc, tr, tc and an optional order.
func parseMove(r *http.Request) (domain.Move, error) {
	if err := r.ParseForm(); err != nil {
		return domain.Move{}, err
	}
	var vals [4]int
	for i, key := range []string{"fr", "fc", "tr", "tc"} {
		n, err := strconv.Atoi(strings.TrimSpace(r.Form.Get(key)))
		if err != nil {
			return domain.Move{}, fmt.Errorf("%s: %w", key, domain.ErrOutOfBounds)
		}
		vals[i] = n
	}
	m := domain.Move{
		From: domain.Pos{Row: vals[0], Col: vals[1]},
		To:   domain.Pos{Row: vals[2], Col: vals[3]},
	}
	switch r.Form.Get("order") {
	case "frontal":
		m.Ordering = domain.FrontalFirst
	case "lateral":
		m.Ordering = domain.LateralFirst
	}
	return m, nil
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	m, err := parseMove(r)
	var gs *app.GameState
	if err == nil {
		gs, err = h.svc.Play(id, pid, m)
	}
	h.writeBoard(w, r, gs, err, "")
}

func (h *handlers) help(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Recommend(chi.URLParam(r, "id"), ensurePlayerCookie(w, r))
	h.writeBoard(w, r, gs, err, "")
}

func (h *handlers) round(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.NewRound(chi.URLParam(r, "id"), ensurePlayerCookie(w, r))
	h.writeBoard(w, r, gs, err, "")
}

func (h *handlers) save(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Save(r.Context(), chi.URLParam(r, "id"), ensurePlayerCookie(w, r))
	var notice string
	if err == nil {
		notice = "Game saved."
	}
	h.writeBoard(w, r, nil, err, notice)
}

func (h *handlers) resume(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Resume(r.Context(), chi.URLParam(r, "id"), ensurePlayerCookie(w, r))
	var notice string
	if err == nil {
		notice = "Saved game restored."
	}
	h.writeBoard(w, r, gs, err, notice)
}

func (h *handlers) export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	text, err := h.svc.Export(id)
	if errors.Is(err, app.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, errorMessage(err), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "duell-"+id+".txt"))
	_, _ = io.WriteString(w, text)
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "board", b)
			flusher.Flush()
		}
	}
}

// writeEvent emits one SSE event. Every line of a multi-line payload gets
// its own data field.
func writeEvent(w io.Writer, name string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", name)
	for _, line := range strings.Split(string(payload), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}
