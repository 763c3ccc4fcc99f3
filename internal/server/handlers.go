package server

import (
	"context"
	"net/http"
	"strconv"

	"elysoir/storefront/internal/domain"
	"elysoir/storefront/internal/service"
	"elysoir/storefront/internal/session"
	"elysoir/storefront/internal/state"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type handlers struct {
	catalog  Catalog
	sessions *session.Manager
}

type sessionKey struct{}

func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey{}).(*session.Session)
	return s
}

func (h *handlers) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
	})
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type catalogResponse struct {
	Loading bool `json:"loading"`
	*service.Snapshot
}

func (h *handlers) catalogSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{
		Loading:  h.catalog.Loading(),
		Snapshot: h.catalog.Snapshot(),
	})
}

type syncResponse struct {
	Catalog catalogResponse   `json:"catalog"`
	Report  *state.SyncReport `json:"report,omitempty"`
}

// sync runs detached from the request so a client hanging up does not end
// the cycle halfway.
func (h *handlers) sync(w http.ResponseWriter, r *http.Request) {
	snap := h.catalog.Refresh(context.WithoutCancel(r.Context()))

	report, err := h.catalog.LastReport(r.Context())
	if err != nil {
		log.Warnf("⚠️ Sync report unavailable: %v", err)
	}

	writeJSON(w, http.StatusOK, syncResponse{
		Catalog: catalogResponse{Loading: h.catalog.Loading(), Snapshot: snap},
		Report:  report,
	})
}

func (h *handlers) createSession(w http.ResponseWriter, _ *http.Request) {
	s := h.sessions.Create()
	writeJSON(w, http.StatusCreated, s.View())
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).View())
}

func (h *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(sessionFrom(r.Context()).ID())
	w.WriteHeader(http.StatusNoContent)
}

type anchorRequest struct {
	Anchor string `json:"anchor"`
}

func (h *handlers) navigateHome(w http.ResponseWriter, r *http.Request) {
	var req anchorRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).NavigateHome(req.Anchor))
}

type categoryRequest struct {
	Category string `json:"category"`
}

func (h *handlers) setFilter(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := sessionFrom(r.Context()).SetHomeFilter(req.Category)
	respond(w, res, err)
}

func (h *handlers) selectCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).SelectCategory(req.Category))
}

func (h *handlers) selectProduct(w http.ResponseWriter, r *http.Request) {
	res, err := sessionFrom(r.Context()).SelectProduct(chi.URLParam(r, "productID"))
	respond(w, res, err)
}

func (h *handlers) selectArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "articleID"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "article id must be a number")
		return
	}
	res, err := sessionFrom(r.Context()).SelectArticle(id)
	respond(w, res, err)
}

func (h *handlers) back(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).Back())
}

type optionRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (h *handlers) selectOption(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := sessionFrom(r.Context()).SelectOption(req.Name, req.Value)
	respond(w, v, err)
}

func (h *handlers) addToCart(w http.ResponseWriter, r *http.Request) {
	v, err := sessionFrom(r.Context()).AddToCart()
	respond(w, v, err)
}

func (h *handlers) removeFromCart(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "cart index must be a number")
		return
	}
	v, err := sessionFrom(r.Context()).RemoveFromCart(index)
	respond(w, v, err)
}

func (h *handlers) openCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).OpenCart())
}

func (h *handlers) closeCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).CloseCart())
}

func (h *handlers) beginCheckout(w http.ResponseWriter, r *http.Request) {
	res, err := sessionFrom(r.Context()).BeginCheckout()
	respond(w, res, err)
}

func (h *handlers) checkoutURL(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"url": sessionFrom(r.Context()).CheckoutURL()})
}

type askRequest struct {
	Message string `json:"message"`
}

type transcriptResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}

func (h *handlers) transcript(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, transcriptResponse{Messages: sessionFrom(r.Context()).Transcript()})
}

func (h *handlers) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decode(w, r, &req) {
		return
	}
	chat, err := sessionFrom(r.Context()).Ask(r.Context(), req.Message)
	respond(w, transcriptResponse{Messages: chat}, err)
}
