package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ssbwatch/internal/channel"
	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/logger"
	"github.com/osse101/ssbwatch/internal/statuscache"
)

// ChannelHandlers serves channel status reads
type ChannelHandlers struct {
	service channel.Service
	store   statuscache.Store
	maxAge  time.Duration
	now     func() time.Time
}

// NewChannelHandlers creates the channel handlers. Snapshots older than
// maxAge are refetched; a non-positive maxAge uses DefaultSnapshotMaxAge.
func NewChannelHandlers(service channel.Service, store statuscache.Store, maxAge time.Duration) *ChannelHandlers {
	if maxAge <= 0 {
		maxAge = DefaultSnapshotMaxAge
	}
	return &ChannelHandlers{service: service, store: store, maxAge: maxAge, now: time.Now}
}

// fresh reports whether a snapshot was observed within the poll cadence
func (h *ChannelHandlers) fresh(snap domain.ChannelStatus) bool {
	if snap.FetchedAt.IsZero() {
		return false
	}
	return h.now().Sub(snap.FetchedAt) <= h.maxAge
}

// HandleGetChannel polls one handle. Upstream failures come back as the
// degraded offline status, so this always answers 200 for a valid handle.
// @Summary Channel status
// @Description Live status of a Kick channel, falling back to an offline placeholder
// @Tags channels
// @Produce json
// @Param handle path string true "Channel handle"
// @Success 200 {object} domain.ChannelStatus
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/channels/{handle} [get]
func (h *ChannelHandlers) HandleGetChannel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := chi.URLParam(r, "handle")
		if err := GetValidator().ValidateVar(handle, "required,handle"); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidHandle)
			return
		}

		status := h.service.Status(r.Context(), handle)
		if r.Context().Err() == nil {
			h.remember(r, status)
		}
		respondJSON(w, http.StatusOK, status)
	}
}

// HandleGetClips proxies a channel's clip listing. Upstream failures come
// back as {"clips": []} so the page never breaks on clips.
// @Summary Channel clips
// @Tags channels
// @Produce json
// @Param handle path string true "Channel handle"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/channels/{handle}/clips [get]
func (h *ChannelHandlers) HandleGetClips() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := chi.URLParam(r, "handle")
		if err := GetValidator().ValidateVar(handle, "required,handle"); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidHandle)
			return
		}
		respondJSON(w, http.StatusOK, h.service.Clips(r.Context(), handle))
	}
}

// HandleListChannels returns snapshots for several handles, polling the
// ones without a snapshot taken within the poll interval.
// @Summary Channel statuses
// @Tags channels
// @Produce json
// @Param handles query string true "Comma separated handles"
// @Success 200 {array} domain.ChannelStatus
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/channels [get]
func (h *ChannelHandlers) HandleListChannels() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := GetQueryParam(r, w, "handles")
		if !ok {
			return
		}
		handles, ok := parseHandles(w, raw)
		if !ok {
			return
		}

		log := logger.FromContext(r.Context())
		out := make([]domain.ChannelStatus, len(handles))
		var missing []int
		for i, handle := range handles {
			snap, found, err := h.store.Get(r.Context(), handle)
			if err != nil {
				log.Warn(LogMsgSnapshotStoreErr, "handle", handle, "error", err)
			}
			if found && h.fresh(snap) {
				out[i] = snap
				continue
			}
			missing = append(missing, i)
		}

		if len(missing) > 0 {
			toFetch := make([]string, len(missing))
			for j, i := range missing {
				toFetch[j] = handles[i]
			}
			log.Debug(LogMsgSnapshotFallback, "handles", toFetch)
			fetched := h.service.Statuses(r.Context(), toFetch...)
			for j, i := range missing {
				out[i] = fetched[j]
				if r.Context().Err() == nil {
					h.remember(r, fetched[j])
				}
			}
		}

		respondJSON(w, http.StatusOK, out)
	}
}

func (h *ChannelHandlers) remember(r *http.Request, status domain.ChannelStatus) {
	if err := h.store.Put(r.Context(), status); err != nil {
		logger.FromContext(r.Context()).Warn(LogMsgSnapshotStoreErr, "handle", status.Handle, "error", err)
	}
}

// parseHandles splits, validates and de-duplicates a handle list
func parseHandles(w http.ResponseWriter, raw string) ([]string, bool) {
	seen := make(map[string]bool)
	var handles []string
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if err := GetValidator().ValidateVar(part, "handle"); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidHandle)
			return nil, false
		}
		h := domain.NormalizeHandle(part)
		if seen[h] {
			continue
		}
		seen[h] = true
		handles = append(handles, h)
	}
	if len(handles) == 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidHandle)
		return nil, false
	}
	if len(handles) > MaxHandlesPerRequest {
		respondError(w, http.StatusBadRequest, ErrMsgTooManyHandlesText)
		return nil, false
	}
	return handles, true
}
