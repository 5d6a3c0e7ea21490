package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glab/space-reservation/internal/booking"
	appmw "github.com/glab/space-reservation/internal/middleware"
	"github.com/glab/space-reservation/internal/queue"
)

// EventPublisher sends reservation events to the broker. Publishing is
// fire-and-forget: a broker outage never fails a booking.
type EventPublisher interface {
	PublishReservationEvent(event queue.ReservationEvent) error
}

// ReservationHandler exposes the four service operations over HTTP:
// reserve, cancel, grid and my-reservations. Identity comes from the
// JWT middleware; the handler only translates between HTTP and the
// booking sentinels.
type ReservationHandler struct {
	Svc       *booking.Service
	Publisher EventPublisher // nil disables event publishing
}

func NewReservationHandler(svc *booking.Service, pub EventPublisher) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc, Publisher: pub}
}

type cellReq struct {
	Space string `json:"space"`
	Slot  string `json:"slot"`
}

type cellResp struct {
	Space string `json:"space"`
	Slot  string `json:"slot"`
}

// Reserve handles POST /v1/reserve.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	user := appmw.CurrentUser(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	key, err := h.bindKey(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Svc.Reserve(c.Request().Context(), user, key); err != nil {
		switch {
		case errors.Is(err, booking.ErrSlotTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot already booked"})
		case errors.Is(err, booking.ErrQuotaExceeded):
			return c.JSON(http.StatusConflict, echo.Map{"error": "daily quota exceeded"})
		case errors.Is(err, booking.ErrPersistence):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, retry"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reserve failed"})
		}
	}
	h.publish("reserved", user, key)
	return c.JSON(http.StatusCreated, cellResp{Space: string(key.Space), Slot: key.Slot.Label()})
}

// Cancel handles POST /v1/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	user := appmw.CurrentUser(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	key, err := h.bindKey(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Svc.Cancel(c.Request().Context(), user, key); err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no reservation for that slot"})
		case errors.Is(err, booking.ErrNotOwner):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "reservation belongs to another user"})
		case errors.Is(err, booking.ErrPersistence):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, retry"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
		}
	}
	h.publish("cancelled", user, key)
	return c.JSON(http.StatusOK, cellResp{Space: string(key.Space), Slot: key.Slot.Label()})
}

// gridCell is one rendered cell of the occupancy grid. Owner is empty
// for free cells; the UI derives own-vs-other by comparing usernames.
type gridCell struct {
	Space string `json:"space"`
	Slot  string `json:"slot"`
	Owner string `json:"owner,omitempty"`
	Free  bool   `json:"free"`
}

type gridResp struct {
	Date   string     `json:"date"`
	Spaces []string   `json:"spaces"`
	Slots  []string   `json:"slots"`
	Cells  []gridCell `json:"cells"`
}

// Grid handles GET /v1/grid. It is public: the grid renders for guests
// exactly as it does for logged-in users.
func (h *ReservationHandler) Grid(c echo.Context) error {
	g, err := h.Svc.Grid(c.Request().Context())
	if err != nil {
		if errors.Is(err, booking.ErrPersistence) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "grid failed"})
	}

	resp := gridResp{Date: time.Now().Format("2006-01-02")}
	for _, sp := range g.Spaces {
		resp.Spaces = append(resp.Spaces, string(sp))
	}
	for _, sl := range g.Slots {
		resp.Slots = append(resp.Slots, sl.Label())
	}
	for _, sl := range g.Slots {
		for _, sp := range g.Spaces {
			key := booking.Key{Space: sp, Slot: sl}
			owner, ok := g.Owner(key)
			resp.Cells = append(resp.Cells, gridCell{
				Space: string(sp),
				Slot:  sl.Label(),
				Owner: owner,
				Free:  !ok,
			})
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Mine handles GET /v1/reservations, returning the caller's cells. Any
// user query parameter is ignored; the JWT subject decides whose
// bookings are listed.
func (h *ReservationHandler) Mine(c echo.Context) error {
	user := appmw.CurrentUser(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	keys, err := h.Svc.Reservations(c.Request().Context(), user)
	if err != nil {
		if errors.Is(err, booking.ErrPersistence) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}

	out := make([]cellResp, 0, len(keys))
	for _, k := range keys {
		out = append(out, cellResp{Space: string(k.Space), Slot: k.Slot.Label()})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

func (h *ReservationHandler) bindKey(c echo.Context) (booking.Key, error) {
	var req cellReq
	if err := c.Bind(&req); err != nil {
		return booking.Key{}, errors.New("invalid body")
	}
	space, err := booking.ParseSpace(req.Space, h.Svc.Spaces())
	if err != nil {
		return booking.Key{}, err
	}
	slot, err := booking.ParseSlot(req.Slot)
	if err != nil {
		return booking.Key{}, err
	}
	return booking.Key{Space: space, Slot: slot}, nil
}

func (h *ReservationHandler) publish(action, user string, key booking.Key) {
	if h.Publisher == nil {
		return
	}
	event := queue.ReservationEvent{
		Action:   action,
		Username: user,
		Space:    string(key.Space),
		Slot:     key.Slot.Label(),
		Date:     time.Now().Format("2006-01-02"),
		At:       time.Now().UTC().Format(time.RFC3339),
	}
	// Broker trouble is the publisher's problem to log, not the caller's.
	go func() { _ = h.Publisher.PublishReservationEvent(event) }()
}
