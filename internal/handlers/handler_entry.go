package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// entryHandler handles posting, retrieval and reversal of journal entries.
type entryHandler struct {
	postingService  portssvc.PostingSvc
	reversalService portssvc.ReversalSvc
}

func newEntryHandler(ps portssvc.PostingSvc, rs portssvc.ReversalSvc) *entryHandler {
	return &entryHandler{
		postingService:  ps,
		reversalService: rs,
	}
}

// registerEntryRoutes registers routes related to journal entries.
func registerEntryRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvc, reversalService portssvc.ReversalSvc, writeGuards ...gin.HandlerFunc) {
	h := newEntryHandler(postingService, reversalService)

	entries := rg.Group("/entries")
	{
		entries.GET("/:entryID", h.getEntry)
		entries.POST("", guarded(writeGuards, h.postEntry)...)
		entries.POST("/:entryID/reverse", guarded(writeGuards, h.reverseEntry)...)
	}
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Validates a draft entry and commits it with the next sequence number. Rejections carry a kind and reason.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Draft entry"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed draft"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Caller may not post entries"
// @Failure 422 {object} dto.ErrorResponse "Rejected by ledger policy (control account, locked account, closed period)"
// @Failure 503 {object} dto.ErrorResponse "Ledger storage unavailable"
// @Security BearerAuth
// @Router /entries [post]
func (h *entryHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	draft, err := req.ToDraft()
	if err != nil {
		badRequest(c, logger, "Invalid entry", err)
		return
	}

	entry, err := h.postingService.Post(c.Request.Context(), draft, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to post entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entry.EntryID), slog.Int64("sequence_number", entry.SequenceNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Security BearerAuth
// @Router /entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.postingService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger.With(slog.String("entry_id", entryID)), err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Commits a mirror entry with debits and credits swapped and marks the original REVERSED.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   options body dto.ReverseEntryRequest false "Reversal options"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid options"
// @Failure 403 {object} dto.ErrorResponse "Caller may not post entries"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is not reversible"
// @Failure 422 {object} dto.ErrorResponse "Reversal rejected by ledger policy"
// @Failure 503 {object} dto.ErrorResponse "Ledger storage unavailable"
// @Security BearerAuth
// @Router /entries/{entryID}/reverse [post]
func (h *entryHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	// The body is optional; an empty one, chunked or not, means default options.
	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	opts, err := req.ToOptions()
	if err != nil {
		badRequest(c, logger, "Invalid reversal options", err)
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	reversal, err := h.reversalService.Reverse(c.Request.Context(), entryID, opts, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse entry")
		return
	}

	logger.Info("Journal entry reversed", slog.String("reversal_entry_id", reversal.EntryID), slog.Int64("sequence_number", reversal.SequenceNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}
