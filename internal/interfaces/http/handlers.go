package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrsuite/requisition-flow/internal/application/service"
	"github.com/hrsuite/requisition-flow/internal/domain/entity"
	"github.com/hrsuite/requisition-flow/internal/domain/workflow"
	"github.com/hrsuite/requisition-flow/internal/export"
	"github.com/hrsuite/requisition-flow/pkg/utils"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	requisitionService service.RequisitionService
	referenceService   service.ReferenceService
	exporter           *export.ExcelExporter
	logger             Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	requisitionService service.RequisitionService,
	referenceService service.ReferenceService,
	exporter *export.ExcelExporter,
	logger Logger,
) *Handlers {
	return &Handlers{
		requisitionService: requisitionService,
		referenceService:   referenceService,
		exporter:           exporter,
		logger:             logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

// ActorBody is an acting identity in request payloads
type ActorBody struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CreateRequisitionRequest is the intake payload
type CreateRequisitionRequest struct {
	Type        string      `json:"type" binding:"required"`
	JobTitle    string      `json:"job_title" binding:"required"`
	Channel     string      `json:"channel"`
	Department  string      `json:"department"`
	RequestedBy ActorBody   `json:"requested_by"`
	Approvers   []ActorBody `json:"approvers"`
}

// ActionRequestBody is one workflow command. Action and level arrive as free
// text and are resolved by the enum codec in the application layer.
type ActionRequestBody struct {
	Action    string         `json:"action" binding:"required"`
	Level     string         `json:"level"`
	Actor     ActorBody      `json:"actor"`
	Reason    string         `json:"reason"`
	Candidate *CandidateBody `json:"candidate"`
}

// CandidateBody carries the selected candidate data
type CandidateBody struct {
	Name         string `json:"name" binding:"required"`
	Document     string `json:"document"`
	StartDate    string `json:"start_date"`
	ContractType string `json:"contract_type"`
}

// SaveCandidateRequest is the payload of PUT .../candidate
type SaveCandidateRequest struct {
	Candidate CandidateBody `json:"candidate" binding:"required"`
	Actor     ActorBody     `json:"actor"`
}

// ApproverSlotResponse is one chain position in API responses
type ApproverSlotResponse struct {
	Level     string  `json:"level"`
	Name      string  `json:"name,omitempty"`
	Email     string  `json:"email,omitempty"`
	Status    string  `json:"status,omitempty"`
	DecidedAt *string `json:"decided_at,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// RequisitionResponse represents a requisition in API responses. States,
// decisions and levels render as their display strings.
type RequisitionResponse struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	State       string                 `json:"state"`
	Level       string                 `json:"level"`
	JobTitle    string                 `json:"job_title"`
	Channel     string                 `json:"channel,omitempty"`
	Department  string                 `json:"department,omitempty"`
	RequestedBy ActorBody              `json:"requested_by"`
	Chain       []ApproverSlotResponse `json:"approver_chain"`
	Candidate   *CandidateBody         `json:"candidate,omitempty"`
	CreatedAt   string                 `json:"created_at"`
	ClosedAt    *string                `json:"closed_at,omitempty"`
	UpdatedAt   string                 `json:"updated_at"`
	Version     int64                  `json:"version"`
}

// ActionResultResponse reports the outcome of a performed action
type ActionResultResponse struct {
	Changed bool   `json:"changed"`
	State   string `json:"state"`
	Level   string `json:"level"`
}

// HistoryEntryResponse is one audit trail row in API responses
type HistoryEntryResponse struct {
	PreviousState string `json:"previous_state,omitempty"`
	NewState      string `json:"new_state"`
	Action        string `json:"action"`
	ActorEmail    string `json:"actor_email,omitempty"`
	ActorName     string `json:"actor_name,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// CreateRequisition handles POST /api/requisitions
func (h *Handlers) CreateRequisition(c *gin.Context) {
	var req CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	approvers := make([]entity.Actor, 0, len(req.Approvers))
	for _, a := range req.Approvers {
		if a.Email != "" {
			if err := utils.ValidateEmail(a.Email); err != nil {
				c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
				return
			}
		}
		approvers = append(approvers, entity.Actor{Email: a.Email, Name: a.Name})
	}
	if req.RequestedBy.Email != "" {
		if err := utils.ValidateEmail(req.RequestedBy.Email); err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}
	}

	created, err := h.requisitionService.Create(c.Request.Context(), service.CreateInput{
		Type:        req.Type,
		JobTitle:    req.JobTitle,
		Channel:     req.Channel,
		Department:  req.Department,
		RequestedBy: entity.Actor{Email: req.RequestedBy.Email, Name: req.RequestedBy.Name},
		Approvers:   approvers,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: toRequisitionResponse(created)})
}

// ListRequisitions handles GET /api/requisitions
func (h *Handlers) ListRequisitions(c *gin.Context) {
	var query struct {
		Limit  int `form:"limit"`
		Offset int `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 20
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	reqs, err := h.requisitionService.List(c.Request.Context(), query.Limit, query.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]RequisitionResponse, 0, len(reqs))
	for _, r := range reqs {
		responses = append(responses, toRequisitionResponse(r))
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: responses})
}

// GetRequisition handles GET /api/requisitions/:id
func (h *Handlers) GetRequisition(c *gin.Context) {
	req, err := h.requisitionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: toRequisitionResponse(req)})
}

// PerformAction handles POST /api/requisitions/:id/actions
func (h *Handlers) PerformAction(c *gin.Context) {
	var body ActionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	actionReq := service.ActionRequest{
		RequisitionID: c.Param("id"),
		Action:        body.Action,
		Level:         body.Level,
		Actor:         entity.Actor{Email: body.Actor.Email, Name: body.Actor.Name},
		Reason:        utils.SanitizeString(body.Reason),
	}
	if body.Candidate != nil {
		selection, err := toSelection(*body.Candidate)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}
		actionReq.Selection = selection
	}

	result, err := h.requisitionService.PerformAction(c.Request.Context(), actionReq)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: ActionResultResponse{
			Changed: result.Changed,
			State:   result.State.Display(),
			Level:   result.Level.Display(),
		},
		Warning: result.Warning,
	})
}

// SaveCandidate handles PUT /api/requisitions/:id/candidate. It is the same
// operation as the save-candidate action, kept as a dedicated route for the
// selection screen.
func (h *Handlers) SaveCandidate(c *gin.Context) {
	var body SaveCandidateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	selection, err := toSelection(body.Candidate)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	result, err := h.requisitionService.PerformAction(c.Request.Context(), service.ActionRequest{
		RequisitionID: c.Param("id"),
		Action:        workflow.ActionSaveCandidate.Display(),
		Actor:         entity.Actor{Email: body.Actor.Email, Name: body.Actor.Name},
		Selection:     selection,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: ActionResultResponse{
			Changed: result.Changed,
			State:   result.State.Display(),
			Level:   result.Level.Display(),
		},
		Warning: result.Warning,
	})
}

// GetHistory handles GET /api/requisitions/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	entries, err := h.requisitionService.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, HistoryEntryResponse{
			PreviousState: entry.PreviousState,
			NewState:      entry.NewState,
			Action:        entry.Action,
			ActorEmail:    entry.ActorEmail,
			ActorName:     entry.ActorName,
			Reason:        entry.Reason,
			Timestamp:     entry.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: responses})
}

// ExportRequisition handles GET /api/requisitions/:id/export
func (h *Handlers) ExportRequisition(c *gin.Context) {
	id := c.Param("id")
	req, err := h.requisitionService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	history, err := h.requisitionService.History(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("requisicion_%s.xlsx", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exporter.Write(req, history, c.Writer); err != nil {
		h.logger.Error("Failed to export requisition", "error", err, "id", id)
		// Headers already went out; nothing sensible left to send.
		c.Abort()
	}
}

// ListChannels handles GET /api/channels
func (h *Handlers) ListChannels(c *gin.Context) {
	channels, err := h.referenceService.Channels(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: channels})
}

// ListJobTitles handles GET /api/job-titles
func (h *Handlers) ListJobTitles(c *gin.Context) {
	titles, err := h.referenceService.JobTitles(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: titles})
}

// GetProfile handles GET /api/profiles?key=<email or document>
func (h *Handlers) GetProfile(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		key = c.Query("email")
	}

	profile, err := h.referenceService.Profile(c.Request.Context(), key)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: profile})
}

// respondError maps the application error taxonomy to HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidAction):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrPreconditionFailed):
		status = http.StatusConflict
	case errors.Is(err, service.ErrStoreFailure):
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}

func toSelection(body CandidateBody) (*entity.Selection, error) {
	selection := &entity.Selection{
		CandidateName:     body.Name,
		CandidateDocument: body.Document,
		ContractType:      body.ContractType,
	}
	if body.StartDate != "" {
		startDate, err := time.Parse("2006-01-02", body.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date, expected YYYY-MM-DD")
		}
		selection.StartDate = &startDate
	}
	return selection, nil
}

func toRequisitionResponse(req *entity.Requisition) RequisitionResponse {
	resp := RequisitionResponse{
		ID:    req.ID,
		Type:  string(req.Type),
		State: req.State.Display(),
		Level: req.Level.Display(),

		JobTitle:    req.JobTitle,
		Channel:     req.Channel,
		Department:  req.Department,
		RequestedBy: ActorBody{Email: req.RequestedBy.Email, Name: req.RequestedBy.Name},

		CreatedAt: req.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: req.UpdatedAt.UTC().Format(time.RFC3339),
		Version:   req.Version,
	}

	for level := workflow.Level1; level <= workflow.Level3; level++ {
		slot := req.Chain.Slot(level)
		slotResp := ApproverSlotResponse{
			Level:  level.Display(),
			Name:   slot.Name,
			Email:  slot.Email,
			Status: slot.Status.Display(),
			Reason: slot.Reason,
		}
		if slot.DecidedAt != nil {
			decided := slot.DecidedAt.UTC().Format(time.RFC3339)
			slotResp.DecidedAt = &decided
		}
		resp.Chain = append(resp.Chain, slotResp)
	}

	if req.Selection.CandidateName != "" {
		candidate := &CandidateBody{
			Name:         req.Selection.CandidateName,
			Document:     req.Selection.CandidateDocument,
			ContractType: req.Selection.ContractType,
		}
		if req.Selection.StartDate != nil {
			candidate.StartDate = req.Selection.StartDate.Format("2006-01-02")
		}
		resp.Candidate = candidate
	}

	if req.ClosedAt != nil {
		closed := req.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &closed
	}
	return resp
}
