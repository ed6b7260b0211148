package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"library-rental/internal/domain/rental"
	reqdto "library-rental/internal/handler/dto/request"
	resdto "library-rental/internal/handler/dto/response"
	"library-rental/internal/handler/httperr"
	"library-rental/internal/pkg/errs"
	"library-rental/internal/usecase/commands"
	"library-rental/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RentalHandler struct {
	cmds   commands.RentalCommands
	q      queries.RentalQueries
	logger *slog.Logger
}

func NewRentalHandler(cmds commands.RentalCommands, q queries.RentalQueries, logger *slog.Logger) *RentalHandler {
	return &RentalHandler{cmds: cmds, q: q, logger: logger}
}

// @Summary List rentals
// @Description List every rental with borrower name and book title, newest first
// @Tags rentals
// @Produce json
// @Success 200 {array} resdto.RentalResponse
// @Failure 500 {object} httperr.Response
// @Router /api/rentals [get]
func (h *RentalHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		h.abortWithUseCaseError(c, err)
		return
	}
	resp, err := resdto.FromRentalViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Rental form options
// @Description Accounts, lendable stocks and statuses for the registration form
// @Tags rentals
// @Produce json
// @Success 200 {object} resdto.FormOptionsResponse
// @Failure 500 {object} httperr.Response
// @Router /api/rentals/options [get]
func (h *RentalHandler) Options(c *gin.Context) {
	options, err := h.q.FormOptions(c.Request.Context())
	if err != nil {
		h.abortWithUseCaseError(c, err)
		return
	}
	resp, err := resdto.FromFormOptions(options)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Register rental
// @Description Register a rental in the reserved status
// @Tags rentals
// @Accept json
// @Produce json
// @Param request body reqdto.CreateRentalRequest true "Rental registration"
// @Success 201 {object} resdto.RentalResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/rentals [post]
func (h *RentalHandler) Create(c *gin.Context) {
	var req reqdto.CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), cmd)
	if err != nil {
		h.abortWithUseCaseError(c, err)
		return
	}

	h.respondWithRental(c, http.StatusCreated, result.RentalID)
}

// @Summary Get rental for edit
// @Description Rental with the statuses it may move to and the form options
// @Tags rentals
// @Produce json
// @Param id path int true "Rental ID"
// @Success 200 {object} resdto.RentalEditResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/rentals/{id} [get]
func (h *RentalHandler) Get(c *gin.Context) {
	id, ok := parseRentalID(c)
	if !ok {
		return
	}
	view, err := h.q.GetForEdit(c.Request.Context(), id)
	if err != nil {
		h.abortWithUseCaseError(c, err)
		return
	}
	resp, err := resdto.FromRentalEditView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update rental
// @Description Edit a rental; status changes follow the rental lifecycle
// @Tags rentals
// @Accept json
// @Produce json
// @Param id path int true "Rental ID"
// @Param request body reqdto.UpdateRentalRequest true "Rental update"
// @Success 200 {object} resdto.RentalResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/rentals/{id} [put]
func (h *RentalHandler) Update(c *gin.Context) {
	id, ok := parseRentalID(c)
	if !ok {
		return
	}
	var req reqdto.UpdateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if _, err := h.cmds.Update(c.Request.Context(), id, cmd); err != nil {
		h.abortWithUseCaseError(c, err)
		return
	}

	h.respondWithRental(c, http.StatusOK, id)
}

func (h *RentalHandler) respondWithRental(c *gin.Context, status int, id int64) {
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load rental", nil)
		return
	}
	resp, err := resdto.FromRentalView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(status, resp)
}

func (h *RentalHandler) abortWithUseCaseError(c *gin.Context, err error) {
	var verr *rental.ValidationError
	switch {
	case errs.As(err, &verr):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Validation failed", verr.Violations)
	case errs.Is(err, commands.ErrRentalNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Rental not found", nil)
	default:
		h.logger.Error("rental request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
			slog.Any("stack", errs.ExtractStackLines(err, 12)))
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func parseRentalID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		if err == nil {
			err = errs.New("rental id must be positive")
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return 0, false
	}
	return id, true
}

// Rule failures on well-formed JSON are reported per field like business violations.
func abortWithBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errs.As(err, &verrs) {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	var violations rental.Violations
	for _, fe := range verrs {
		violations.Add(fe.Field(), bindMessage(fe))
	}
	httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Validation failed", violations)
}

func bindMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "rentalstatus":
		return "must be one of reserved, renting, returned, canceled"
	default:
		return "is invalid"
	}
}
