package review

import (
	"errors"
	"net/http"
	"strconv"

	"servimarket/internal/api"
	"servimarket/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// Create godoc
// @Summary      Submit a provider review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateReviewRequest  true  "Review data"
// @Success      201      {object}  Review
// @Failure      400      {object}  api.ErrorResponse
// @Router       /reviews [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: bindErrorMessage(err)})
		return
	}

	rev, err := h.repo.Insert(c.Request.Context(), userID, req.ProviderID, *req.Rating, req.Comment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to store review"})
		return
	}

	c.JSON(http.StatusCreated, rev)
}

// ListByProvider godoc
// @Summary      Provider reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        providerID  path   int  true   "Provider ID"
// @Param        limit       query  int  false  "Page size"
// @Param        offset      query  int  false  "Page offset"
// @Success      200 {array} Review
// @Router       /providers/{providerID}/reviews [get]
func (h *Handler) ListByProvider(c *gin.Context) {
	providerID, err := strconv.Atoi(c.Param("providerID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Provider not found"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reviews, err := h.repo.ListByProvider(c.Request.Context(), providerID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// bindErrorMessage turns validator failures into messages naming the valid
// bound, so an out-of-range rating reads "rating must be at most 5".
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}

	fe := verrs[0]
	field := jsonField(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte":
		return field + " must be at least " + fe.Param()
	case "lte":
		return field + " must be at most " + fe.Param()
	default:
		return field + " is invalid"
	}
}

func jsonField(field string) string {
	switch field {
	case "ProviderID":
		return "provider_id"
	case "Rating":
		return "rating"
	case "Comment":
		return "comment"
	default:
		return field
	}
}
