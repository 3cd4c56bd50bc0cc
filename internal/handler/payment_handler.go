package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/internal/dto"
	"github.com/Keerthana22gh/pg-management-system/internal/service"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/middleware"
	"github.com/Keerthana22gh/pg-management-system/pkg/response"
)

const (
	proofField = "proof"
	// room for the month and amount fields and part headers
	multipartOverhead = 64 << 10
)

// PaymentHandler handles rent payment HTTP requests
type PaymentHandler struct {
	paymentService service.PaymentService
	maxUploadBytes int64
	log            *logger.Logger
}

// NewPaymentHandler creates a new PaymentHandler. Submission bodies larger
// than maxUploadBytes plus the form overhead are cut off; zero disables the cap.
func NewPaymentHandler(paymentService service.PaymentService, maxUploadBytes int64, log *logger.Logger) *PaymentHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &PaymentHandler{paymentService: paymentService, maxUploadBytes: maxUploadBytes, log: log}
}

// ListAll handles listing every payment with its tenant
// GET /api/admin/payments
func (h *PaymentHandler) ListAll(c *gin.Context) {
	payments, err := h.paymentService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.FromPayments(payments)))
}

// Review handles verifying or rejecting a payment
// PUT /api/admin/payments
func (h *PaymentHandler) Review(c *gin.Context) {
	var req dto.ReviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	payment, err := h.paymentService.Review(c.Request.Context(), int64(req.ID), req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	middleware.SetAuditResourceID(c, strconv.FormatInt(payment.ID, 10))
	middleware.SetAuditMetadata(c, map[string]interface{}{"status": payment.Status})
	c.JSON(http.StatusOK, response.Success(dto.FromPayment(payment)))
}

// ListOwn handles listing the caller's payments
// GET /api/tenant/payments
func (h *PaymentHandler) ListOwn(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	payments, err := h.paymentService.ListForTenant(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.FromPayments(payments)))
}

// Submit handles a payment with its proof file
// POST /api/tenant/payments (multipart: proof, month, amount)
func (h *PaymentHandler) Submit(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	file, err := c.FormFile(proofField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile):
			respondError(c, h.log, domain.ErrNoFileUploaded)
			return
		case errors.As(err, &tooLarge):
			respondError(c, h.log, domain.ErrFileTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, response.BadRequest("Malformed multipart form"))
		return
	}

	var form dto.SubmitPaymentForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindError(c, err)
		return
	}
	amount, err := dto.ParseFloat(form.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(map[string]string{"amount": "must be a number"}))
		return
	}

	body, err := file.Open()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer body.Close()

	payment, err := h.paymentService.Submit(c.Request.Context(), userID, &service.ProofUpload{
		Month:       form.Month,
		Amount:      amount,
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        body,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	middleware.SetAuditResourceID(c, strconv.FormatInt(payment.ID, 10))
	c.JSON(http.StatusCreated, response.Success(dto.FromPayment(payment)))
}
