package handler

import (
	"encoding/json"
	"io"
	"time"

	appfinance "github.com/kincat201/syncargo-be-sub000/internal/application/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// requireActor pulls the authenticated actor from the context, aborting with
// 401 when the auth middleware did not run.
func requireActor(c *gin.Context, h *BaseHandler) (appfinance.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return appfinance.Actor{}, false
	}
	return actor, true
}

// bindJSONPayload reads and validates the "payload" form field of a multipart
// request into obj. Attachments ride alongside as file parts, so the JSON body
// cannot be the request body itself.
func bindJSONPayload(c *gin.Context, obj any) error {
	payload := c.PostForm("payload")
	if payload == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Missing payload form field")
	}
	if err := json.Unmarshal([]byte(payload), obj); err != nil {
		return shared.NewDomainError("VALIDATION_FAILED", "Malformed payload: "+err.Error())
	}
	if binding.Validator != nil {
		if err := binding.Validator.ValidateStruct(obj); err != nil {
			return shared.NewDomainError("VALIDATION_FAILED", middleware.ValidationMessage(err))
		}
	}
	return nil
}

// formFileUploads reads all file parts under the given field name
func formFileUploads(c *gin.Context, field string) ([]appfinance.FileUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Malformed multipart request")
	}
	headers := form.File[field]
	uploads := make([]appfinance.FileUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "Unreadable file part: "+fh.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "Unreadable file part: "+fh.Filename)
		}
		uploads = append(uploads, appfinance.FileUpload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Invalid date parameter, expected YYYY-MM-DD")
	}
	return &t, nil
}

// listQuery holds the common pagination and search query parameters
type listQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

func (q listQuery) toFilter() shared.Filter {
	f := shared.DefaultFilter()
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		f.OrderDir = q.OrderDir
	}
	f.Search = q.Search
	return f
}

// PayableHandler handles accounts-payable API endpoints
type PayableHandler struct {
	BaseHandler
	payableService *appfinance.PayableService
}

// NewPayableHandler creates a new PayableHandler
func NewPayableHandler(payableService *appfinance.PayableService) *PayableHandler {
	return &PayableHandler{payableService: payableService}
}

// Create submits a new payable from a multipart payload with its vendor
// bill attachments.
func (h *PayableHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req appfinance.CreatePayableRequest
	if err := bindJSONPayload(c, &req); err != nil {
		h.HandleError(c, err)
		return
	}
	files, err := formFileUploads(c, "files")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	req.Files = files

	resp, err := h.payableService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns the payables of the actor's company, filtered by the query
// parameters.
func (h *PayableHandler) List(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}

	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := finance.PayableFilter{Filter: q.toFilter()}

	if v := c.Query("job_sheet_number"); v != "" {
		filter.JobSheetNumber = &v
	}
	if v := c.Query("vendor_name"); v != "" {
		filter.VendorName = &v
	}
	if v := c.Query("status"); v != "" {
		status := finance.PayableStatus(v)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown payable status: "+v)
			return
		}
		filter.Status = &status
	}
	var err error
	if filter.FromDate, err = parseDateParam(c.Query("from_date")); err != nil {
		h.HandleError(c, err)
		return
	}
	if filter.ToDate, err = parseDateParam(c.Query("to_date")); err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.payableService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single payable by ID.
func (h *PayableHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	payableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	resp, err := h.payableService.Get(c.Request.Context(), actor, payableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approval approves or rejects a pending payable.
func (h *PayableHandler) Approval(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	payableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	var req appfinance.PayableApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.payableService.Approval(c.Request.Context(), actor, payableID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Revise resubmits a rejected payable with corrected prices and optional
// replacement attachments.
func (h *PayableHandler) Revise(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	payableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	var req appfinance.RevisePayableRequest
	if err := bindJSONPayload(c, &req); err != nil {
		h.HandleError(c, err)
		return
	}
	files, err := formFileUploads(c, "new_files")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	req.NewFiles = files

	resp, err := h.payableService.Revise(c.Request.Context(), actor, payableID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordPayment records a payment against an approved payable, with an
// optional proof-of-payment upload.
func (h *PayableHandler) RecordPayment(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	payableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	var req appfinance.PaymentRequest
	if err := bindJSONPayload(c, &req); err != nil {
		h.HandleError(c, err)
		return
	}
	proofs, err := formFileUploads(c, "proof")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(proofs) > 0 {
		req.Proof = &proofs[0]
	}

	resp, err := h.payableService.RecordPayment(c.Request.Context(), actor, payableID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeletePayment voids a recorded payment.
func (h *PayableHandler) DeletePayment(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	payableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}
	paymentID, err := uuid.Parse(c.Param("paymentID"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	resp, err := h.payableService.DeletePayment(c.Request.Context(), actor, payableID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SendRemittance mails remittance notices for the selected payments.
func (h *PayableHandler) SendRemittance(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	payableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	var req appfinance.RemittanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.payableService.SendRemittance(c.Request.Context(), actor, payableID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReceivableHandler handles accounts-receivable API endpoints
type ReceivableHandler struct {
	BaseHandler
	receivableService *appfinance.ReceivableService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(receivableService *appfinance.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{receivableService: receivableService}
}

// Create submits a new proforma invoice.
func (h *ReceivableHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req appfinance.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.receivableService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns the invoices of the actor's company, filtered by the query
// parameters.
func (h *ReceivableHandler) List(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}

	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := finance.InvoiceFilter{Filter: q.toFilter()}

	if v := c.Query("job_sheet_number"); v != "" {
		filter.JobSheetNumber = &v
	}
	if v := c.Query("customer_id"); v != "" {
		customerID, err := uuid.Parse(v)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		filter.CustomerID = &customerID
	}
	if v := c.Query("status"); v != "" {
		status := finance.InvoiceStatus(v)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown invoice status: "+v)
			return
		}
		filter.Status = &status
	}
	if v := c.Query("ar_status"); v != "" {
		arStatus := finance.ARStatus(v)
		if !arStatus.IsValid() {
			h.BadRequest(c, "Unknown AR status: "+v)
			return
		}
		filter.ARStatus = &arStatus
	}
	var err error
	if filter.FromDate, err = parseDateParam(c.Query("from_date")); err != nil {
		h.HandleError(c, err)
		return
	}
	if filter.ToDate, err = parseDateParam(c.Query("to_date")); err != nil {
		h.HandleError(c, err)
		return
	}
	if filter.DueFrom, err = parseDateParam(c.Query("due_from")); err != nil {
		h.HandleError(c, err)
		return
	}
	if filter.DueTo, err = parseDateParam(c.Query("due_to")); err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.receivableService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single invoice by ID.
func (h *ReceivableHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	resp, err := h.receivableService.Get(c.Request.Context(), actor, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approval approves, rejects, or issues a pending invoice.
func (h *ReceivableHandler) Approval(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req appfinance.InvoiceApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.receivableService.Approval(c.Request.Context(), actor, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Revise resubmits a rejected invoice with corrected prices.
func (h *ReceivableHandler) Revise(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req appfinance.ReviseInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.receivableService.Revise(c.Request.Context(), actor, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordPayment records a customer payment against an issued invoice, with
// an optional proof-of-payment upload.
func (h *ReceivableHandler) RecordPayment(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req appfinance.PaymentRequest
	if err := bindJSONPayload(c, &req); err != nil {
		h.HandleError(c, err)
		return
	}
	proofs, err := formFileUploads(c, "proof")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(proofs) > 0 {
		req.Proof = &proofs[0]
	}

	resp, err := h.receivableService.RecordPayment(c.Request.Context(), actor, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeletePayment voids a recorded customer payment.
func (h *ReceivableHandler) DeletePayment(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}
	paymentID, err := uuid.Parse(c.Param("paymentID"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	resp, err := h.receivableService.DeletePayment(c.Request.Context(), actor, invoiceID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Edit proposes a revision of an issued invoice. Managers auto-approve in
// the same call.
func (h *ReceivableHandler) Edit(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req appfinance.EditInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.receivableService.EditInvoice(c.Request.Context(), actor, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// EditApproval decides a pending invoice revision.
func (h *ReceivableHandler) EditApproval(c *gin.Context) {
	actor, ok := requireActor(c, &h.BaseHandler)
	if !ok {
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req appfinance.EditApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.receivableService.EditApprovalInvoice(c.Request.Context(), actor, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
