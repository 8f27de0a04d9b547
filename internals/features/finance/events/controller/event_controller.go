// file: internals/features/finance/events/controller/event_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"paudku_backend/internals/features/finance/events/dto"
	"paudku_backend/internals/features/finance/events/repository"
	"paudku_backend/internals/features/finance/ledger"
	txModel "paudku_backend/internals/features/finance/transactions/model"
	txRepo "paudku_backend/internals/features/finance/transactions/repository"
	helper "paudku_backend/internals/helpers"
	helperAuth "paudku_backend/internals/helpers/auth"
)

type EventController struct {
	Repo         repository.EventRepository
	Transactions txRepo.TransactionRepository
	Validator    *validator.Validate
	FeePercent   int64
}

func NewEventController(repo repository.EventRepository, txs txRepo.TransactionRepository, feePercent int64) *EventController {
	return &EventController{
		Repo:         repo,
		Transactions: txs,
		Validator:    validator.New(),
		FeePercent:   feePercent,
	}
}

/* =========================
   Catalog
   ========================= */

// GET /events?q=&active=true
func (ctl *EventController) List(c *fiber.Ctx) error {
	onlyActive := strings.EqualFold(c.Query("active"), "true")
	rows, err := ctl.Repo.List(c.UserContext(), c.Query("q"), onlyActive)
	if err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonList(c, "Daftar event", dto.FromModels(rows), nil)
}

func (ctl *EventController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonOK(c, "Detail event", dto.FromModel(m))
}

func (ctl *EventController) Create(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	m, err := req.ToModel()
	if err != nil {
		return helper.FieldError(c, "event_date", "format tanggal YYYY-MM-DD")
	}
	if err := ctl.Repo.Create(c.UserContext(), m); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonCreated(c, "Event dibuat", dto.FromModel(m))
}

func (ctl *EventController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.StoreError(c, err)
	}

	var req dto.PatchEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if field, msg := req.ApplyTo(m); field != "" {
		return helper.FieldError(c, field, msg)
	}
	if err := ctl.Repo.Save(c.UserContext(), m); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonUpdated(c, "Event diperbarui", dto.FromModel(m))
}

func (ctl *EventController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Repo.Delete(c.UserContext(), id); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonDeleted(c, "Event dihapus", fiber.Map{"event_id": id})
}

/* =========================
   Payments
   ========================= */

// POST /events/:id/payments
// balance → debit nominal+fee dari saldo; cash → credit nominal dengan skip_balance.
// Semua baris ditulis dalam satu DB transaction.
func (ctl *EventController) Pay(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ev, err := ctl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.StoreError(c, err)
	}
	if !ev.EventIsActive {
		return helper.JsonError(c, fiber.StatusConflict, "Event sudah tidak aktif")
	}

	var req dto.EventPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	day, err := ledger.ParseDay(req.Date)
	if err != nil {
		return helper.FieldError(c, "date", "format tanggal YYYY-MM-DD")
	}

	method := ledger.Method(req.Method)
	charge, err := ledger.ChargeFor(method, ev.EventNominal, ctl.FeePercent)
	if err != nil {
		return helper.FieldError(c, "event_nominal", "nominal event tidak valid")
	}

	note := ev.EventName
	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		note = ev.EventName + " - " + strings.TrimSpace(*req.Note)
	}
	actor := helperAuth.ActorID(c)

	studentIDs := req.UniqueStudentIDs()
	rows := make([]*txModel.TransactionModel, 0, len(studentIDs))
	for _, sid := range studentIDs {
		tx := charge.Transaction(sid.String(), ledger.CategoryEvent, note)
		tx.Date = day
		m := txModel.FromLedger(tx)
		m.TransactionEventID = &ev.EventID
		m.TransactionCreatedBy = actor
		rows = append(rows, m)
	}

	if err := ctl.Transactions.CreateBatch(c.UserContext(), rows); err != nil {
		return helper.StoreError(c, err)
	}

	resp := dto.EventPaymentResponse{
		Event:  dto.FromModel(ev),
		Method: method,
		Date:   ledger.DayKey(day),
		Lines:  make([]dto.PaymentLine, 0, len(rows)),
	}
	for i, m := range rows {
		resp.Lines = append(resp.Lines, dto.PaymentLine{
			StudentID:     studentIDs[i],
			TransactionID: m.TransactionID,
			Charge:        charge,
		})
		resp.TotalAmount += charge.Total
		resp.TotalFee += charge.Fee
	}
	return helper.JsonCreated(c, "Pembayaran event dicatat", resp)
}
