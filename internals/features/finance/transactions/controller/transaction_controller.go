// file: internals/features/finance/transactions/controller/transaction_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"paudku_backend/internals/features/finance/ledger"
	"paudku_backend/internals/features/finance/transactions/dto"
	"paudku_backend/internals/features/finance/transactions/model"
	"paudku_backend/internals/features/finance/transactions/repository"
	helper "paudku_backend/internals/helpers"
	helperAuth "paudku_backend/internals/helpers/auth"
)

type TransactionController struct {
	Repo       repository.TransactionRepository
	Validator  *validator.Validate
	FeePercent int64
}

func NewTransactionController(repo repository.TransactionRepository, feePercent int64) *TransactionController {
	return &TransactionController{
		Repo:       repo,
		Validator:  validator.New(),
		FeePercent: feePercent,
	}
}

/* =========================
   Query parsing
   ========================= */

// ParseFilter membaca ?subject_id&date&from&to&category&kind&event_id
func ParseFilter(c *fiber.Ctx) (repository.TransactionFilter, error) {
	var f repository.TransactionFilter

	if s := strings.TrimSpace(c.Query("subject_id")); s != "" {
		if !dto.ValidSubject(s) {
			return f, fiber.NewError(fiber.StatusBadRequest, "subject_id invalid")
		}
		f.SubjectID = s
	}

	parseDay := func(key string) (*time.Time, error) {
		s := strings.TrimSpace(c.Query(key))
		if s == "" {
			return nil, nil
		}
		d, err := ledger.ParseDay(s)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, key+" harus YYYY-MM-DD")
		}
		return &d, nil
	}

	date, err := parseDay("date")
	if err != nil {
		return f, err
	}
	if date != nil {
		f.From, f.To = date, date
	} else {
		if f.From, err = parseDay("from"); err != nil {
			return f, err
		}
		if f.To, err = parseDay("to"); err != nil {
			return f, err
		}
	}

	if s := strings.ToLower(strings.TrimSpace(c.Query("category"))); s != "" {
		if !ledger.Category(s).IsValid() {
			return f, fiber.NewError(fiber.StatusBadRequest, "category invalid")
		}
		f.Category = ledger.Category(s)
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("kind"))); s != "" {
		if !ledger.Kind(s).IsValid() {
			return f, fiber.NewError(fiber.StatusBadRequest, "kind invalid")
		}
		f.Kind = ledger.Kind(s)
	}
	if s := strings.TrimSpace(c.Query("event_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "event_id invalid")
		}
		f.EventID = &id
	}
	return f, nil
}

/* =========================
   READ
   ========================= */

// GET /transactions
func (ctl *TransactionController) List(c *fiber.Ctx) error {
	f, err := ParseFilter(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	paging, paged := helper.ResolvePaging(c, 50, 500)
	if paged {
		f.Offset, f.Limit = paging.Offset, paging.Limit
	}

	rows, total, err := ctl.Repo.List(c.UserContext(), f)
	if err != nil {
		return helper.StoreError(c, err)
	}

	var pg *helper.Pagination
	if paged {
		p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
		p.Count = len(rows)
		pg = &p
	}
	return helper.JsonList(c, "Daftar transaksi", dto.FromModels(rows), pg)
}

// GET /transactions/:id
func (ctl *TransactionController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonOK(c, "Detail transaksi", dto.FromModel(m))
}

/* =========================
   WRITE
   ========================= */

// POST /transactions
func (ctl *TransactionController) Create(c *fiber.Ctx) error {
	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !dto.ValidSubject(req.TransactionSubjectID) {
		return helper.FieldError(c, "transaction_subject_id", "harus UUID siswa atau non_student")
	}

	m, err := req.ToModel()
	if err != nil {
		return ledgerFieldError(c, err)
	}
	m.TransactionCreatedBy = helperAuth.ActorID(c)

	if err := ctl.Repo.Create(c.UserContext(), m); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonCreated(c, "Transaksi dicatat", dto.FromModel(m))
}

// PATCH /transactions/:id
func (ctl *TransactionController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.StoreError(c, err)
	}
	previousDay := m.TransactionDate

	var req dto.PatchTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if field, msg := req.ApplyTo(m); field != "" {
		return helper.FieldError(c, field, msg)
	}

	if err := ctl.Repo.Save(c.UserContext(), m, previousDay); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonUpdated(c, "Transaksi diperbarui", dto.FromModel(m))
}

// DELETE /transactions/:id
func (ctl *TransactionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Repo.Delete(c.UserContext(), id); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonDeleted(c, "Transaksi dihapus", fiber.Map{"transaction_id": id})
}

// POST /transactions/withdrawals
// Tarik tunai dari saldo: debit nominal + biaya admin. Saldo boleh minus.
func (ctl *TransactionController) Withdraw(c *fiber.Ctx) error {
	var req dto.WithdrawalRequest
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

	charge, err := ledger.BalanceDrawDown(req.Nominal, ctl.FeePercent)
	if err != nil {
		return ledgerFieldError(c, err)
	}
	note := "Penarikan saldo"
	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		note = strings.TrimSpace(*req.Note)
	}
	tx := charge.Transaction(req.StudentID.String(), ledger.CategoryOther, note)
	tx.Date = day

	m := model.FromLedger(tx)
	m.TransactionCreatedBy = helperAuth.ActorID(c)
	if err := ctl.Repo.Create(c.UserContext(), m); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonCreated(c, "Penarikan dicatat", dto.WithdrawalResponse{
		Charge:      charge,
		Transaction: dto.FromModel(m),
	})
}

// ledgerFieldError memetakan sentinel error ledger ke 422 per field.
func ledgerFieldError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return helper.FieldError(c, "transaction_amount", "harus lebih dari 0")
	case errors.Is(err, ledger.ErrAmountOverflow):
		return helper.FieldError(c, "transaction_amount", "melewati batas perhitungan")
	case errors.Is(err, ledger.ErrInvalidKind):
		return helper.FieldError(c, "transaction_kind", "harus credit atau debit")
	case errors.Is(err, ledger.ErrInvalidDate):
		return helper.FieldError(c, "transaction_date", "format tanggal YYYY-MM-DD")
	case errors.Is(err, ledger.ErrEmptySubject):
		return helper.FieldError(c, "transaction_subject_id", "wajib diisi")
	}
	return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
}
