// file: internals/features/finance/transactions/route/transaction_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	txController "paudku_backend/internals/features/finance/transactions/controller"
	txRepo "paudku_backend/internals/features/finance/transactions/repository"
	"paudku_backend/internals/realtime"
)

func AdminTransactionRoutes(r fiber.Router, db *gorm.DB, notifier realtime.Notifier, feePercent int64) {
	ctl := txController.NewTransactionController(txRepo.NewTransactionRepository(db, notifier), feePercent)

	tx := r.Group("/transactions")
	{
		tx.Get("/", ctl.List)
		tx.Post("/", ctl.Create)
		tx.Post("/withdrawals", ctl.Withdraw)
		tx.Get("/:id", ctl.GetByID)
		tx.Patch("/:id", ctl.Patch)
		tx.Delete("/:id", ctl.Delete)
	}
}
