// file: internals/features/finance/dashboard/model/cashbox_snapshot_model.go
package model

import "time"

// CashboxSnapshotModel: rekap harian isi brankas (diisi cron).
type CashboxSnapshotModel struct {
	SnapshotDate                time.Time `gorm:"column:snapshot_date;type:date;primaryKey" json:"snapshot_date"`
	SnapshotCashBox             int64     `gorm:"column:snapshot_cash_box;not null" json:"snapshot_cash_box"`
	SnapshotTotalStudentSavings int64     `gorm:"column:snapshot_total_student_savings;not null" json:"snapshot_total_student_savings"`
	SnapshotNetRevenue          int64     `gorm:"column:snapshot_net_revenue;not null" json:"snapshot_net_revenue"`
	SnapshotCreatedAt           time.Time `gorm:"column:snapshot_created_at;autoCreateTime" json:"snapshot_created_at"`
	SnapshotUpdatedAt           time.Time `gorm:"column:snapshot_updated_at;autoUpdateTime" json:"snapshot_updated_at"`
}

func (CashboxSnapshotModel) TableName() string { return "cashbox_snapshots" }
