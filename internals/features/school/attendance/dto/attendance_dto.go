// file: internals/features/school/attendance/dto/attendance_dto.go
package dto

import (
	"strings"

	"github.com/google/uuid"

	"paudku_backend/internals/features/finance/ledger"
)

// PUT /attendance/:date
// statuses: student_id → kode ("present_paid", "sick", ...) atau glyph ("H", "S", ...).
// Siswa yang tidak disebut / "unmarked" dianggap belum diisi.
type SaveAttendanceRequest struct {
	Statuses map[string]string `json:"statuses" validate:"required"`
}

// Parse mengembalikan error per field (kosong kalau valid).
func (r *SaveAttendanceRequest) Parse() (map[string]ledger.AttendanceStatus, map[string][]string) {
	out := make(map[string]ledger.AttendanceStatus, len(r.Statuses))
	errs := map[string][]string{}

	for rawID, token := range r.Statuses {
		field := "statuses." + rawID
		id, err := uuid.Parse(strings.TrimSpace(rawID))
		if err != nil {
			errs[field] = append(errs[field], "student_id harus UUID")
			continue
		}
		st, err := ledger.ParseStatus(token)
		if err != nil {
			errs[field] = append(errs[field], "status tidak dikenal: "+token)
			continue
		}
		out[id.String()] = st
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
