package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/databases/testdb"
	"paudku_backend/internals/features/finance/ledger"
	txModel "paudku_backend/internals/features/finance/transactions/model"
	roleModel "paudku_backend/internals/features/users/roles/model"
	helperOSS "paudku_backend/internals/helpers/oss"
	"paudku_backend/internals/realtime"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

type harness struct {
	t    *testing.T
	app  *fiber.App
	db   *gorm.DB
	blob *helperOSS.MockBlobService
	hub  *realtime.Hub
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testdb.Open(t)
	blob := helperOSS.NewMockBlobService()
	hub := realtime.NewHub()
	t.Cleanup(hub.Close)
	app := fiber.New()
	SetupRoutes(app, Deps{
		DB:         db,
		JWTSecret:  testSecret,
		Notifier:   realtime.LocalNotifier{Hub: hub},
		Hub:        hub,
		Blob:       blob,
		Location:   time.UTC,
		FeePercent: 10,
		PerHead:    5000,
	})
	return &harness{t: t, app: app, db: db, blob: blob, hub: hub}
}

// user membuat akun dengan role tertentu ("" = tanpa baris user_roles) dan mengembalikan token.
func (h *harness) user(role string) string {
	h.t.Helper()
	_, tok := h.userWithID(role)
	return tok
}

func (h *harness) userWithID(role string) (uuid.UUID, string) {
	h.t.Helper()
	id := uuid.New()
	if role != "" {
		if err := h.db.Create(&roleModel.UserRoleModel{UserRoleUserID: id, UserRoleRole: role}).Error; err != nil {
			h.t.Fatal(err)
		}
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":        id.String(),
		"user_name": "Bu " + role,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		h.t.Fatal(err)
	}
	return id, tok
}

func (h *harness) do(method, path, token string, body any) (int, envelope) {
	h.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			h.t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	if err != nil {
		h.t.Fatal(err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestRoleGates(t *testing.T) {
	h := newHarness(t)
	guest := h.user("")
	teacher := h.user(constants.RoleTeacher)
	admin := h.user(constants.RoleAdmin)

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  uuid.NewString(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte(testSecret))

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/api/t/students", "", http.StatusUnauthorized},
		{"expired", "/api/me", expired, http.StatusUnauthorized},
		{"garbage", "/api/me", "abc.def.ghi", http.StatusUnauthorized},
		{"guest me", "/api/me", guest, http.StatusOK},
		{"guest teacher area", "/api/t/students", guest, http.StatusForbidden},
		{"teacher area", "/api/t/students", teacher, http.StatusOK},
		{"teacher admin area", "/api/a/transactions", teacher, http.StatusForbidden},
		{"admin teacher area", "/api/t/students", admin, http.StatusOK},
		{"admin area", "/api/a/transactions", admin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if status, env := h.do(http.MethodGet, tc.path, tc.token, nil); status != tc.status {
				t.Errorf("status = %d (%s), want %d", status, env.Message, tc.status)
			}
		})
	}

	_, env := h.do(http.MethodGet, "/api/me", guest, nil)
	if me := decode[map[string]any](t, env.Data); me["role"] != constants.RoleGuest {
		t.Errorf("me = %v, want guest role", me)
	}
}

func TestCookieToken(t *testing.T) {
	h := newHarness(t)
	tok := h.user(constants.RoleTeacher)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: tok})
	resp, err := h.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestFinanceFlow(t *testing.T) {
	h := newHarness(t)
	admin := h.user(constants.RoleAdmin)

	status, env := h.do(http.MethodPost, "/api/a/students", admin, map[string]any{"student_display_name": "Aisyah"})
	if status != http.StatusCreated {
		t.Fatalf("create student = %d %s", status, env.Message)
	}
	studentID := decode[map[string]any](t, env.Data)["student_id"].(string)

	for _, body := range []map[string]any{
		{"transaction_subject_id": studentID, "transaction_amount": 50000, "transaction_kind": "credit", "transaction_date": "2024-01-09"},
		{"transaction_subject_id": studentID, "transaction_amount": 20000, "transaction_kind": "credit", "transaction_date": "2024-01-11"},
	} {
		if status, env := h.do(http.MethodPost, "/api/a/transactions", admin, body); status != http.StatusCreated {
			t.Fatalf("create transaction = %d %s %v", status, env.Message, env.Errors)
		}
	}

	status, env = h.do(http.MethodPost, "/api/a/transactions", admin, map[string]any{
		"transaction_subject_id": studentID, "transaction_amount": 0, "transaction_kind": "credit", "transaction_date": "2024-01-09",
	})
	if status != http.StatusUnprocessableEntity || len(env.Errors["TransactionAmount"])+len(env.Errors["transaction_amount"]) == 0 {
		t.Errorf("zero amount = %d %v", status, env.Errors)
	}

	if status, env := h.do(http.MethodPut, "/api/a/checkpoint", admin, map[string]any{"amount": 100000, "date": "2024-01-10"}); status != http.StatusOK {
		t.Fatalf("checkpoint = %d %s", status, env.Message)
	}

	status, env = h.do(http.MethodPost, "/api/a/transactions/withdrawals", admin, map[string]any{
		"student_id": studentID, "nominal": 5000, "date": "2024-01-12",
	})
	if status != http.StatusCreated {
		t.Fatalf("withdraw = %d %s %v", status, env.Message, env.Errors)
	}
	w := decode[struct {
		Charge struct {
			Fee   int64 `json:"fee"`
			Total int64 `json:"total"`
		} `json:"charge"`
	}](t, env.Data)
	if w.Charge.Fee != 500 || w.Charge.Total != 5500 {
		t.Errorf("charge = %+v, want fee 500 total 5500", w.Charge)
	}

	status, env = h.do(http.MethodGet, "/api/a/dashboard/summary", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("summary = %d %s", status, env.Message)
	}
	sum := decode[struct {
		CashBox             int64 `json:"cash_box"`
		TotalStudentSavings int64 `json:"total_student_savings"`
		NetRevenue          int64 `json:"net_revenue"`
	}](t, env.Data)
	if sum.CashBox != 114500 || sum.TotalStudentSavings != 64500 || sum.NetRevenue != 50000 {
		t.Errorf("summary = %+v", sum)
	}

	status, env = h.do(http.MethodGet, "/api/a/students/"+studentID+"/ledger", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("ledger = %d", status)
	}
	if l := decode[struct {
		Balance int64 `json:"balance"`
		Entries []any `json:"entries"`
	}](t, env.Data); l.Balance != 64500 || len(l.Entries) != 3 {
		t.Errorf("ledger = %+v", l)
	}

	// absensi: pembayaran 2024-01-11 → hadir; manual absent menang
	status, env = h.do(http.MethodGet, "/api/t/attendance/2024-01-11", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("attendance day = %d %s", status, env.Message)
	}
	day := decode[struct {
		Rows []struct {
			Status string `json:"status"`
			Source string `json:"source"`
		} `json:"rows"`
		Fee int64 `json:"fee"`
	}](t, env.Data)
	if len(day.Rows) != 1 || day.Rows[0].Status != "present_paid" || day.Fee != 5000 {
		t.Errorf("attendance = %+v", day)
	}

	status, env = h.do(http.MethodPut, "/api/t/attendance/2024-01-11", admin, map[string]any{
		"statuses": map[string]string{studentID: "A"},
	})
	if status != http.StatusOK {
		t.Fatalf("save attendance = %d %s %v", status, env.Message, env.Errors)
	}
	day.Rows = nil
	_ = json.Unmarshal(env.Data, &day)
	if len(day.Rows) != 1 || day.Rows[0].Status != "absent" || day.Rows[0].Source != "manual" || day.Fee != 0 {
		t.Errorf("attendance after save = %+v", day)
	}
}

func TestEventPayment(t *testing.T) {
	h := newHarness(t)
	admin := h.user(constants.RoleAdmin)

	var ids []string
	for _, name := range []string{"Aisyah", "Bima"} {
		_, env := h.do(http.MethodPost, "/api/a/students", admin, map[string]any{"student_display_name": name})
		ids = append(ids, decode[map[string]any](t, env.Data)["student_id"].(string))
	}

	status, env := h.do(http.MethodPost, "/api/a/events", admin, map[string]any{"event_name": "Outbound", "event_nominal": 20000, "event_date": "2024-02-01"})
	if status != http.StatusCreated {
		t.Fatalf("create event = %d %s %v", status, env.Message, env.Errors)
	}
	eventID := decode[map[string]any](t, env.Data)["event_id"].(string)

	status, env = h.do(http.MethodPost, "/api/a/events/"+eventID+"/payments", admin, map[string]any{
		"student_ids": ids, "method": "balance", "date": "2024-02-01",
	})
	if status != http.StatusCreated {
		t.Fatalf("pay = %d %s %v", status, env.Message, env.Errors)
	}

	_, env = h.do(http.MethodGet, "/api/a/dashboard/balances", admin, nil)
	rows := decode[[]struct {
		Balance int64 `json:"balance"`
	}](t, env.Data)
	if len(rows) != 2 || rows[0].Balance != -22000 || rows[1].Balance != -22000 {
		t.Errorf("balances = %+v, want both -22000", rows)
	}
}

func (h *harness) upload(path, token, field, filename string) (int, envelope) {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		h.t.Fatal(err)
	}
	_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := h.app.Test(req, -1)
	if err != nil {
		h.t.Fatal(err)
	}
	defer resp.Body.Close()
	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func TestStudentPhotoUpload(t *testing.T) {
	h := newHarness(t)
	admin := h.user(constants.RoleAdmin)

	_, env := h.do(http.MethodPost, "/api/a/students", admin, map[string]any{"student_display_name": "Aisyah"})
	id := decode[map[string]any](t, env.Data)["student_id"].(string)
	path := "/api/a/students/" + id + "/photo"

	if status, _ := h.upload(path, admin, "photo", "notes.txt"); status != http.StatusUnprocessableEntity {
		t.Errorf("non-image status = %d, want 422", status)
	}

	status, env := h.upload(path, admin, "photo", "a.png")
	if status != http.StatusOK {
		t.Fatalf("upload = %d %s", status, env.Message)
	}
	first, _ := decode[map[string]any](t, env.Data)["student_photo_url"].(string)
	if !strings.HasPrefix(first, h.blob.BaseURL) {
		t.Errorf("photo url = %q", first)
	}

	if status, _ := h.upload(path, admin, "photo", "b.jpg"); status != http.StatusOK {
		t.Fatalf("second upload = %d", status)
	}
	if len(h.blob.Deleted) != 1 || !strings.HasSuffix(h.blob.Deleted[0], "a.png") {
		t.Errorf("deleted = %v, want the previous photo removed", h.blob.Deleted)
	}
}

func TestWritesReachSubscribers(t *testing.T) {
	h := newHarness(t)
	admin := h.user(constants.RoleAdmin)

	changes, unsub := h.hub.Subscribe(realtime.ForCollections(realtime.CollectionTransactions))
	defer unsub()

	status, _ := h.do(http.MethodPost, "/api/a/transactions", admin, map[string]any{
		"transaction_subject_id": "non_student",
		"transaction_kind":       "credit",
		"transaction_amount":     3000,
		"transaction_date":       "2024-02-05",
		"transaction_category":   "other",
		"transaction_note":       "jual buku",
	})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	select {
	case c := <-changes:
		if c.Day != "2024-02-05" {
			t.Errorf("change day = %q, want 2024-02-05", c.Day)
		}
	case <-time.After(time.Second):
		t.Fatal("no change published for transaction write")
	}
}

func TestAmountBounds(t *testing.T) {
	h := newHarness(t)
	admin := h.user(constants.RoleAdmin)
	const huge = int64(5_000_000_000_000_000_000)

	cases := []struct {
		name   string
		method string
		path   string
		body   map[string]any
	}{
		{"transaction amount", http.MethodPost, "/api/a/transactions", map[string]any{
			"transaction_subject_id": ledger.NonStudent, "transaction_amount": huge,
			"transaction_kind": "credit", "transaction_date": "2024-02-05",
		}},
		{"withdrawal nominal", http.MethodPost, "/api/a/transactions/withdrawals", map[string]any{
			"student_id": uuid.NewString(), "nominal": huge, "date": "2024-02-05",
		}},
		{"event nominal", http.MethodPost, "/api/a/events", map[string]any{
			"event_name": "Outbound", "event_nominal": huge,
		}},
		{"checkpoint amount", http.MethodPut, "/api/a/checkpoint", map[string]any{
			"amount": huge, "date": "2024-02-05",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if status, env := h.do(tc.method, tc.path, admin, tc.body); status != http.StatusUnprocessableEntity {
				t.Errorf("status = %d (%s), want 422", status, env.Message)
			}
		})
	}

	// tepat di batas masih diterima
	if status, env := h.do(http.MethodPost, "/api/a/transactions", admin, map[string]any{
		"transaction_subject_id": ledger.NonStudent, "transaction_amount": ledger.MaxAmount,
		"transaction_kind": "credit", "transaction_date": "2024-02-05",
	}); status != http.StatusCreated {
		t.Errorf("max amount = %d %s %v", status, env.Message, env.Errors)
	}
}

func TestSummaryRejectsOverflowingData(t *testing.T) {
	h := newHarness(t)
	admin := h.user(constants.RoleAdmin)

	// baris lama yang masuk tanpa lewat API, milik satu siswa
	subject := uuid.NewString()
	for _, date := range []string{"2024-02-05", "2024-02-06"} {
		d, _ := ledger.ParseDay(date)
		if err := h.db.Create(&txModel.TransactionModel{
			TransactionSubjectID: subject,
			TransactionAmount:    5_000_000_000_000_000_000,
			TransactionKind:      ledger.KindCredit,
			TransactionDate:      d,
			TransactionCategory:  ledger.CategoryOrdinary,
		}).Error; err != nil {
			t.Fatal(err)
		}
	}

	for _, path := range []string{"/api/a/dashboard/summary", "/api/a/dashboard/balances", "/api/a/dashboard/cashbox-snapshots"} {
		method := http.MethodGet
		if strings.HasSuffix(path, "snapshots") {
			method = http.MethodPost
		}
		status, env := h.do(method, path, admin, nil)
		if status != http.StatusUnprocessableEntity {
			t.Errorf("%s status = %d, want 422", path, status)
		}
		if env.Success || len(env.Data) > 0 {
			t.Errorf("%s returned data %s", path, env.Data)
		}
	}
}

func TestRoleAdministration(t *testing.T) {
	h := newHarness(t)
	adminID, admin := h.userWithID(constants.RoleAdmin)
	userID, userTok := h.userWithID("")
	teacher := h.user(constants.RoleTeacher)

	type roleView struct {
		UserID   string `json:"user_id"`
		Role     string `json:"role"`
		Assigned bool   `json:"assigned"`
	}

	status, env := h.do(http.MethodGet, "/api/a/roles/"+userID.String(), admin, nil)
	if status != http.StatusOK {
		t.Fatalf("get role = %d %s", status, env.Message)
	}
	if r := decode[roleView](t, env.Data); r.Role != constants.RoleGuest || r.Assigned {
		t.Errorf("unassigned role = %+v, want guest", r)
	}
	if status, _ := h.do(http.MethodGet, "/api/t/students", userTok, nil); status != http.StatusForbidden {
		t.Errorf("guest on teacher area = %d, want 403", status)
	}

	status, env = h.do(http.MethodPut, "/api/a/roles/"+userID.String(), admin, map[string]any{
		"role": "Teacher", "display_name": "Bu Sari",
	})
	if status != http.StatusOK {
		t.Fatalf("put role = %d %s %v", status, env.Message, env.Errors)
	}
	if r := decode[roleView](t, env.Data); r.Role != constants.RoleTeacher || !r.Assigned {
		t.Errorf("put role = %+v", r)
	}

	status, env = h.do(http.MethodGet, "/api/me", userTok, nil)
	if status != http.StatusOK {
		t.Fatalf("me = %d", status)
	}
	if me := decode[map[string]any](t, env.Data); me["role"] != constants.RoleTeacher || me["display_name"] != "Bu Sari" {
		t.Errorf("me = %v", me)
	}
	if status, _ := h.do(http.MethodGet, "/api/t/students", userTok, nil); status != http.StatusOK {
		t.Errorf("promoted user on teacher area = %d, want 200", status)
	}

	cases := []struct {
		name   string
		token  string
		path   string
		body   map[string]any
		status int
	}{
		{"unknown role", admin, "/api/a/roles/" + userID.String(), map[string]any{"role": "owner"}, http.StatusUnprocessableEntity},
		{"bad user id", admin, "/api/a/roles/not-a-uuid", map[string]any{"role": "teacher"}, http.StatusBadRequest},
		{"admin demotes self", admin, "/api/a/roles/" + adminID.String(), map[string]any{"role": "teacher"}, http.StatusConflict},
		{"admin keeps own role", admin, "/api/a/roles/" + adminID.String(), map[string]any{"role": "admin"}, http.StatusOK},
		{"teacher cannot assign", teacher, "/api/a/roles/" + userID.String(), map[string]any{"role": "admin"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if status, env := h.do(http.MethodPut, tc.path, tc.token, tc.body); status != tc.status {
				t.Errorf("status = %d (%s), want %d", status, env.Message, tc.status)
			}
		})
	}

	// admin masih admin setelah percobaan demote
	if status, _ := h.do(http.MethodGet, "/api/a/transactions", admin, nil); status != http.StatusOK {
		t.Errorf("admin after self-demote attempt = %d, want 200", status)
	}
}

func TestCashboxSnapshots(t *testing.T) {
	h := newHarness(t)
	admin := h.user(constants.RoleAdmin)

	type snapView struct {
		Date       string `json:"snapshot_date"`
		CashBox    int64  `json:"snapshot_cash_box"`
		Savings    int64  `json:"snapshot_total_student_savings"`
		NetRevenue int64  `json:"snapshot_net_revenue"`
	}
	credit := func(amount int64) {
		t.Helper()
		if status, env := h.do(http.MethodPost, "/api/a/transactions", admin, map[string]any{
			"transaction_subject_id": ledger.NonStudent, "transaction_amount": amount,
			"transaction_kind": "credit", "transaction_date": "2024-02-05",
		}); status != http.StatusCreated {
			t.Fatalf("credit = %d %s", status, env.Message)
		}
	}

	credit(30000)
	status, env := h.do(http.MethodPost, "/api/a/dashboard/cashbox-snapshots", admin, nil)
	if status != http.StatusCreated {
		t.Fatalf("snapshot = %d %s", status, env.Message)
	}
	if s := decode[snapView](t, env.Data); s.CashBox != 30000 || s.Savings != 0 || s.NetRevenue != 30000 {
		t.Errorf("snapshot = %+v", s)
	}

	credit(15000)
	if status, env := h.do(http.MethodPost, "/api/a/dashboard/cashbox-snapshots", admin, nil); status != http.StatusCreated {
		t.Fatalf("second snapshot = %d %s", status, env.Message)
	}

	status, env = h.do(http.MethodGet, "/api/a/dashboard/cashbox-history?days=7", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("history = %d %s", status, env.Message)
	}
	rows := decode[[]snapView](t, env.Data)
	if len(rows) != 1 || rows[0].CashBox != 45000 {
		t.Errorf("history = %+v, want one row with cash box 45000", rows)
	}

	if status, _ := h.do(http.MethodGet, "/api/a/dashboard/cashbox-history?days=0", admin, nil); status != http.StatusUnprocessableEntity {
		t.Errorf("days=0 status = %d, want 422", status)
	}
}

func TestLiveTransactionsStream(t *testing.T) {
	h := newHarness(t)
	admin := h.user(constants.RoleAdmin)

	// satu perubahan setelah client subscribe, lalu hub ditutup supaya stream selesai
	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for h.hub.Len() == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		h.hub.Publish(realtime.Change{Collection: realtime.CollectionTransactions, Op: "create", Day: "2024-02-05"})
		h.hub.Publish(realtime.Change{Collection: realtime.CollectionAttendance, Op: "update", Day: "2024-02-05"})
		h.hub.Close()
	}()

	req := httptest.NewRequest(http.MethodGet, "/api/a/live/transactions?date=2024-02-05", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := h.app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("content type = %q", ct)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	body := string(raw)
	// snapshot awal + satu untuk perubahan transaksi; perubahan absensi tidak lolos filter
	if n := strings.Count(body, "event: snapshot"); n != 2 {
		t.Errorf("snapshot events = %d, want 2\n%s", n, body)
	}
	if h.hub.Len() != 0 {
		t.Errorf("subscriptions left open: %d", h.hub.Len())
	}
}
