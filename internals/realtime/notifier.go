package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Channel LISTEN/NOTIFY Postgres untuk semua perubahan record.
const Channel = "paud_changes"

type Notifier interface {
	Notify(ctx context.Context, c Change) error
}

// NopNotifier dipakai di test / tool yang tidak butuh live update.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Change) error { return nil }

// LocalNotifier langsung publish ke hub di proses yang sama.
type LocalNotifier struct{ Hub *Hub }

func (n LocalNotifier) Notify(_ context.Context, c Change) error {
	n.Hub.Publish(c)
	return nil
}

// PgNotifier mengirim pg_notify sehingga semua instance (yang LISTEN) ikut menerima.
type PgNotifier struct{ DB *gorm.DB }

func (n PgNotifier) Notify(ctx context.Context, c Change) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return n.DB.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", Channel, string(payload)).Error
}

// NotifyQuietly: notifikasi gagal tidak menggagalkan write yang sudah commit.
func NotifyQuietly(ctx context.Context, n Notifier, c Change) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, c); err != nil {
		zap.L().Warn("change notification failed",
			zap.String("collection", c.Collection),
			zap.String("op", c.Op),
			zap.Error(err),
		)
	}
}

/* =========================
   Listener (lib/pq)
   ========================= */

// Listen menjalankan LISTEN sampai ctx selesai dan meneruskan notifikasi ke hub.
func (h *Hub) Listen(ctx context.Context, dsn string) error {
	log := zap.L().Named("realtime")

	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnectionAttemptFailed, pq.ListenerEventDisconnected:
			log.Warn("listener connection problem", zap.Error(err))
		case pq.ListenerEventReconnected:
			log.Info("listener reconnected")
		}
	})
	defer listener.Close()

	if err := listener.Listen(Channel); err != nil {
		return fmt.Errorf("listen %s: %w", Channel, err)
	}
	log.Info("✅ listening for record changes", zap.String("channel", Channel))

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			if n == nil {
				// reconnect: notifikasi di antaranya bisa hilang
				h.Publish(Change{Collection: CollectionAll, Op: "resync"})
				continue
			}
			var c Change
			if err := json.Unmarshal([]byte(n.Extra), &c); err != nil {
				log.Warn("bad notification payload", zap.String("payload", n.Extra), zap.Error(err))
				continue
			}
			h.Publish(c)
		case <-ping.C:
			if err := listener.Ping(); err != nil {
				log.Warn("listener ping failed", zap.Error(err))
			}
		}
	}
}
