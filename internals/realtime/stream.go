package realtime

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SnapshotFunc mengambil ulang hasil query penuh lalu menjalankan derivasi.
type SnapshotFunc func(ctx context.Context) (any, error)

const heartbeatEvery = 25 * time.Second

// Stream membuka Server-Sent Events: kirim snapshot awal, lalu snapshot baru
// setiap ada perubahan yang lolos filter. Subscription dilepas begitu client
// putus (write/flush gagal) atau hub ditutup.
func Stream(c *fiber.Ctx, hub *Hub, filter func(Change) bool, snapshot SnapshotFunc) error {
	encode := c.App().Config().JSONEncoder
	log := zap.L().Named("realtime")
	path := c.Path()

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	changes, unsubscribe := hub.Subscribe(filter)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		send := func(event string) bool {
			data, err := snapshot(ctx)
			if err != nil {
				log.Warn("snapshot failed", zap.String("path", path), zap.Error(err))
				fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
				return w.Flush() == nil
			}
			b, err := encode(data)
			if err != nil {
				log.Warn("encode snapshot failed", zap.String("path", path), zap.Error(err))
				return false
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b)
			return w.Flush() == nil
		}

		if !send("snapshot") {
			return
		}

		heartbeat := time.NewTicker(heartbeatEvery)
		defer heartbeat.Stop()

		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !send("snapshot") {
					return
				}
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				if w.Flush() != nil {
					return
				}
			}
		}
	})
	return nil
}
