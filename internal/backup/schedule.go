package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// runTimeout bounds one scheduled backup.
const runTimeout = 2 * time.Minute

// Schedule runs u on the cron spec until Stop is called on the returned cron.
func Schedule(spec string, u *Uploader, snapshot SnapshotFunc, logger *zap.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		logger.Info("running scheduled backup")
		key, err := u.Run(ctx, snapshot)
		if err != nil {
			logger.Error("scheduled backup failed", zap.Error(err))
			return
		}
		logger.Info("scheduled backup completed", zap.String("key", key))
	})
	if err != nil {
		return nil, fmt.Errorf("backup schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
