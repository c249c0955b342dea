package metric

import (
	"context"
	"time"

	"quickcal/src-server/model"
	"quickcal/src-server/utils"
)

func database(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.Event)(nil)).
		Where("id = ?", "").
		Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func upcomingEventCount(as *utils.AppState) (int, error) {
	now := time.Now().UTC()
	return as.BunDB.NewSelect().
		Model((*model.Event)(nil)).
		Where("start_date > ?", now.Unix()).
		Where("start_date < ?", now.Add(24*time.Hour).Unix()).
		Count(context.Background())
}
