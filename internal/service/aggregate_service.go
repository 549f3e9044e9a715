package service

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shorturl-go/internal/cache"
	"shorturl-go/internal/model"
	"shorturl-go/pkg/logging"
)

// FlushDailyStats copies today's redis click/visitor counters into the
// daily_stats table, one row per shortcode per day. Scheduled via cron from
// main; only wired when both MySQL and redis are configured.
func FlushDailyStats(db *gorm.DB, c *cache.Cache) error {
	logging.Logger.Info("FlushDailyStats start")

	var urls []model.ShortURL
	if err := db.Find(&urls).Error; err != nil {
		logging.Logger.Error("Failed to list short urls", zap.Error(err))
		return err
	}

	today := time.Now().Format("2006-01-02")
	dateKey := time.Now().Format("20060102")
	for _, u := range urls {
		flushDailyStat(db, c, u, today, dateKey)
	}

	logging.Logger.Info("FlushDailyStats end")
	return nil
}

func flushDailyStat(db *gorm.DB, c *cache.Cache, u model.ShortURL, today, dateKey string) {
	clicks, err := c.GetDailyClicks(u.Shortcode, dateKey)
	if err != nil {
		logging.Logger.Error("Failed to read daily clicks",
			zap.String("shortcode", u.Shortcode),
			zap.Error(err))
		return
	}

	visitors, err := c.GetDailyVisitors(u.Shortcode, dateKey)
	if err != nil {
		logging.Logger.Error("Failed to read daily visitors",
			zap.String("shortcode", u.Shortcode),
			zap.Error(err))
		return
	}

	if clicks == 0 && visitors == 0 {
		return
	}

	stat := &model.DailyStat{
		ShortURLID: u.ID,
		Date:       today,
		Clicks:     clicks,
		Visitors:   visitors,
	}

	result := db.Where("short_url_id = ? AND date = ?", u.ID, today).
		Assign("clicks", clicks, "visitors", visitors).
		FirstOrCreate(stat)
	if result.Error != nil {
		logging.Logger.Error("Failed to upsert daily stat",
			zap.Uint("short_url_id", u.ID),
			zap.String("date", today),
			zap.Int64("clicks", clicks),
			zap.Int64("visitors", visitors),
			zap.Error(result.Error),
		)
	}
}
