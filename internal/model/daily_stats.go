package model

type DailyStat struct {
	BaseModel
	ShortURLID uint   `gorm:"index"`
	Date       string `gorm:"type:date;index"` // YYYY-MM-DD
	Clicks     int64  `gorm:"default:0"`
	Visitors   int64  `gorm:"default:0"`
}
