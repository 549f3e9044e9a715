package constant

import (
	"fmt"
	"time"
)

const (
	BasePrefix = "shorturl:"
	Separator  = ":"
)

// Redis key templates.
const (
	Record        = BasePrefix + "record" + Separator + "%s"                       // shorturl:record:shortcode
	DailyClicks   = BasePrefix + "clicks" + Separator + "%s"                       // shorturl:clicks:yyyyMMdd (hash field = shortcode)
	DailyVisitors = BasePrefix + "visitors" + Separator + "%s" + Separator + "%s"  // shorturl:visitors:yyyyMMdd:shortcode
	TotalClicks   = BasePrefix + "total_clicks" + Separator + "%s"                 // shorturl:total_clicks:shortcode
	TotalVisitors = BasePrefix + "total_visitors" + Separator + "%s"               // shorturl:total_visitors:shortcode
)

// GetRecordKey builds the cache key for a short URL record.
func GetRecordKey(shortcode string) string {
	return fmt.Sprintf(Record, shortcode)
}

// GetDateKey returns today in yyyyMMdd form.
func GetDateKey() string {
	return time.Now().Format("20060102")
}

func GetDailyClicksKey(date string) string {
	return fmt.Sprintf(DailyClicks, date)
}

func GetDailyVisitorsKey(shortcode, date string) string {
	return fmt.Sprintf(DailyVisitors, date, shortcode)
}

func GetTotalClicksKey(shortcode string) string {
	return fmt.Sprintf(TotalClicks, shortcode)
}

func GetTotalVisitorsKey(shortcode string) string {
	return fmt.Sprintf(TotalVisitors, shortcode)
}
