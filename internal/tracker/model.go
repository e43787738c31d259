package tracker

import (
	"time"
)

// DailyEntry 定义了daily_tracker表的持久化模型。
// 每个(用户, 天数)组合至多一行，由唯一索引兜底，
// 由SaveEntry的先查后写路径维护。
type DailyEntry struct {
	ID uint `gorm:"primarykey"`

	// UserID 是条目所属用户的Profile ID
	UserID string `gorm:"uniqueIndex:idx_user_day;type:varchar(36);not null"`

	// DayNumber 是斋月中的第几天，范围[1, N]
	DayNumber int `gorm:"uniqueIndex:idx_user_day;not null"`

	// 布尔类功课：当天是否完成
	Tarawih bool // 泰拉威哈拜（夜间拜功）
	Sunan   bool // 圣行拜
	Witr    bool // 奇数拜
	Azkar   bool // 赞念

	// 计数类功课：当天的数量
	Reading  int // 诵读页数
	Mudarasa int // 研读次数

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayRecord 是单天可编辑的功课字段集合。
// 它是API的请求/响应载体，也是LoadEntry的返回值；
// 零值（全false、全0）就是“这一天还没有记录”的合法状态。
type DayRecord struct {
	Tarawih  bool `json:"tarawih"`
	Sunan    bool `json:"sunan"`
	Witr     bool `json:"witr"`
	Azkar    bool `json:"azkar"`
	Reading  int  `json:"reading"`
	Mudarasa int  `json:"mudarasa"`
}

// Record 提取条目中的可编辑字段。
func (e DailyEntry) Record() DayRecord {
	return DayRecord{
		Tarawih:  e.Tarawih,
		Sunan:    e.Sunan,
		Witr:     e.Witr,
		Azkar:    e.Azkar,
		Reading:  e.Reading,
		Mudarasa: e.Mudarasa,
	}
}
