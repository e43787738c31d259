package tracker

import (
	"errors"
	"fmt"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/config"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/metadata"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidDay 表示天数不在[1, N]范围内
	ErrInvalidDay = errors.New("天数超出活动范围")
	// ErrInvalidRecord 表示计数字段出现负数
	ErrInvalidRecord = errors.New("计数字段不能为负数")
)

func validateDay(day int) error {
	if day < 1 || day > config.Cfg.Campaign.LengthDays {
		return ErrInvalidDay
	}
	return nil
}

// LoadEntry 读取某用户某天的记录。
// “这一天还没有记录”不是错误，返回零值DayRecord；
// 只有传输/数据库层面的失败才会返回错误。
func LoadEntry(userID string, day int) (DayRecord, error) {
	if err := validateDay(day); err != nil {
		return DayRecord{}, err
	}

	var entry DailyEntry
	err := database.DB.Where("user_id = ? AND day_number = ?", userID, day).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DayRecord{}, nil
		}
		return DayRecord{}, fmt.Errorf("读取第%d天的记录失败: %w", day, err)
	}
	return entry.Record(), nil
}

// SaveEntry 保存某用户某天的记录。
// 先在事务内查询该行是否存在，存在则只更新功课字段，
// 不存在则插入新行，以此维护“每天至多一行”的约束。
// 失败时数据库不会留下半成品状态，调用方的内存状态也应保持不变。
func SaveEntry(userID string, day int, record DayRecord) error {
	if err := validateDay(day); err != nil {
		return err
	}
	if record.Reading < 0 || record.Mudarasa < 0 {
		return ErrInvalidRecord
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing DailyEntry
		// 行锁防止同一(user, day)的并发保存互相交错
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND day_number = ?", userID, day).
			First(&existing).Error

		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("检查已有记录失败: %w", err)
			}
			// 这一天还没有记录，插入新行
			newEntry := DailyEntry{
				UserID:    userID,
				DayNumber: day,
				Tarawih:   record.Tarawih,
				Sunan:     record.Sunan,
				Witr:      record.Witr,
				Azkar:     record.Azkar,
				Reading:   record.Reading,
				Mudarasa:  record.Mudarasa,
			}
			if err := tx.Create(&newEntry).Error; err != nil {
				return fmt.Errorf("插入记录失败: %w", err)
			}
			return nil
		}

		// 已有记录，只更新功课字段；用map保证false/0也会被写入
		updates := map[string]interface{}{
			"tarawih":  record.Tarawih,
			"sunan":    record.Sunan,
			"witr":     record.Witr,
			"azkar":    record.Azkar,
			"reading":  record.Reading,
			"mudarasa": record.Mudarasa,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("更新记录失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 保存成功后递增全局版本号，使缓存的对比表失效
	metadata.BumpRevision()
	return nil
}

// --- 个人汇总 ---

// UserSummary 是单个用户在整个活动期间的汇总统计。
type UserSummary struct {
	TotalDays     int `json:"totalDays"`
	TarawihCount  int `json:"tarawihCount"`
	SunanCount    int `json:"sunanCount"`
	WitrCount     int `json:"witrCount"`
	AzkarCount    int `json:"azkarCount"`
	TotalReading  int `json:"totalReading"`
	TotalMudarasa int `json:"totalMudarasa"`
	// CompletionRate 是四项拜功/赞念俱全的天数占已记录天数的百分比
	CompletionRate int `json:"completionRate"`
}

// Summarize 把一个用户的全部条目折算成汇总统计。
func Summarize(entries []DailyEntry) UserSummary {
	var s UserSummary
	completedDays := 0
	for _, e := range entries {
		s.TotalDays++
		if e.Tarawih {
			s.TarawihCount++
		}
		if e.Sunan {
			s.SunanCount++
		}
		if e.Witr {
			s.WitrCount++
		}
		if e.Azkar {
			s.AzkarCount++
		}
		s.TotalReading += e.Reading
		s.TotalMudarasa += e.Mudarasa
		if e.Tarawih && e.Sunan && e.Witr && e.Azkar {
			completedDays++
		}
	}
	if s.TotalDays > 0 {
		s.CompletionRate = int(float64(completedDays)/float64(s.TotalDays)*100 + 0.5)
	}
	return s
}

// GetUserSummary 读取并汇总某个用户的全部条目。
func GetUserSummary(userID string) (UserSummary, error) {
	entries, err := GetEntriesByUser(userID)
	if err != nil {
		return UserSummary{}, err
	}
	return Summarize(entries), nil
}

// GetEntriesByUser 读取某个用户的全部条目。
func GetEntriesByUser(userID string) ([]DailyEntry, error) {
	var entries []DailyEntry
	if err := database.DB.Where("user_id = ?", userID).Order("day_number asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("读取用户条目失败: %w", err)
	}
	return entries, nil
}

// GetAllEntries 读取全部条目，供聚合引擎使用。
func GetAllEntries() ([]DailyEntry, error) {
	var entries []DailyEntry
	if err := database.DB.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("读取全部条目失败: %w", err)
	}
	return entries, nil
}
