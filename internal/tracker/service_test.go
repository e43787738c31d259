package tracker

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/config"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// setupTestDB 把全局数据库替换为一个独立的内存SQLite实例。
// Redis标记为不可用，保存路径因此只走数据库。
func setupTestDB(t *testing.T) {
	t.Helper()

	config.Cfg = &config.Config{
		Campaign: config.CampaignConfig{StartDate: "2026-02-17", LengthDays: 30},
	}
	database.UpdateStatus(false, "")

	dsn := fmt.Sprintf("file:tracker_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&DailyEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db
}

func countEntries(t *testing.T, userID string, day int) int64 {
	t.Helper()
	var n int64
	if err := database.DB.Model(&DailyEntry{}).
		Where("user_id = ? AND day_number = ?", userID, day).Count(&n).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	return n
}

func TestLoadEntryMissingReturnsZeroRecord(t *testing.T) {
	setupTestDB(t)

	record, err := LoadEntry("user-a", 5)
	if err != nil {
		t.Fatalf("loading an absent day must not fail: %v", err)
	}
	if record != (DayRecord{}) {
		t.Fatalf("expected zero record, got %+v", record)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	setupTestDB(t)

	saved := DayRecord{Tarawih: true, Witr: true, Reading: 12, Mudarasa: 2}
	if err := SaveEntry("user-a", 5, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadEntry("user-a", 5)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != saved {
		t.Fatalf("round trip mismatch: got %+v, want %+v", loaded, saved)
	}
}

func TestSaveUpdatesInPlace(t *testing.T) {
	setupTestDB(t)

	if err := SaveEntry("user-a", 3, DayRecord{Tarawih: true, Reading: 10}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	// 第二次保存把布尔值改回false、计数改为0，必须同样生效
	if err := SaveEntry("user-a", 3, DayRecord{Azkar: true}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	if n := countEntries(t, "user-a", 3); n != 1 {
		t.Fatalf("same (user, day) must keep a single row, got %d", n)
	}

	loaded, err := LoadEntry("user-a", 3)
	if err != nil {
		t.Fatal(err)
	}
	want := DayRecord{Azkar: true}
	if loaded != want {
		t.Fatalf("update in place: got %+v, want %+v", loaded, want)
	}
}

func TestSaveDoesNotTouchOtherRows(t *testing.T) {
	setupTestDB(t)

	recB := DayRecord{Sunan: true, Reading: 7}
	recA6 := DayRecord{Witr: true}
	if err := SaveEntry("user-b", 5, recB); err != nil {
		t.Fatal(err)
	}
	if err := SaveEntry("user-a", 6, recA6); err != nil {
		t.Fatal(err)
	}

	// 保存A的第5天，不得影响B的第5天和A的第6天
	if err := SaveEntry("user-a", 5, DayRecord{Tarawih: true, Reading: 20}); err != nil {
		t.Fatal(err)
	}

	gotB, _ := LoadEntry("user-b", 5)
	if gotB != recB {
		t.Fatalf("user-b day 5 changed: got %+v, want %+v", gotB, recB)
	}
	gotA6, _ := LoadEntry("user-a", 6)
	if gotA6 != recA6 {
		t.Fatalf("user-a day 6 changed: got %+v, want %+v", gotA6, recA6)
	}
}

func TestSaveAndLoadRejectInvalidDay(t *testing.T) {
	setupTestDB(t)

	for _, day := range []int{0, -1, 31, 100} {
		if err := SaveEntry("user-a", day, DayRecord{}); err != ErrInvalidDay {
			t.Fatalf("save day %d: expected ErrInvalidDay, got %v", day, err)
		}
		if _, err := LoadEntry("user-a", day); err != ErrInvalidDay {
			t.Fatalf("load day %d: expected ErrInvalidDay, got %v", day, err)
		}
	}
}

func TestSaveRejectsNegativeCounters(t *testing.T) {
	setupTestDB(t)

	if err := SaveEntry("user-a", 1, DayRecord{Reading: -1}); err != ErrInvalidRecord {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if err := SaveEntry("user-a", 1, DayRecord{Mudarasa: -5}); err != ErrInvalidRecord {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	// 拒绝之后不能留下任何行
	if n := countEntries(t, "user-a", 1); n != 0 {
		t.Fatalf("rejected save must not persist anything, got %d rows", n)
	}
}

func TestSummarize(t *testing.T) {
	entries := []DailyEntry{
		{DayNumber: 1, Tarawih: true, Sunan: true, Witr: true, Azkar: true, Reading: 10, Mudarasa: 1},
		{DayNumber: 2, Tarawih: true, Reading: 5},
		{DayNumber: 3},
	}

	s := Summarize(entries)
	if s.TotalDays != 3 {
		t.Fatalf("totalDays: got %d, want 3", s.TotalDays)
	}
	if s.TarawihCount != 2 || s.SunanCount != 1 || s.WitrCount != 1 || s.AzkarCount != 1 {
		t.Fatalf("boolean counts wrong: %+v", s)
	}
	if s.TotalReading != 15 || s.TotalMudarasa != 1 {
		t.Fatalf("counter sums wrong: %+v", s)
	}
	// 3天中只有1天四项俱全
	if s.CompletionRate != 33 {
		t.Fatalf("completionRate: got %d, want 33", s.CompletionRate)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s != (UserSummary{}) {
		t.Fatalf("empty summary must be all zero, got %+v", s)
	}
}

func TestGetUserSummary(t *testing.T) {
	setupTestDB(t)

	if err := SaveEntry("user-a", 1, DayRecord{Tarawih: true, Reading: 4}); err != nil {
		t.Fatal(err)
	}
	if err := SaveEntry("user-a", 2, DayRecord{Reading: 6}); err != nil {
		t.Fatal(err)
	}
	if err := SaveEntry("user-b", 1, DayRecord{Reading: 100}); err != nil {
		t.Fatal(err)
	}

	s, err := GetUserSummary("user-a")
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalDays != 2 || s.TotalReading != 10 || s.TarawihCount != 1 {
		t.Fatalf("summary wrong: %+v", s)
	}
}
