package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"bookingtour/constants"
	"bookingtour/errors"
	"bookingtour/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newVoucherDB mở sqlite in-memory trên một kết nối duy nhất để mọi truy vấn thấy cùng dữ liệu
func newVoucherDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.Voucher{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func seedVoucher(t *testing.T, db *gorm.DB, code string, modify func(v *models.Voucher)) *models.Voucher {
	t.Helper()
	v := activeVoucher()
	v.ID = 0
	v.VoucherCode = code
	if modify != nil {
		modify(v)
	}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed voucher %s: %v", code, err)
	}
	return v
}

func usedCount(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var v models.Voucher
	if err := db.First(&v, id).Error; err != nil {
		t.Fatalf("reload voucher %d: %v", id, err)
	}
	return v.UsedCount
}

func newTestVoucherService(db *gorm.DB, rdb *redis.Client) *VoucherService {
	return NewVoucherService(VoucherServiceOptions{
		DB:    db,
		Redis: rdb,
		Clock: func() time.Time { return testNow },
	})
}

func TestVoucherServiceUse(t *testing.T) {
	ctx := context.Background()
	db := newVoucherDB(t)
	svc := newTestVoucherService(db, nil)
	v := seedVoucher(t, db, "ONCE", func(v *models.Voucher) { v.UsageLimit = intPtr(1) })

	got, err := svc.Use(ctx, v.ID, "")
	if err != nil {
		t.Fatalf("first use: %v", err)
	}
	if got.UsedCount != 1 {
		t.Errorf("UsedCount = %d, want 1", got.UsedCount)
	}

	_, err = svc.Use(ctx, v.ID, "")
	if !errors.HasCode(err, errors.ErrCodeVoucherUsageExhausted) {
		t.Fatalf("second use err = %v, want %s", err, errors.ErrCodeVoucherUsageExhausted)
	}
	if n := usedCount(t, db, v.ID); n != 1 {
		t.Errorf("used_count = %d after rejected use, want 1", n)
	}
}

func TestVoucherServiceUseRejects(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(v *models.Voucher)
		deleted  bool
		wantCode errors.ErrorCode
	}{
		{
			name:     "usage limit reached",
			modify:   func(v *models.Voucher) { v.UsageLimit = intPtr(2); v.UsedCount = 2 },
			wantCode: errors.ErrCodeVoucherUsageExhausted,
		},
		{
			name:     "expired",
			modify:   func(v *models.Voucher) { v.ValidTo = testNow.Add(-time.Hour) },
			wantCode: errors.ErrCodeVoucherExpired,
		},
		{
			name:     "not yet valid",
			modify:   func(v *models.Voucher) { v.ValidFrom = testNow.Add(time.Hour) },
			wantCode: errors.ErrCodeVoucherExpired,
		},
		{
			name:     "expired and exhausted reports expired",
			modify:   func(v *models.Voucher) { v.ValidTo = testNow.Add(-time.Hour); v.UsageLimit = intPtr(1); v.UsedCount = 1 },
			wantCode: errors.ErrCodeVoucherExpired,
		},
		{
			name:     "inactive",
			modify:   func(v *models.Voucher) { v.Status = models.VoucherStatusInactive },
			wantCode: errors.ErrCodeVoucherNotFound,
		},
		{
			name:     "deleted",
			deleted:  true,
			wantCode: errors.ErrCodeVoucherNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db := newVoucherDB(t)
			svc := newTestVoucherService(db, nil)
			v := seedVoucher(t, db, "REJECT", tt.modify)
			before := usedCount(t, db, v.ID)
			if tt.deleted {
				if err := svc.Delete(ctx, v.ID); err != nil {
					t.Fatalf("delete: %v", err)
				}
			}

			_, err := svc.Use(ctx, v.ID, "")
			if !errors.HasCode(err, tt.wantCode) {
				t.Fatalf("err = %v, want %s", err, tt.wantCode)
			}
			if n := usedCount(t, db, v.ID); n != before {
				t.Errorf("used_count = %d, want unchanged %d", n, before)
			}
		})
	}

	t.Run("unknown id", func(t *testing.T) {
		svc := newTestVoucherService(newVoucherDB(t), nil)
		if _, err := svc.Use(context.Background(), 999, ""); !errors.HasCode(err, errors.ErrCodeVoucherNotFound) {
			t.Fatalf("err = %v, want %s", err, errors.ErrCodeVoucherNotFound)
		}
	})
}

func TestVoucherServiceUseIdempotencyKey(t *testing.T) {
	ctx := context.Background()

	t.Run("repeated key consumes once", func(t *testing.T) {
		db := newVoucherDB(t)
		_, rdb := newTestRedis(t)
		svc := newTestVoucherService(db, rdb)
		v := seedVoucher(t, db, "IDEM", nil)

		for i := 0; i < 3; i++ {
			got, err := svc.Use(ctx, v.ID, "order-42")
			if err != nil {
				t.Fatalf("use #%d: %v", i+1, err)
			}
			if got.UsedCount != 1 {
				t.Errorf("use #%d UsedCount = %d, want 1", i+1, got.UsedCount)
			}
		}
		if _, err := svc.Use(ctx, v.ID, "order-43"); err != nil {
			t.Fatalf("use with new key: %v", err)
		}
		if n := usedCount(t, db, v.ID); n != 2 {
			t.Errorf("used_count = %d, want 2", n)
		}
	})

	t.Run("rejected use releases key", func(t *testing.T) {
		db := newVoucherDB(t)
		mr, rdb := newTestRedis(t)
		svc := newTestVoucherService(db, rdb)
		v := seedVoucher(t, db, "FULL", func(v *models.Voucher) { v.UsageLimit = intPtr(1); v.UsedCount = 1 })

		if _, err := svc.Use(ctx, v.ID, "retry-me"); !errors.HasCode(err, errors.ErrCodeVoucherUsageExhausted) {
			t.Fatalf("err = %v, want %s", err, errors.ErrCodeVoucherUsageExhausted)
		}
		if mr.Exists(useKey(v.ID, "retry-me")) {
			t.Error("key kept after rejected use")
		}
	})

	t.Run("failed read back keeps key", func(t *testing.T) {
		db := newVoucherDB(t)
		mr, rdb := newTestRedis(t)
		svc := newTestVoucherService(db, rdb)
		v := seedVoucher(t, db, "READBACK", nil)

		failReads := false
		if err := db.Callback().Update().After("gorm:update").Register("test:fail_reads", func(*gorm.DB) {
			failReads = true
		}); err != nil {
			t.Fatal(err)
		}
		if err := db.Callback().Query().Before("gorm:query").Register("test:read_error", func(tx *gorm.DB) {
			if failReads {
				_ = tx.AddError(stderrors.New("connection reset"))
			}
		}); err != nil {
			t.Fatal(err)
		}

		if _, err := svc.Use(ctx, v.ID, "flaky"); err == nil {
			t.Fatal("expected read back error")
		}
		if !mr.Exists(useKey(v.ID, "flaky")) {
			t.Fatal("key released although a slot was consumed")
		}

		failReads = false
		got, err := svc.Use(ctx, v.ID, "flaky")
		if err != nil {
			t.Fatalf("retry: %v", err)
		}
		if got.UsedCount != 1 {
			t.Errorf("UsedCount = %d after retry, want 1", got.UsedCount)
		}
	})
}

func TestVoucherServiceRedeem(t *testing.T) {
	ctx := context.Background()
	capped := func(v *models.Voucher) { v.MaxDiscountAmount = decPtr("100000") }

	t.Run("committed transaction consumes a slot", func(t *testing.T) {
		db := newVoucherDB(t)
		svc := newTestVoucherService(db, nil)
		v := seedVoucher(t, db, "SUMMER", capped)

		var quote *VoucherQuote
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			quote, err = svc.Redeem(ctx, tx, " SUMMER ", dec("1000000"))
			return err
		})
		if err != nil {
			t.Fatalf("redeem: %v", err)
		}
		if !quote.DiscountAmount.Equal(dec("100000")) || !quote.FinalAmount.Equal(dec("900000")) {
			t.Errorf("quote = %s / %s, want 100000 / 900000", quote.DiscountAmount, quote.FinalAmount)
		}
		if n := usedCount(t, db, v.ID); n != 1 {
			t.Errorf("used_count = %d, want 1", n)
		}
	})

	t.Run("rolled back transaction keeps the slot", func(t *testing.T) {
		db := newVoucherDB(t)
		svc := newTestVoucherService(db, nil)
		v := seedVoucher(t, db, "SUMMER", capped)

		errBookingFailed := stderrors.New("insert booking failed")
		err := db.Transaction(func(tx *gorm.DB) error {
			if _, err := svc.Redeem(ctx, tx, "SUMMER", dec("1000000")); err != nil {
				return err
			}
			return errBookingFailed
		})
		if !stderrors.Is(err, errBookingFailed) {
			t.Fatalf("err = %v, want %v", err, errBookingFailed)
		}
		if n := usedCount(t, db, v.ID); n != 0 {
			t.Errorf("used_count = %d after rollback, want 0", n)
		}
	})

	t.Run("below minimum does not consume", func(t *testing.T) {
		db := newVoucherDB(t)
		svc := newTestVoucherService(db, nil)
		v := seedVoucher(t, db, "BIGORDER", func(v *models.Voucher) { v.MinOrderAmount = decPtr("1500000") })

		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := svc.Redeem(ctx, tx, "BIGORDER", dec("1000000"))
			return err
		})
		if !errors.HasCode(err, errors.ErrCodeVoucherBelowMinimum) {
			t.Fatalf("err = %v, want %s", err, errors.ErrCodeVoucherBelowMinimum)
		}
		if n := usedCount(t, db, v.ID); n != 0 {
			t.Errorf("used_count = %d, want 0", n)
		}
	})

	t.Run("exhausted voucher", func(t *testing.T) {
		db := newVoucherDB(t)
		svc := newTestVoucherService(db, nil)
		seedVoucher(t, db, "GONE", func(v *models.Voucher) { v.UsageLimit = intPtr(3); v.UsedCount = 3 })

		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := svc.Redeem(ctx, tx, "GONE", dec("1000000"))
			return err
		})
		if !errors.HasCode(err, errors.ErrCodeVoucherUsageExhausted) {
			t.Fatalf("err = %v, want %s", err, errors.ErrCodeVoucherUsageExhausted)
		}
	})
}

func TestVoucherServiceUpdate(t *testing.T) {
	ctx := context.Background()

	updateInput := func() *models.Voucher {
		in := activeVoucher()
		in.ID = 0
		in.VoucherCode = "SUMMER"
		in.VoucherName = "Khuyến mãi hè mới"
		in.DiscountType = "Fixed"
		in.DiscountValue = dec("50000")
		return in
	}

	t.Run("keeps used count", func(t *testing.T) {
		db := newVoucherDB(t)
		svc := newTestVoucherService(db, nil)
		v := seedVoucher(t, db, "SUMMER", func(v *models.Voucher) { v.UsedCount = 3 })

		in := updateInput()
		in.UsedCount = 0
		got, err := svc.Update(ctx, v.ID, in)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if got.UsedCount != 3 {
			t.Errorf("UsedCount = %d, want 3", got.UsedCount)
		}
		if got.VoucherName != "Khuyến mãi hè mới" {
			t.Errorf("VoucherName = %q", got.VoucherName)
		}
		if got.DiscountType != models.DiscountTypeFixed {
			t.Errorf("DiscountType = %q, want %q", got.DiscountType, models.DiscountTypeFixed)
		}
	})

	t.Run("deleted voucher is not found", func(t *testing.T) {
		db := newVoucherDB(t)
		svc := newTestVoucherService(db, nil)
		v := seedVoucher(t, db, "SUMMER", nil)
		if err := svc.Delete(ctx, v.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}

		in := updateInput()
		in.Status = models.VoucherStatusActive
		if _, err := svc.Update(ctx, v.ID, in); !errors.HasCode(err, errors.ErrCodeDBNotFound) {
			t.Fatalf("err = %v, want %s", err, errors.ErrCodeDBNotFound)
		}
		var stored models.Voucher
		if err := db.First(&stored, v.ID).Error; err != nil {
			t.Fatal(err)
		}
		if stored.Status != models.VoucherStatusDeleted {
			t.Errorf("status = %s, want Deleted", stored.Status)
		}
	})

	t.Run("duplicate code", func(t *testing.T) {
		db := newVoucherDB(t)
		svc := newTestVoucherService(db, nil)
		seedVoucher(t, db, "SUMMER", nil)
		other := seedVoucher(t, db, "WINTER", nil)

		if _, err := svc.Update(ctx, other.ID, updateInput()); !errors.HasCode(err, errors.ErrCodeVoucherCodeExists) {
			t.Fatalf("err = %v, want %s", err, errors.ErrCodeVoucherCodeExists)
		}
	})

	t.Run("id mismatch", func(t *testing.T) {
		db := newVoucherDB(t)
		svc := newTestVoucherService(db, nil)
		v := seedVoucher(t, db, "SUMMER", nil)

		in := updateInput()
		in.ID = v.ID + 1
		if _, err := svc.Update(ctx, v.ID, in); !errors.HasCode(err, errors.ErrCodeIDMismatch) {
			t.Fatalf("err = %v, want %s", err, errors.ErrCodeIDMismatch)
		}
	})
}

func TestVoucherServiceCreateAndDelete(t *testing.T) {
	ctx := context.Background()
	db := newVoucherDB(t)
	svc := newTestVoucherService(db, nil)

	v := activeVoucher()
	v.ID = 0
	v.UsedCount = 7
	v.Status = ""
	v.DiscountType = "PERCENTAGE"
	if err := svc.Create(ctx, v); err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.UsedCount != 0 || v.Status != models.VoucherStatusActive || v.DiscountType != models.DiscountTypePercentage {
		t.Errorf("created = %+v", v)
	}

	dup := activeVoucher()
	dup.ID = 0
	if err := svc.Create(ctx, dup); !errors.HasCode(err, errors.ErrCodeVoucherCodeExists) {
		t.Fatalf("duplicate create err = %v, want %s", err, errors.ErrCodeVoucherCodeExists)
	}

	if err := svc.Delete(ctx, v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, v.ID); !errors.HasCode(err, errors.ErrCodeDBNotFound) {
		t.Errorf("second delete err = %v, want %s", err, errors.ErrCodeDBNotFound)
	}
	if _, err := svc.Get(ctx, v.ID); !errors.HasCode(err, errors.ErrCodeDBNotFound) {
		t.Errorf("get after delete err = %v, want %s", err, errors.ErrCodeDBNotFound)
	}
}

func TestVoucherServiceListActiveDropsExpiredCacheEntries(t *testing.T) {
	ctx := context.Background()
	db := newVoucherDB(t)
	mr, rdb := newTestRedis(t)
	now := testNow
	svc := NewVoucherService(VoucherServiceOptions{
		DB:    db,
		Redis: rdb,
		Clock: func() time.Time { return now },
	})
	seedVoucher(t, db, "FLASH", func(v *models.Voucher) { v.ValidTo = testNow.Add(10 * time.Minute) })
	seedVoucher(t, db, "SUMMER", nil)

	first, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 {
		t.Fatalf("len = %d, want 2", len(first))
	}
	if !mr.Exists(constants.CacheKeyActiveVouchers) {
		t.Fatal("active list not cached")
	}

	// xóa dữ liệu gốc để chắc chắn lần đọc sau lấy từ cache
	if err := db.Exec("DELETE FROM vouchers").Error; err != nil {
		t.Fatal(err)
	}
	now = testNow.Add(20 * time.Minute)

	second, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 1 || second[0].VoucherCode != "SUMMER" {
		t.Fatalf("cached list = %+v, want only SUMMER", second)
	}
}
