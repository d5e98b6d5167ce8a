package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	promoRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/promo"
	"github.com/m04kA/SBP-AppointmentService/pkg/ptr"
)

type fakePromoRepo struct {
	getFn           func(ctx context.Context, tenantID int64, code string) (*domain.DiscountCode, *domain.Promotion, error)
	incCodeFn       func(ctx context.Context, codeID int64) error
	incPromotionFn  func(ctx context.Context, promotionID int64) error
	codeIncrements  int
	promoIncrements int
}

func (f *fakePromoRepo) GetCodeWithPromotion(ctx context.Context, tenantID int64, code string) (*domain.DiscountCode, *domain.Promotion, error) {
	if f.getFn == nil {
		return nil, nil, promoRepo.ErrCodeNotFound
	}
	return f.getFn(ctx, tenantID, code)
}

func (f *fakePromoRepo) IncrementCodeUsage(ctx context.Context, codeID int64) error {
	f.codeIncrements++
	if f.incCodeFn == nil {
		return nil
	}
	return f.incCodeFn(ctx, codeID)
}

func (f *fakePromoRepo) IncrementPromotionUsage(ctx context.Context, promotionID int64) error {
	f.promoIncrements++
	if f.incPromotionFn == nil {
		return nil
	}
	return f.incPromotionFn(ctx, promotionID)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

var promoNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func activeCodeAndPromotion() (*domain.DiscountCode, *domain.Promotion) {
	code := &domain.DiscountCode{
		ID:          10,
		TenantID:    1,
		PromotionID: 20,
		Code:        "SPRING",
		Active:      true,
	}
	promotion := &domain.Promotion{
		ID:            20,
		TenantID:      1,
		Name:          "Весенняя акция",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 20,
		StartsAt:      promoNow.Add(-24 * time.Hour),
		Active:        true,
	}
	return code, promotion
}

func TestBuildQuote(t *testing.T) {
	svc := NewService(&fakePromoRepo{}, noopLogger{})

	tests := []struct {
		name string
		in   QuoteInput
		want Quote
	}{
		{
			name: "fixed discount with tax",
			in: QuoteInput{
				ServicePrice:   50,
				BookedDiscount: 10,
				TaxRate:        5,
			},
			want: Quote{
				Subtotal:       50,
				DiscountAmount: 10,
				TaxRate:        5,
				TaxAmount:      2,
				Total:          42,
			},
		},
		{
			name: "percentage discount with tax",
			in: QuoteInput{
				ServicePrice:   100,
				BookedDiscount: 20,
				TaxRate:        5,
			},
			want: Quote{
				Subtotal:       100,
				DiscountAmount: 20,
				TaxRate:        5,
				TaxAmount:      4,
				Total:          84,
			},
		},
		{
			name: "discount clamped at service price",
			in: QuoteInput{
				ServicePrice:   50,
				BookedDiscount: 80,
				TaxRate:        5,
			},
			want: Quote{
				Subtotal:       50,
				DiscountAmount: 50,
				TaxRate:        5,
				TaxAmount:      0,
				Total:          0,
			},
		},
		{
			// Чаевые не облагаются налогом и не уменьшаются скидкой
			name: "tip is untaxed and undiscounted",
			in: QuoteInput{
				ServicePrice:   50,
				BookedDiscount: 10,
				TaxRate:        5,
				Tip:            7,
			},
			want: Quote{
				Subtotal:       57,
				DiscountAmount: 10,
				TaxRate:        5,
				TaxAmount:      2,
				TipAmount:      7,
				Total:          49,
			},
		},
		{
			// Ручная процентная скидка кассира суммируется с зафиксированной
			name: "override percentage stacks with booked discount",
			in: QuoteInput{
				ServicePrice:   100,
				BookedDiscount: 10,
				OverrideAmount: ptr.Ptr(15.0),
				OverrideType:   ptr.Ptr(domain.DiscountPercentage),
				TaxRate:        0,
			},
			want: Quote{
				Subtotal:       100,
				DiscountAmount: 25,
				Total:          75,
			},
		},
		{
			name: "override without type defaults to fixed",
			in: QuoteInput{
				ServicePrice:   100,
				OverrideAmount: ptr.Ptr(30.0),
			},
			want: Quote{
				Subtotal:       100,
				DiscountAmount: 30,
				Total:          70,
			},
		},
		{
			name: "stacked discounts clamped at service price",
			in: QuoteInput{
				ServicePrice:   50,
				BookedDiscount: 40,
				OverrideAmount: ptr.Ptr(40.0),
			},
			want: Quote{
				Subtotal:       50,
				DiscountAmount: 50,
				Total:          0,
			},
		},
		{
			name: "fractional amounts rounded to cents",
			in: QuoteInput{
				ServicePrice:   33.33,
				BookedDiscount: 3.333,
				TaxRate:        7.5,
			},
			want: Quote{
				Subtotal:       33.33,
				DiscountAmount: 3.33,
				TaxRate:        7.5,
				TaxAmount:      2.25,
				Total:          32.25,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.BuildQuote(tt.in))
		})
	}
}

func TestDiscountAmount(t *testing.T) {
	assert.Equal(t, 10.0, DiscountAmount(domain.DiscountFixed, 10, 50))
	assert.Equal(t, 10.0, DiscountAmount(domain.DiscountPercentage, 20, 50))
	// Скидка не превышает чек
	assert.Equal(t, 50.0, DiscountAmount(domain.DiscountFixed, 80, 50))
	assert.Equal(t, 50.0, DiscountAmount(domain.DiscountPercentage, 150, 50))
	assert.Equal(t, 0.0, DiscountAmount(domain.DiscountFixed, -5, 50))
	assert.Equal(t, 1.67, DiscountAmount(domain.DiscountPercentage, 16.666, 10))
}

func TestResolveCode(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(code *domain.DiscountCode, promotion *domain.Promotion)
		subtotal float64
		wantErr  error
	}{
		{
			name:     "active code resolves",
			mutate:   func(code *domain.DiscountCode, promotion *domain.Promotion) {},
			subtotal: 100,
		},
		{
			name: "inactive code",
			mutate: func(code *domain.DiscountCode, promotion *domain.Promotion) {
				code.Active = false
			},
			subtotal: 100,
			wantErr:  ErrCodeInactive,
		},
		{
			name: "inactive promotion",
			mutate: func(code *domain.DiscountCode, promotion *domain.Promotion) {
				promotion.Active = false
			},
			subtotal: 100,
			wantErr:  ErrPromotionNotRunning,
		},
		{
			name: "promotion not started yet",
			mutate: func(code *domain.DiscountCode, promotion *domain.Promotion) {
				promotion.StartsAt = promoNow.Add(time.Hour)
			},
			subtotal: 100,
			wantErr:  ErrPromotionNotRunning,
		},
		{
			name: "promotion already ended",
			mutate: func(code *domain.DiscountCode, promotion *domain.Promotion) {
				promotion.EndsAt = ptr.Ptr(promoNow.Add(-time.Hour))
			},
			subtotal: 100,
			wantErr:  ErrPromotionNotRunning,
		},
		{
			name: "code usage limit reached",
			mutate: func(code *domain.DiscountCode, promotion *domain.Promotion) {
				code.UsageLimit = 5
				code.UsageCount = 5
			},
			subtotal: 100,
			wantErr:  ErrUsageLimitReached,
		},
		{
			name: "promotion usage limit reached",
			mutate: func(code *domain.DiscountCode, promotion *domain.Promotion) {
				promotion.UsageLimit = 100
				promotion.UsageCount = 100
			},
			subtotal: 100,
			wantErr:  ErrUsageLimitReached,
		},
		{
			name: "min spend not met",
			mutate: func(code *domain.DiscountCode, promotion *domain.Promotion) {
				promotion.MinSpend = ptr.Ptr(200.0)
			},
			subtotal: 100,
			wantErr:  ErrMinSpendNotMet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, promotion := activeCodeAndPromotion()
			tt.mutate(code, promotion)

			repo := &fakePromoRepo{
				getFn: func(ctx context.Context, tenantID int64, c string) (*domain.DiscountCode, *domain.Promotion, error) {
					return code, promotion, nil
				},
			}
			svc := NewService(repo, noopLogger{})

			resolved, err := svc.ResolveCode(context.Background(), 1, "SPRING", tt.subtotal, promoNow)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 20.0, resolved.Amount) // 20% от 100
			assert.Equal(t, code, resolved.Code)
			assert.Equal(t, promotion, resolved.Promotion)
		})
	}
}

func TestResolveCode_NotFound(t *testing.T) {
	svc := NewService(&fakePromoRepo{}, noopLogger{})

	_, err := svc.ResolveCode(context.Background(), 1, "MISSING", 100, promoNow)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestResolveCodeLenient(t *testing.T) {
	t.Run("business rejection gives zero discount", func(t *testing.T) {
		svc := NewService(&fakePromoRepo{}, noopLogger{})

		resolved, err := svc.ResolveCodeLenient(context.Background(), 1, "MISSING", 100, promoNow)
		require.NoError(t, err)
		assert.Nil(t, resolved)
	})

	t.Run("infrastructure error is passed through", func(t *testing.T) {
		repo := &fakePromoRepo{
			getFn: func(ctx context.Context, tenantID int64, code string) (*domain.DiscountCode, *domain.Promotion, error) {
				return nil, nil, errors.New("connection refused")
			},
		}
		svc := NewService(repo, noopLogger{})

		_, err := svc.ResolveCodeLenient(context.Background(), 1, "SPRING", 100, promoNow)
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("valid code resolves", func(t *testing.T) {
		code, promotion := activeCodeAndPromotion()
		repo := &fakePromoRepo{
			getFn: func(ctx context.Context, tenantID int64, c string) (*domain.DiscountCode, *domain.Promotion, error) {
				return code, promotion, nil
			},
		}
		svc := NewService(repo, noopLogger{})

		resolved, err := svc.ResolveCodeLenient(context.Background(), 1, "SPRING", 50, promoNow)
		require.NoError(t, err)
		require.NotNil(t, resolved)
		assert.Equal(t, 10.0, resolved.Amount)
	})
}

func TestApplyUsage(t *testing.T) {
	code, promotion := activeCodeAndPromotion()
	resolved := &ResolvedCode{Code: code, Promotion: promotion, Amount: 20}

	t.Run("increments both counters", func(t *testing.T) {
		repo := &fakePromoRepo{}
		svc := NewService(repo, noopLogger{})

		require.NoError(t, svc.ApplyUsage(context.Background(), resolved))
		assert.Equal(t, 1, repo.codeIncrements)
		assert.Equal(t, 1, repo.promoIncrements)
	})

	t.Run("maps exhausted code limit", func(t *testing.T) {
		repo := &fakePromoRepo{
			incCodeFn: func(ctx context.Context, codeID int64) error {
				return promoRepo.ErrUsageLimitReached
			},
		}
		svc := NewService(repo, noopLogger{})

		err := svc.ApplyUsage(context.Background(), resolved)
		assert.ErrorIs(t, err, ErrUsageLimitReached)
		assert.Equal(t, 0, repo.promoIncrements)
	})

	t.Run("maps exhausted promotion limit", func(t *testing.T) {
		repo := &fakePromoRepo{
			incPromotionFn: func(ctx context.Context, promotionID int64) error {
				return promoRepo.ErrUsageLimitReached
			},
		}
		svc := NewService(repo, noopLogger{})

		err := svc.ApplyUsage(context.Background(), resolved)
		assert.ErrorIs(t, err, ErrUsageLimitReached)
	})
}

func TestRound(t *testing.T) {
	assert.Equal(t, 42.0, Round(42.004))
	assert.Equal(t, 42.01, Round(42.006))
	assert.Equal(t, 0.1, Round(0.1))
	assert.Equal(t, -1.5, Round(-1.499))
}
