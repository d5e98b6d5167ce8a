package domain

import "time"

// DiscountType тип скидки
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// IsValidDiscountType проверяет, что строка является допустимым типом скидки
func IsValidDiscountType(s string) bool {
	return DiscountType(s) == DiscountFixed || DiscountType(s) == DiscountPercentage
}

// Promotion акция салона
type Promotion struct {
	ID       int64
	TenantID int64
	Name     string

	DiscountType  DiscountType
	DiscountValue float64
	MinSpend      *float64 // NULL = без порога

	StartsAt time.Time
	EndsAt   *time.Time // NULL = бессрочная

	UsageLimit int // 0 = unlimited
	UsageCount int
	Active     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRunningAt проверяет, что акция активна и действует в указанный момент
func (p *Promotion) IsRunningAt(now time.Time) bool {
	if !p.Active {
		return false
	}
	if now.Before(p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return false
	}
	return true
}

// HasUsageLeft проверяет, что лимит использований акции не исчерпан
func (p *Promotion) HasUsageLeft() bool {
	return p.UsageLimit == 0 || p.UsageCount < p.UsageLimit
}

// MeetsMinSpend проверяет порог минимальной суммы
func (p *Promotion) MeetsMinSpend(subtotal float64) bool {
	return p.MinSpend == nil || subtotal >= *p.MinSpend
}

// DiscountCode промокод, привязанный к акции
type DiscountCode struct {
	ID          int64
	TenantID    int64
	PromotionID int64
	Code        string

	UsageLimit int // 0 = unlimited
	UsageCount int
	Active     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasUsageLeft проверяет, что лимит использований промокода не исчерпан
func (c *DiscountCode) HasUsageLeft() bool {
	return c.UsageLimit == 0 || c.UsageCount < c.UsageLimit
}
