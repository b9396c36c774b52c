package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeRecharge   PaymentType = "recharge"
	PaymentTypeCourseFee  PaymentType = "course_fee"
	PaymentTypeRefund     PaymentType = "refund"
	PaymentTypeContestFee PaymentType = "contest_fee"
)

type PaymentMethod string

const (
	PaymentMethodWechat  PaymentMethod = "wechat"
	PaymentMethodAlipay  PaymentMethod = "alipay"
	PaymentMethodOffline PaymentMethod = "offline"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment is one transaction record. OrderID is unique system-wide.
// RelatedID points at the booking the record settles, when there is one.
type Payment struct {
	Base
	UserID    uuid.UUID       `db:"user_id"`
	Amount    decimal.Decimal `db:"amount"`
	Type      PaymentType     `db:"payment_type"`
	Method    PaymentMethod   `db:"payment_method"`
	OrderID   string          `db:"order_id"`
	Status    PaymentStatus   `db:"status"`
	RelatedID *uuid.UUID      `db:"related_id"`
}
