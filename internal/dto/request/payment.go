package request

type RechargeRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required,oneof=wechat alipay offline"`
}

// GatewayCallbackRequest is the trusted confirmation signal from the
// external payment gateway.
type GatewayCallbackRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	Result  string `json:"result" validate:"required,oneof=success failed"`
}
