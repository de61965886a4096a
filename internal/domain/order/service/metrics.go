package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// webhookResultTotal 回调处理结果计数
// result: applied / duplicate / rejected / not_found / error
var webhookResultTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payment_webhook_results_total",
		Help: "Payment webhook processing results",
	},
	[]string{"result"},
)
