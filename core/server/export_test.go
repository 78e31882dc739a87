package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

var ParseTemperature = parseTemperature

func RequestsCounter() prometheus.Counter { return inferenceMetrics.requests }

func NoFireCounter() prometheus.Counter { return inferenceMetrics.noFire }

func ErrorsCounter() prometheus.Counter { return inferenceMetrics.errors }
