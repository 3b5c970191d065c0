package disk

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Blackdeer1524/blockfile/src/pkg/utils"
)

const meterName = "github.com/Blackdeer1524/blockfile/src/storage/disk"

type ioMetrics struct {
	read     metric.Int64Counter
	written  metric.Int64Counter
	appended metric.Int64Counter
}

func newIOMetrics(mp metric.MeterProvider) ioMetrics {
	meter := mp.Meter(meterName)

	return ioMetrics{
		read: utils.Must(meter.Int64Counter(
			"disk.blocks.read",
			metric.WithDescription("Blocks read from block files"),
			metric.WithUnit("{block}"),
		)),
		written: utils.Must(meter.Int64Counter(
			"disk.blocks.written",
			metric.WithDescription("Blocks written to block files"),
			metric.WithUnit("{block}"),
		)),
		appended: utils.Must(meter.Int64Counter(
			"disk.blocks.appended",
			metric.WithDescription("Blocks allocated at the end of block files"),
			metric.WithUnit("{block}"),
		)),
	}
}

func inc(c metric.Int64Counter, filename string) {
	c.Add(context.Background(), 1, metric.WithAttributes(attribute.String("file", filename)))
}
