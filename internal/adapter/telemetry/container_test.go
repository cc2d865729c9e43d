package telemetry

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func TestNewContainer_Disabled(t *testing.T) {
	RegisterTestingT(t)

	container, err := NewContainer(Config{Enabled: false, ServiceName: "memtodo"}, zap.NewNop())

	Expect(err).ToNot(HaveOccurred())
	Expect(container.AppMetrics).ToNot(BeNil())
	Expect(container.TracerProvider).To(BeNil())
	Expect(container.MetricsServer).To(BeNil())
	Expect(container.NewTelemetryProbe()).ToNot(BeNil())
	Expect(container.Shutdown(context.Background())).To(Succeed())
}

func TestNewContainer_EnabledWithoutExporters(t *testing.T) {
	RegisterTestingT(t)

	container, err := NewContainer(Config{
		Enabled:        true,
		ServiceName:    "memtodo",
		ServiceVersion: "test",
		Environment:    "test",
	}, zap.NewNop())

	Expect(err).ToNot(HaveOccurred())
	Expect(container.TracerProvider).ToNot(BeNil())
	Expect(container.MeterProvider).ToNot(BeNil())
	Expect(container.MetricsServer).To(BeNil())

	families, err := container.PrometheusRegistry.Gather()
	Expect(err).ToNot(HaveOccurred())
	Expect(families).ToNot(BeEmpty())

	Expect(container.Shutdown(context.Background())).To(Succeed())
}
