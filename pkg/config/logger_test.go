package config

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func TestNewLokiLogger_InvalidLevel(t *testing.T) {
	RegisterTestingT(t)

	_, err := NewLokiLogger(ServiceName, "", "loud")

	Expect(err).To(HaveOccurred())
}

func TestLokiLogger_PushesToLoki(t *testing.T) {
	RegisterTestingT(t)

	received := make(chan LokiLogEntry, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		if r.URL.Path != "/loki/api/v1/push" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		body, _ := io.ReadAll(r.Body)

		var entry LokiLogEntry
		if err := json.Unmarshal(body, &entry); err == nil {
			received <- entry
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	logger := newLokiLogger(zap.NewExample(), ServiceName, server.URL+"/")
	logger.ErrorWithTrace(context.Background(), "boom", zap.String("todo_id", "42"))

	var entry LokiLogEntry
	Eventually(received, time.Second).Should(Receive(&entry))

	Expect(entry.Streams).To(HaveLen(1))
	Expect(entry.Streams[0].Stream).To(HaveKeyWithValue("service", ServiceName))
	Expect(entry.Streams[0].Stream).To(HaveKeyWithValue("level", "error"))

	var line map[string]interface{}
	Expect(json.Unmarshal([]byte(entry.Streams[0].Values[0][1]), &line)).To(Succeed())
	Expect(line).To(HaveKeyWithValue("message", "boom"))
	Expect(line).To(HaveKeyWithValue("todo_id", "42"))
}

func TestNopLogger(t *testing.T) {
	RegisterTestingT(t)

	logger := NewNopLogger()
	logger.InfoWithTrace(context.Background(), "ignored")

	Expect(logger.Zap()).ToNot(BeNil())
	Expect(logger.lokiURL).To(BeEmpty())
}
