package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/es2/countrysync/internal/domain"
	"github.com/es2/countrysync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDEMGatewayTriggerIngestion(t *testing.T) {
	var got domain.IngestionRequest
	dem := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "req-77", r.Header.Get(logger.RequestIDHeader))
		assert.Equal(t, "/dem/api/ingestion", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		io.WriteString(w, `{"id":9,"mdmProviderId":5,"status":"PENDING","statusMessage":"ingestion request received"}`)
	}))
	defer dem.Close()

	gw := NewDEMGateway(dem.URL+"/dem/api", "http://mdm.local:8080/", time.Second)
	ctx := logger.WithField(context.Background(), logger.FieldRequestID, "req-77")
	summary, err := gw.TriggerIngestion(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, uint(9), summary.ID)
	assert.Equal(t, "PENDING", summary.Status)
	assert.Equal(t, uint(5), got.MDMProviderID)
	assert.Equal(t, "http://mdm.local:8080/countries/callback", got.MDMSyncURL)
}

func TestDEMGatewayTriggerIngestionErrors(t *testing.T) {
	dem := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer dem.Close()

	gw := NewDEMGateway(dem.URL, "http://mdm", time.Second)
	_, err := gw.TriggerIngestion(context.Background(), 5)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)

	dem.Close()
	_, err = gw.TriggerIngestion(context.Background(), 5)
	assert.Error(t, err)
}

func TestDEMGatewayGetJobStatus(t *testing.T) {
	dem := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ingestion/9":
			io.WriteString(w, `{"id":9,"mdmProviderId":5,"status":"COMPLETED","statusMessage":"callback accepted"}`)
		case "/ingestion/10":
			http.Error(w, "db down", http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":"not found"}`)
		}
	}))
	defer dem.Close()
	gw := NewDEMGateway(dem.URL, "http://mdm", time.Second)

	summary, err := gw.GetJobStatus(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", summary.Status)

	_, err = gw.GetJobStatus(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = gw.GetJobStatus(context.Background(), 10)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestDEMGatewayListAllJobsSwallowsFailures(t *testing.T) {
	dem := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":1,"status":"FAILED"},{"id":2,"status":"COMPLETED"}]`)
	}))
	gw := NewDEMGateway(dem.URL, "http://mdm", time.Second)

	jobs := gw.ListAllJobs(context.Background())
	assert.Len(t, jobs, 2)

	dem.Close()
	jobs = gw.ListAllJobs(context.Background())
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()
	assert.Empty(t, NewDEMGateway(broken.URL, "http://mdm", time.Second).ListAllJobs(context.Background()))
}
