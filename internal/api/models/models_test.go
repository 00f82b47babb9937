package models_test

import (
	"encoding/json"
	"testing"

	"github.com/jroosing/mockserver/internal/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerStatsResponse_OmitsMissingProcess(t *testing.T) {
	resp := models.ServerStatsResponse{Uptime: "1s"}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "process")
	assert.Contains(t, raw, "requests")
}

func TestRequestStatsResponse_FieldNames(t *testing.T) {
	resp := models.RequestStatsResponse{
		Total:    3,
		ByMethod: map[string]uint64{"GET": 2, "POST": 1},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":3,"by_method":{"GET":2,"POST":1},"bytes_written":0,"avg_latency_ms":0}`, string(data))
}
