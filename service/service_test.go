package service_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/txta-lang/txtacheck/service"
)

func doCheck(t *testing.T, req service.CheckRequest) service.CheckResponse {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/v1/check", bytes.NewReader(body))
	w := httptest.NewRecorder()
	service.NewRouter().ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var resp service.CheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCheckAcceptsWellTypedSystem(t *testing.T) {
	resp := doCheck(t, service.CheckRequest{
		Name:   "ok.xta",
		Source: "clock x;\nprocess P() {\n state A, B;\n init A;\n A -> B { x >= 1; ; x = 0; };\n}\nP1 = P();\nsystem P1;\n",
	})
	require.True(t, resp.OK)
	require.Empty(t, diagErrors(resp))
}

func TestCheckRejectsOutOfRangeInitialiser(t *testing.T) {
	resp := doCheck(t, service.CheckRequest{
		Name:   "bad.xta",
		Source: "int[0,10] x = 20;\n",
	})
	require.False(t, resp.OK)
	require.NotEmpty(t, diagErrors(resp))
}

func TestCheckMarkupRequestIsRouted(t *testing.T) {
	resp := doCheck(t, service.CheckRequest{
		Name:   "ok.xml",
		Source: `<?xml version="1.0"?><nta><declaration>clock x;</declaration></nta>`,
		Markup: true,
	})
	require.True(t, resp.OK)
}

func diagErrors(resp service.CheckResponse) []string {
	var out []string
	for _, d := range resp.Diagnostics {
		if !d.Warning {
			out = append(out, d.Message)
		}
	}
	return out
}
