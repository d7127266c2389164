package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"shipment-tracking-service/config"
	"shipment-tracking-service/models"
)

const trackingBody = `{
  "trackResponse": {
    "container": [{
      "containerNumber": "MSCU1234567",
      "currentStatus": {"code": "CRL", "description": "Customs released"},
      "activity": [
        {"status": {"code": "BKD"}, "location": {"name": "Shanghai CY"}, "gmtDate": "20260301", "gmtTime": "080000"},
        {"status": {"code": "GTI", "description": "Gate in"}, "gmtDate": "20260302", "gmtTime": "090000"},
        {"status": {"code": "VDL"}, "location": {"address": {"city": "Shanghai", "country": "China"}}, "gmtDate": "20260303", "gmtTime": "101500"},
        {"status": {"code": "CRL"}, "location": {"address": {"city": "Chicago"}}, "gmtDate": "bad", "gmtTime": ""}
      ]
    }]
  }
}`

func newServer(c *qt.C) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/security/v1/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"token_type":"Bearer","expires_in":"3600","access_token":"tok-1"}`))
	})
	mux.HandleFunc("/api/track/v1/containers/MSCU1234567", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if _, err := uuid.Parse(r.Header.Get("transId")); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(trackingBody))
	})
	srv := httptest.NewServer(mux)
	c.Cleanup(srv.Close)
	return srv
}

func TestProcessMapsEvents(t *testing.T) {
	c := qt.New(t)
	srv := newServer(c)

	p := NewTrackingProcessor(zap.NewNop(), &config.CarrierApiConfig{BaseUri: srv.URL, ClientId: "client", ClientSecret: "secret"})
	results, err := p.Process(context.Background(), models.Shipment{ContainerNumber: "MSCU1234567"})
	c.Assert(err, qt.IsNil)
	c.Assert(results.ContainerNumber, qt.Equals, "MSCU1234567")
	c.Assert(results.Events, qt.HasLen, 2)

	c.Assert(results.Events[0].Milestone, qt.Equals, "BOOKING_CONFIRMED")
	c.Assert(results.Events[0].Location, qt.Equals, "Shanghai CY")
	c.Assert(results.Events[0].OccurredAt, qt.Equals, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	c.Assert(results.Events[1].Milestone, qt.Equals, "VESSEL_DEPARTED")
	c.Assert(results.Events[1].Location, qt.Equals, "Shanghai, China")
	c.Assert(results.Events[1].OccurredAt, qt.Equals, time.Date(2026, 3, 3, 10, 15, 0, 0, time.UTC))
}

func TestProcessRejectedCredentials(t *testing.T) {
	c := qt.New(t)
	srv := newServer(c)

	p := NewTrackingProcessor(zap.NewNop(), &config.CarrierApiConfig{BaseUri: srv.URL, ClientId: "client", ClientSecret: "wrong"})
	_, err := p.Process(context.Background(), models.Shipment{ContainerNumber: "MSCU1234567"})
	c.Assert(err, qt.ErrorMatches, "(?s)token request: unexpected status 401.*")
}

func TestProcessUnknownContainer(t *testing.T) {
	c := qt.New(t)
	srv := newServer(c)

	p := NewTrackingProcessor(zap.NewNop(), &config.CarrierApiConfig{BaseUri: srv.URL, ClientId: "client", ClientSecret: "secret"})
	_, err := p.Process(context.Background(), models.Shipment{ContainerNumber: "NOPE0000000"})
	c.Assert(err, qt.ErrorMatches, "(?s)tracking request: unexpected status 404.*")
}
