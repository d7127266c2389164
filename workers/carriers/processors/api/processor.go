package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"io"
	"net/http"
	"net/url"
	"shipment-tracking-service/config"
	"shipment-tracking-service/models"
	"shipment-tracking-service/workers/carriers/processors"
	"strings"
	"time"
)

// statusMap maps carrier event codes onto catalog milestones. Codes not
// listed are ignored.
var statusMap = map[string]string{
	"BKD": "BOOKING_CONFIRMED",
	"LOD": "CONTAINER_LOADED",
	"VDL": "VESSEL_DEPARTED",
	"VAD": "PORT_OF_DISCHARGE",
	"RDP": "RAIL_DEPARTED",
	"RAR": "PORT_OF_ENTRY",
	"CRL": "CUSTOMS_RELEASED",
	"DSC": "DISCHARGE_COMPLETE",
	"AVL": "DOCUMENTS_AVAILABLE",
	"PUP": "PICKUP_COMPLETE",
}

const transactionSrc = "shipment_tracking"

type TrackingProcessor struct {
	logger *zap.Logger
	config *config.CarrierApiConfig
	client *http.Client
}

func NewTrackingProcessor(logger *zap.Logger, cfg *config.CarrierApiConfig) *TrackingProcessor {
	return &TrackingProcessor{
		logger: logger,
		config: cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (p *TrackingProcessor) Process(ctx context.Context, shipment models.Shipment) (*processors.TrackingResults, error) {
	details, err := p.getTrackingDetails(ctx, shipment.ContainerNumber)
	if err != nil {
		return nil, err
	}

	results := &processors.TrackingResults{
		ContainerNumber: shipment.ContainerNumber,
		CheckedAt:       time.Now().UTC(),
	}
	for _, container := range details.Response.Containers {
		for _, activity := range container.Activity {
			milestone, ok := statusMap[activity.Status.Code]
			if !ok {
				continue
			}
			at, err := parseGMT(activity.Date, activity.Time)
			if err != nil {
				p.logger.Warn("Skipping carrier event with bad timestamp",
					zap.String("container_number", shipment.ContainerNumber),
					zap.String("status_code", activity.Status.Code),
					zap.Error(err))
				continue
			}
			results.Events = append(results.Events, processors.TrackingEvent{
				Milestone:  milestone,
				Location:   activity.Location.describe(),
				OccurredAt: at,
			})
		}
	}
	return results, nil
}

func (l Location) describe() string {
	if l.Name != "" {
		return l.Name
	}
	parts := make([]string, 0, 2)
	for _, s := range []string{l.Address.City, l.Address.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// parseGMT reads the feed's "20260302" / "143000" date and time pair.
func parseGMT(date, clock string) (time.Time, error) {
	if clock == "" {
		clock = "000000"
	}
	return time.ParseInLocation("20060102150405", date+clock, time.UTC)
}

func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

func (p *TrackingProcessor) getAccessToken(ctx context.Context) (string, error) {
	u, err := url.Parse(p.config.BaseUri + "/security/v1/oauth/token")
	if err != nil {
		return "", err
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+basicAuth(p.config.ClientId, p.config.ClientSecret))

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request: unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var authResponse OAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResponse); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	return authResponse.AccessToken, nil
}

func (p *TrackingProcessor) getTrackingDetails(ctx context.Context, containerNumber string) (*ApiResponse, error) {
	u, err := url.Parse(p.config.BaseUri + "/api/track/v1/containers/" + url.PathEscape(containerNumber))
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("locale", "en_US")
	q.Set("returnActivity", "true")
	u.RawQuery = q.Encode()

	accessToken, err := p.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("transId", uuid.New().String())
	req.Header.Set("transactionSrc", transactionSrc)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tracking request: unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResponse ApiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to decode tracking response: %w", err)
	}

	return &apiResponse, nil
}
