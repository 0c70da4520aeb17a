package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"roombook/pkg/model"
)

// ReservationClient talks to the reservations HTTP API on behalf of one
// bearer token.
type ReservationClient struct {
	httpClient *HttpClient
}

func NewReservationClient(baseURL, token string) *ReservationClient {
	return &ReservationClient{
		httpClient: NewHttpClient(baseURL, token),
	}
}

func (c *ReservationClient) Create(ctx context.Context, req model.CreateReservationRequest) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/reservations", req)
}

func (c *ReservationClient) CreateRaw(ctx context.Context, rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw(ctx, "/api/v1/reservations", rawBody)
}

func (c *ReservationClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/reservations/id/"+url.PathEscape(id))
}

func (c *ReservationClient) Delete(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/reservations/id/"+url.PathEscape(id))
}

func (c *ReservationClient) ListBySpace(ctx context.Context, spaceID string, page, pageSize int) (*Response, error) {
	return c.httpClient.GET(ctx, pagedPath("/api/v1/reservations/space/"+url.PathEscape(spaceID), page, pageSize))
}

func (c *ReservationClient) ListByMember(ctx context.Context, memberID string, page, pageSize int) (*Response, error) {
	return c.httpClient.GET(ctx, pagedPath("/api/v1/reservations/member/"+url.PathEscape(memberID), page, pageSize))
}

func (c *ReservationClient) ListLogs(ctx context.Context, page, pageSize int) (*Response, error) {
	return c.httpClient.GET(ctx, pagedPath("/api/v1/reservation-logs", page, pageSize))
}

func (c *ReservationClient) ListSpaces(ctx context.Context, page, pageSize int) (*Response, error) {
	return c.httpClient.GET(ctx, pagedPath("/api/v1/spaces", page, pageSize))
}

func pagedPath(path string, page, pageSize int) string {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("page_size", fmt.Sprintf("%d", pageSize))
	return path + "?" + q.Encode()
}

func (c *ReservationClient) DecodeCreated(resp *Response) (string, error) {
	var created model.CreateReservationResponse
	if err := decodeData(resp, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *ReservationClient) DecodeReservation(resp *Response) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := decodeData(resp, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (c *ReservationClient) DecodeReservations(resp *Response) (*model.Page[model.Reservation], error) {
	var page model.Page[model.Reservation]
	if err := decodeData(resp, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *ReservationClient) DecodeLogs(resp *Response) (*model.Page[model.ReservationLog], error) {
	var page model.Page[model.ReservationLog]
	if err := decodeData(resp, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func decodeData(resp *Response, target any) error {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return fmt.Errorf("could not decode response wrapper (status %d): %w", resp.StatusCode, err)
	}
	if err := json.Unmarshal(wrapper.Data, target); err != nil {
		return fmt.Errorf("could not decode response data (status %d): %w", resp.StatusCode, err)
	}
	return nil
}
