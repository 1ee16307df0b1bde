// Package api is the client for the remote loan prediction service. It has
// three operations, all multipart CSV uploads: single prediction, batch
// prediction (paginated) and batch analysis.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"loan-dashboard/models"
	"loan-dashboard/utils"
)

const (
	DefaultPageSize = 50

	predictPath = "/predict/csv"
	analyzePath = "/analyze/csv"

	singleFileName = "single_prediction.csv"
	fileField      = "file"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout caps each request. Zero leaves requests unbounded. The
// client passed to WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithPageSize sets the page size used when a caller passes zero.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// Client talks to the prediction service at baseURL.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	pageSize int
	logger   *utils.Logger
}

// NewClient builds a Client. The base URL must not carry a trailing slash.
func NewClient(baseURL string, logger *utils.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		http:     &http.Client{},
		pageSize: DefaultPageSize,
		logger:   logger.With("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// PageSize is the default page size for batch predictions.
func (c *Client) PageSize() int { return c.pageSize }

// PredictSingle submits one application. The service only accepts CSV, so
// the record is sent as a two-line CSV file.
func (c *Client) PredictSingle(ctx context.Context, app models.LoanApplication) (*models.PredictionResponse, error) {
	data, err := EncodeSingleCSV(app)
	if err != nil {
		return nil, err
	}

	var out models.PredictionResponse
	if err := c.postFile(ctx, "predict_single", c.baseURL+predictPath, singleFileName, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredictBatch forwards an uploaded CSV as-is and returns one page of results.
func (c *Client) PredictBatch(ctx context.Context, file models.Upload, page, pageSize int) (*models.PredictionResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = c.pageSize
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	endpoint := c.baseURL + predictPath + "?" + q.Encode()

	var out models.PredictionResponse
	if err := c.postFile(ctx, "predict_batch", endpoint, file.Name, file.Data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeCSV forwards an uploaded CSV and returns the service's aggregates.
func (c *Client) AnalyzeCSV(ctx context.Context, file models.Upload) (*models.AnalysisResult, error) {
	var out models.AnalysisResult
	if err := c.postFile(ctx, "analyze", c.baseURL+analyzePath, file.Name, file.Data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postFile(ctx context.Context, op, endpoint, filename string, data []byte, out any) error {
	body, contentType, err := multipartBody(filename, data)
	if err != nil {
		return fmt.Errorf("api: %s: build body: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("api: %s: new request: %w", op, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		upstreamDuration.WithLabelValues(op, "error").Observe(time.Since(start).Seconds())
		upstreamErrors.WithLabelValues(op, errKindTransport).Inc()
		c.logger.Error("%s %s failed: %v", op, reqID, err)
		return fmt.Errorf("api: %s: %w", op, err)
	}
	defer resp.Body.Close()
	upstreamDuration.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamErrors.WithLabelValues(op, errKindStatus).Inc()
		text, _ := io.ReadAll(resp.Body)
		c.logger.Warn("%s %s returned %d: %s", op, reqID, resp.StatusCode, text)
		return &Error{Operation: op, Status: resp.StatusCode, Body: string(text)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		upstreamErrors.WithLabelValues(op, errKindDecode).Inc()
		return fmt.Errorf("api: %s: decode response: %w", op, err)
	}
	c.logger.Debug("%s %s ok in %v", op, reqID, time.Since(start))
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func multipartBody(filename string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fileField), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", "text/csv")

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
