package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-dashboard/api"
	"loan-dashboard/dashboard"
	"loan-dashboard/locale"
	"loan-dashboard/models"
	"loan-dashboard/utils"
)

type stubAPI struct {
	mu         sync.Mutex
	singles    int
	pages      []int
	analyses   int
	failSingle error
}

func (s *stubAPI) PredictSingle(_ context.Context, app models.LoanApplication) (*models.PredictionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.singles++
	if s.failSingle != nil {
		return nil, s.failSingle
	}
	return &models.PredictionResponse{
		Results:    []models.LoanPrediction{{LoanApplication: app, Result: "Approved", ApprovalProbability: 91.2}},
		Pagination: models.PaginationInfo{Page: 1, PageSize: 1, TotalItems: 1, TotalPages: 1},
	}, nil
}

func (s *stubAPI) PredictBatch(_ context.Context, _ models.Upload, page, pageSize int) (*models.PredictionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, page)
	return &models.PredictionResponse{
		Results: []models.LoanPrediction{{
			LoanApplication: models.LoanApplication{Income: 48000, LoanAmount: 9000, LoanIntRate: 12, Age: 29,
				PreviousDefaults: "yes", HomeOwnership: "mortgage"},
			Result: "Declined", ApprovalProbability: 22.5,
		}},
		Pagination: models.PaginationInfo{Page: page, PageSize: pageSize, TotalItems: 400, TotalPages: 8},
	}, nil
}

func (s *stubAPI) AnalyzeCSV(context.Context, models.Upload) (*models.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses++
	return &models.AnalysisResult{
		TotalApplications:   100,
		ApprovalRate:        60,
		ApprovalByOwnership: map[string]models.Outcomes{"rent": {"Approved": 55, "Declined": 45}},
	}, nil
}

func (s *stubAPI) PageSize() int { return 50 }

func (s *stubAPI) counts() (singles int, pages []int, analyses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.singles, append([]int(nil), s.pages...), s.analyses
}

func (s *stubAPI) setFailSingle(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSingle = err
}

func newTestServer(t *testing.T, loc locale.Config) (*httptest.Server, *stubAPI, *http.Client) {
	t.Helper()
	stub := &stubAPI{}
	logger := utils.Discard()
	sessions := dashboard.NewSessions(time.Hour, func(id string) *dashboard.Orchestrator {
		return dashboard.NewOrchestrator(id, stub, nil, logger)
	})
	srv, err := NewServer(sessions, Options{Locale: loc, MaxUploadMB: 1, SessionTTL: time.Hour, Version: "test"}, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, stub, &http.Client{Jar: jar}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func validForm() url.Values {
	return url.Values{
		"income": {"75000"}, "loan_amount": {"25000"}, "loan_int_rate": {"10"},
		"age": {"35"}, "previous_defaults": {"no"}, "home_ownership": {"rent"},
	}
}

func postFile(t *testing.T, c *http.Client, target, name string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("source", "drop"))
	require.NoError(t, mw.Close())

	resp, err := c.Post(target, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestIndexIssuesSessionCookie(t *testing.T) {
	ts, _, client := newTestServer(t, locale.English())

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Loan Approval Dashboard")
	u, _ := url.Parse(ts.URL)
	cookies := client.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
}

func TestPredictInvalidFormNeverCallsService(t *testing.T) {
	ts, stub, client := newTestServer(t, locale.English())

	form := validForm()
	form.Set("age", "17")
	form.Set("income", "500")
	resp, err := client.PostForm(ts.URL+"/predict", form)
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Applicant must be at least 18 years old")
	assert.Contains(t, body, "Income seems too low")
	assert.Contains(t, body, `value="500"`, "entered values are kept")
	singles, _, _ := stub.counts()
	assert.Zero(t, singles)
}

func TestPredictShowsResultAndNoticeOnce(t *testing.T) {
	ts, stub, client := newTestServer(t, locale.English())

	resp, err := client.PostForm(ts.URL+"/predict", validForm())
	require.NoError(t, err)
	body := readBody(t, resp)

	singles, _, _ := stub.counts()
	assert.Equal(t, 1, singles)
	assert.Contains(t, body, "Prediction completed successfully!")
	assert.Contains(t, body, "$75,000")
	assert.Contains(t, body, "91.2%")

	resp, err = client.Get(ts.URL + "/?tab=single")
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.NotContains(t, body, "Prediction completed successfully!")
	assert.Contains(t, body, "$75,000", "results persist in the session")
}

func TestPredictFailureKeepsPreviousResults(t *testing.T) {
	ts, stub, client := newTestServer(t, locale.English())

	_, err := client.PostForm(ts.URL+"/predict", validForm())
	require.NoError(t, err)

	stub.setFailSingle(&api.Error{Operation: "predict", Status: 503, Body: "model unavailable"})
	resp, err := client.PostForm(ts.URL+"/predict", validForm())
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Contains(t, body, "model unavailable")
	assert.Contains(t, body, "$75,000")
}

func TestBatchRejectsNonCSV(t *testing.T) {
	ts, stub, client := newTestServer(t, locale.English())

	body := readBody(t, postFile(t, client, ts.URL+"/batch", "loans.xlsx", []byte("x")))
	assert.Contains(t, body, "Please upload a CSV file")
	_, pages, _ := stub.counts()
	assert.Empty(t, pages)
}

func TestBatchRejectsOversizedFile(t *testing.T) {
	ts, stub, client := newTestServer(t, locale.English())

	big := bytes.Repeat([]byte("a"), 1<<20+10)
	body := readBody(t, postFile(t, client, ts.URL+"/batch", "loans.csv", big))
	assert.Contains(t, body, "File size exceeds the maximum limit of 1MB")
	_, pages, _ := stub.counts()
	assert.Empty(t, pages)
}

func TestBatchPagination(t *testing.T) {
	ts, stub, client := newTestServer(t, locale.English())

	body := readBody(t, postFile(t, client, ts.URL+"/batch", "loans.csv", []byte("income\n1")))
	assert.Contains(t, body, "CSV file processed successfully!")
	assert.Contains(t, body, "Declined")

	resp, err := client.PostForm(ts.URL+"/batch/page", url.Values{"page": {"3"}, "sort": {"income"}, "dir": {"desc"}})
	require.NoError(t, err)
	assert.Equal(t, "income", resp.Request.URL.Query().Get("sort"), "sort survives the page change")
	readBody(t, resp)

	// Same page again is a no-op.
	_, err = client.PostForm(ts.URL+"/batch/page", url.Values{"page": {"3"}})
	require.NoError(t, err)

	_, pages, _ := stub.counts()
	assert.Equal(t, []int{1, 3}, pages)
}

func TestBatchPageOutOfRangeIsIgnored(t *testing.T) {
	ts, stub, client := newTestServer(t, locale.English())
	readBody(t, postFile(t, client, ts.URL+"/batch", "loans.csv", []byte("income\n1")))

	for _, page := range []string{"999", "9", "0", "-2"} {
		resp, err := client.PostForm(ts.URL+"/batch/page", url.Values{"page": {page}})
		require.NoError(t, err)
		readBody(t, resp)
	}
	resp, err := client.PostForm(ts.URL+"/batch/page", url.Values{"page": {"8"}})
	require.NoError(t, err)
	readBody(t, resp)

	_, pages, _ := stub.counts()
	assert.Equal(t, []int{1, 8}, pages, "only pages within total_pages reach the service")
}

func TestBatchPageWithoutUploadDoesNothing(t *testing.T) {
	ts, stub, client := newTestServer(t, locale.English())

	resp, err := client.PostForm(ts.URL+"/batch/page", url.Values{"page": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	readBody(t, resp)

	_, pages, _ := stub.counts()
	assert.Empty(t, pages)
}

func TestAnalyticsChartsAndReset(t *testing.T) {
	ts, stub, client := newTestServer(t, locale.Thai())

	body := readBody(t, postFile(t, client, ts.URL+"/analyze", "loans.csv", []byte("income\n1")))
	_, _, analyses := stub.counts()
	assert.Equal(t, 1, analyses)
	assert.Contains(t, body, "Analysis completed successfully!")
	assert.Contains(t, body, "60.0%")
	assert.Contains(t, body, "/charts/ownership.png")

	resp, err := client.Get(ts.URL + "/charts/approval.png")
	require.NoError(t, err)
	png := readBody(t, resp)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(png, "\x89PNG"))

	resp, err = client.Get(ts.URL + "/charts/nonsense.png")
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = client.PostForm(ts.URL+"/analytics/reset", nil)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "ไม่มีข้อมูลการวิเคราะห์")
}

func TestExportCSV(t *testing.T) {
	ts, _, client := newTestServer(t, locale.English())

	resp, err := client.Get(ts.URL + "/export.csv")
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err = client.PostForm(ts.URL+"/predict", validForm())
	require.NoError(t, err)

	resp, err = client.Get(ts.URL + "/export.csv")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "predictions_page_1.csv")
	assert.Contains(t, body, "75000,25000,10,35,no,rent,,Approved,91.2")
}

func TestSessionsAreIsolated(t *testing.T) {
	ts, _, alice := newTestServer(t, locale.English())
	jar, _ := cookiejar.New(nil)
	bob := &http.Client{Jar: jar}

	_, err := alice.PostForm(ts.URL+"/predict", validForm())
	require.NoError(t, err)

	resp, err := bob.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.NotContains(t, readBody(t, resp), "$75,000")
}

func TestHealth(t *testing.T) {
	ts, _, client := newTestServer(t, locale.English())

	resp, err := client.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, "test", payload["version"])
}
