package upload

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"loan-dashboard/models"
	"loan-dashboard/utils"
)

func countingGate(maxMB int) (*Gate, *int) {
	calls := 0
	g := NewGate(maxMB, func(context.Context, models.Upload) error {
		calls++
		return nil
	}, utils.Discard())
	return g, &calls
}

func TestGateRejectsWrongExtension(t *testing.T) {
	for _, name := range []string{"loans.xlsx", "loans.csv.txt", "loans", "csv"} {
		g, calls := countingGate(10)
		err := g.Select(context.Background(), SourcePicker, models.Upload{Name: name, Size: 10})

		var rej *RejectError
		if !errors.As(err, &rej) {
			t.Fatalf("%s: expected RejectError, got %v", name, err)
		}
		if rej.Message != "Please upload a CSV file" {
			t.Errorf("%s: message %q", name, rej.Message)
		}
		if *calls != 0 {
			t.Errorf("%s: handler must not be called", name)
		}
	}
}

func TestGateRejectsOversizedFile(t *testing.T) {
	g, calls := countingGate(2)
	err := g.Select(context.Background(), SourceDrop, models.Upload{Name: "big.csv", Size: 2*1024*1024 + 1})

	var rej *RejectError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectError, got %v", err)
	}
	if !strings.Contains(rej.Message, "2MB") {
		t.Errorf("message should report the configured limit, got %q", rej.Message)
	}
	if *calls != 0 {
		t.Error("handler must not be called")
	}
}

func TestGateAcceptsAtCeiling(t *testing.T) {
	g, calls := countingGate(0)
	if g.MaxSizeMB != DefaultMaxSizeMB {
		t.Errorf("default ceiling: got %d, want %d", g.MaxSizeMB, DefaultMaxSizeMB)
	}

	err := g.Select(context.Background(), SourceDrop, models.Upload{Name: "Loans.CSV", Size: g.CeilingBytes()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *calls != 1 {
		t.Errorf("handler calls: got %d, want 1", *calls)
	}
}

func TestGatePropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	g := NewGate(10, func(context.Context, models.Upload) error { return boom }, utils.Discard())
	if err := g.Select(context.Background(), SourcePicker, models.Upload{Name: "a.csv"}); !errors.Is(err, boom) {
		t.Errorf("expected handler error, got %v", err)
	}
}

func TestReadMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "loans.csv")
	_, _ = fw.Write([]byte("income,age\n1,2"))
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/batch", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	up, err := ReadMultipart(req, "file", 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.Name != "loans.csv" || string(up.Data) != "income,age\n1,2" || up.Size != 14 {
		t.Errorf("ReadMultipart: got %+v", up)
	}
}

func TestReadMultipartMissingFile(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("other", "x")
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/batch", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if _, err := ReadMultipart(req, "file", 1024); !errors.Is(err, ErrNoFile) {
		t.Errorf("expected ErrNoFile, got %v", err)
	}
}
