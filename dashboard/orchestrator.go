package dashboard

import (
	"context"
	"sync"
	"time"

	"loan-dashboard/models"
	"loan-dashboard/storage"
	"loan-dashboard/utils"
)

// Notices shown to the user.
const (
	msgPredictionDone = "Prediction completed successfully!"
	msgBatchDone      = "CSV file processed successfully!"
	msgAnalysisDone   = "Analysis completed successfully!"

	msgPredictionFailed = "Failed to process loan application"
	msgBatchFailed      = "Failed to process CSV file"
	msgAnalysisFailed   = "Failed to analyze CSV file"
	msgPageFailed       = "Failed to load page data"
)

// Predictor is the remote prediction service.
type Predictor interface {
	PredictSingle(ctx context.Context, app models.LoanApplication) (*models.PredictionResponse, error)
	PredictBatch(ctx context.Context, file models.Upload, page, pageSize int) (*models.PredictionResponse, error)
	AnalyzeCSV(ctx context.Context, file models.Upload) (*models.AnalysisResult, error)
	PageSize() int
}

// Orchestrator drives one session: it issues requests to the service and
// folds their outcomes into State. Safe for concurrent use.
type Orchestrator struct {
	id      string
	api     Predictor
	history storage.PredictionWriter
	logger  *utils.Logger

	mu    sync.Mutex
	state State
}

// NewOrchestrator creates an orchestrator for session id. history may be nil.
func NewOrchestrator(id string, api Predictor, history storage.PredictionWriter, logger *utils.Logger) *Orchestrator {
	return &Orchestrator{
		id:      id,
		api:     api,
		history: history,
		logger:  logger.With("dashboard"),
		state:   Initial(),
	}
}

// ID returns the session id.
func (o *Orchestrator) ID() string { return o.id }

// State returns a snapshot of the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// TakeNotice returns the pending notice and clears it, so it is shown once.
func (o *Orchestrator) TakeNotice() (Notice, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := o.state.Notice
	o.state = Reduce(o.state, NoticeDismissed{})
	return n, n.Kind != NoticeNone
}

// Notify shows an error notice that did not come from the service, such as
// a rejected upload.
func (o *Orchestrator) Notify(message string) {
	o.dispatch(NoticeRaised{Notice: Notice{Kind: NoticeError, Message: message}})
}

// ResetAnalysis clears the analysis result.
func (o *Orchestrator) ResetAnalysis() {
	o.dispatch(AnalysisCleared{})
}

func (o *Orchestrator) dispatch(actions ...Action) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, a := range actions {
		o.state = Reduce(o.state, a)
	}
}

// startPrediction issues the next prediction sequence number under the lock,
// applying any extra actions first.
func (o *Orchestrator) startPrediction(before ...Action) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, a := range before {
		o.state = Reduce(o.state, a)
	}
	seq := o.state.predictionSeq + 1
	o.state = Reduce(o.state, PredictionStarted{Seq: seq})
	return seq
}

func (o *Orchestrator) startAnalysis() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	seq := o.state.analysisSeq + 1
	o.state = Reduce(o.state, AnalysisStarted{Seq: seq})
	return seq
}

// SubmitApplication scores a single application.
func (o *Orchestrator) SubmitApplication(ctx context.Context, app models.LoanApplication) error {
	seq := o.startPrediction()

	resp, err := o.api.PredictSingle(ctx, app)
	if err != nil {
		o.logger.Error("Prediction error: %v", err)
		o.dispatch(PredictionFailed{Seq: seq, Message: failureText(err, msgPredictionFailed)})
		return err
	}

	o.dispatch(PredictionSucceeded{Seq: seq, Response: resp, Source: SourceSingle, Message: msgPredictionDone})
	o.record(SourceSingle, resp)
	return nil
}

// UploadForPrediction remembers file for page changes and scores its first page.
func (o *Orchestrator) UploadForPrediction(ctx context.Context, file models.Upload) error {
	seq := o.startPrediction(FileSelected{File: file})

	resp, err := o.api.PredictBatch(ctx, file, 1, o.api.PageSize())
	if err != nil {
		o.logger.Error("File upload error: %v", err)
		o.dispatch(PredictionFailed{Seq: seq, Message: failureText(err, msgBatchFailed)})
		return err
	}

	o.dispatch(PredictionSucceeded{Seq: seq, Response: resp, Source: SourceBatch, Message: msgBatchDone})
	o.record(SourceBatch, resp)
	return nil
}

// UploadForAnalysis fetches aggregate analytics for file.
func (o *Orchestrator) UploadForAnalysis(ctx context.Context, file models.Upload) error {
	seq := o.startAnalysis()

	res, err := o.api.AnalyzeCSV(ctx, file)
	if err != nil {
		o.logger.Error("Analysis error: %v", err)
		o.dispatch(AnalysisFailed{Seq: seq, Message: failureText(err, msgAnalysisFailed)})
		return err
	}

	o.dispatch(AnalysisSucceeded{Seq: seq, Result: res})
	return nil
}

// ChangePage re-sends the remembered file for another page. It does nothing
// when no file has been uploaded or page is already current.
func (o *Orchestrator) ChangePage(ctx context.Context, page int) error {
	o.mu.Lock()
	if o.state.CurrentFile == nil || page == o.state.CurrentPage || page < 1 {
		o.mu.Unlock()
		return nil
	}
	file := *o.state.CurrentFile
	o.state = Reduce(o.state, PageRequested{Page: page})
	seq := o.state.predictionSeq + 1
	o.state = Reduce(o.state, PredictionStarted{Seq: seq})
	o.mu.Unlock()

	resp, err := o.api.PredictBatch(ctx, file, page, o.api.PageSize())
	if err != nil {
		o.logger.Error("Pagination error: %v", err)
		o.dispatch(PredictionFailed{Seq: seq, Message: failureText(err, msgPageFailed)})
		return err
	}

	o.dispatch(PredictionSucceeded{Seq: seq, Response: resp, Source: SourceBatch})
	return nil
}

// record appends a result page to the history sink. Failures are logged
// only; history never affects what the user sees.
func (o *Orchestrator) record(source string, resp *models.PredictionResponse) {
	if o.history == nil || resp == nil || len(resp.Results) == 0 {
		return
	}
	now := time.Now()
	records := make([]models.StoredPrediction, 0, len(resp.Results))
	for _, p := range resp.Results {
		records = append(records, models.StoredPrediction{
			SessionID: o.id, Source: source, LoanPrediction: p, CreatedAt: now,
		})
	}
	if err := o.history.Write(records); err != nil {
		o.logger.Warn("history write failed: %v", err)
	}
}

func failureText(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
