// Package dashboard holds the page state of one browser session and the
// transitions between states. Every change goes through Reduce.
package dashboard

import "loan-dashboard/models"

// Prediction sources, recorded with each result set.
const (
	SourceSingle = "single"
	SourceBatch  = "batch"
)

// NoticeKind distinguishes success and error notices.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a transient message shown once to the user.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// State is the whole page state of a session.
type State struct {
	Prediction       *models.PredictionResponse
	PredictionSource string
	Analysis         *models.AnalysisResult

	CurrentFile *models.Upload
	CurrentPage int

	LoadingPrediction bool
	LoadingAnalysis   bool

	Notice Notice

	// Latest issued sequence number per result slot.
	predictionSeq uint64
	analysisSeq   uint64
}

// Initial is the state of a new session.
func Initial() State {
	return State{CurrentPage: 1}
}

// Action is a state transition.
type Action interface{ action() }

type (
	PredictionStarted struct{ Seq uint64 }

	PredictionSucceeded struct {
		Seq      uint64
		Response *models.PredictionResponse
		Source   string
		// Message is empty for page changes, which are not announced.
		Message string
	}

	PredictionFailed struct {
		Seq     uint64
		Message string
	}

	AnalysisStarted   struct{ Seq uint64 }
	AnalysisSucceeded struct {
		Seq    uint64
		Result *models.AnalysisResult
	}
	AnalysisFailed struct {
		Seq     uint64
		Message string
	}

	FileSelected  struct{ File models.Upload }
	PageRequested struct{ Page int }

	NoticeRaised    struct{ Notice Notice }
	NoticeDismissed struct{}
	AnalysisCleared struct{}
)

func (PredictionStarted) action()   {}
func (PredictionSucceeded) action() {}
func (PredictionFailed) action()    {}
func (AnalysisStarted) action()     {}
func (AnalysisSucceeded) action()   {}
func (AnalysisFailed) action()      {}
func (FileSelected) action()        {}
func (PageRequested) action()       {}
func (NoticeRaised) action()        {}
func (NoticeDismissed) action()     {}
func (AnalysisCleared) action()     {}

// Reduce returns the state after applying a. A completion whose sequence
// number is not the latest issued for its slot leaves s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case PredictionStarted:
		s.predictionSeq = a.Seq
		s.LoadingPrediction = true

	case PredictionSucceeded:
		if a.Seq != s.predictionSeq {
			return s
		}
		s.LoadingPrediction = false
		s.Prediction = a.Response
		s.PredictionSource = a.Source
		if a.Message != "" {
			s.Notice = Notice{Kind: NoticeSuccess, Message: a.Message}
		}

	case PredictionFailed:
		if a.Seq != s.predictionSeq {
			return s
		}
		s.LoadingPrediction = false
		s.Notice = Notice{Kind: NoticeError, Message: a.Message}

	case AnalysisStarted:
		s.analysisSeq = a.Seq
		s.LoadingAnalysis = true

	case AnalysisSucceeded:
		if a.Seq != s.analysisSeq {
			return s
		}
		s.LoadingAnalysis = false
		s.Analysis = a.Result
		s.Notice = Notice{Kind: NoticeSuccess, Message: msgAnalysisDone}

	case AnalysisFailed:
		if a.Seq != s.analysisSeq {
			return s
		}
		s.LoadingAnalysis = false
		s.Notice = Notice{Kind: NoticeError, Message: a.Message}

	case FileSelected:
		f := a.File
		s.CurrentFile = &f
		s.CurrentPage = 1

	case PageRequested:
		s.CurrentPage = a.Page

	case NoticeRaised:
		s.Notice = a.Notice

	case NoticeDismissed:
		s.Notice = Notice{}

	case AnalysisCleared:
		s.Analysis = nil
		// Invalidate any analysis still in flight.
		s.analysisSeq++
		s.LoadingAnalysis = false
	}
	return s
}
