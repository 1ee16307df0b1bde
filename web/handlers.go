package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"loan-dashboard/analytics"
	"loan-dashboard/form"
	"loan-dashboard/results"
	"loan-dashboard/storage"
	"loan-dashboard/upload"
)

// Overhead allowed on top of the file ceiling for the rest of the multipart body.
const multipartSlack = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "healthy",
		"service":  "loan-dashboard",
		"version":  s.opts.Version,
		"uptime":   time.Since(s.started).Round(time.Second).String(),
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, validTab(r.URL.Query().Get("tab")), nil, nil)
}

// render draws the page. Pending notices are consumed so each shows once.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, tab string, values map[string]string, errs form.FieldErrors) {
	orch := session(r)
	notice, hasNotice := orch.TakeNotice()
	st := orch.State()
	loc := s.opts.Locale

	view := pageView{
		L:                 loc.Labels,
		Lang:              loc.Code,
		Tab:               tab,
		Notice:            notice,
		HasNotice:         hasNotice,
		MaxUploadMB:       s.maxUploadMB(),
		Version:           s.opts.Version,
		Form:              newFormView(loc, values, errs),
		LoadingPrediction: st.LoadingPrediction,
		LoadingAnalysis:   st.LoadingAnalysis,
		Table:             newTableView(st, loc, r.URL.Query()),
	}
	if st.CurrentFile != nil {
		view.FileName = st.CurrentFile.Name
	}
	if st.Analysis != nil {
		d := analytics.Build(*st.Analysis, loc)
		view.Analytics = &d
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "page.html", view); err != nil {
		s.logger.Error("render page: %v", err)
	}
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, tab string, extra url.Values) {
	q := url.Values{"tab": {tab}}
	for k, v := range extra {
		q[k] = v
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	orch := session(r)

	f := form.New(orch.SubmitApplication, s.logger)
	errs, err := f.Submit(r.Context(), r.PostForm)
	if errs != nil {
		values := make(map[string]string, len(form.Fields))
		for _, k := range form.Fields {
			values[k] = r.PostForm.Get(k)
		}
		s.render(w, r, http.StatusUnprocessableEntity, TabSingle, values, errs)
		return
	}
	if err != nil {
		s.logger.Warn("predict failed: %v", err)
	}
	s.redirect(w, r, TabSingle, nil)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	orch := session(r)
	s.acceptUpload(w, r, upload.NewGate(s.opts.MaxUploadMB, orch.UploadForPrediction, s.logger))
	s.redirect(w, r, TabBatch, nil)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	orch := session(r)
	s.acceptUpload(w, r, upload.NewGate(s.opts.MaxUploadMB, orch.UploadForAnalysis, s.logger))
	s.redirect(w, r, TabAnalytics, nil)
}

// acceptUpload reads the multipart file and passes it through the gate.
// Rejections become notices on the session.
func (s *Server) acceptUpload(w http.ResponseWriter, r *http.Request, gate *upload.Gate) {
	orch := session(r)
	r.Body = http.MaxBytesReader(w, r.Body, gate.CeilingBytes()+multipartSlack)

	file, err := upload.ReadMultipart(r, "file", gate.CeilingBytes())
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			orch.Notify(fmt.Sprintf("File size exceeds the maximum limit of %dMB", gate.MaxSizeMB))
		case errors.Is(err, upload.ErrNoFile):
			orch.Notify("Please upload a CSV file")
		default:
			s.logger.Warn("read upload: %v", err)
			orch.Notify("Failed to read the uploaded file")
		}
		return
	}

	source := upload.SourcePicker
	if r.FormValue("source") == string(upload.SourceDrop) {
		source = upload.SourceDrop
	}

	err = gate.Select(r.Context(), source, file)
	var reject *upload.RejectError
	if errors.As(err, &reject) {
		orch.Notify(reject.Message)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.FormValue("page"))
	if err != nil {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	orch := session(r)
	// Page clicks go through the table, which ignores the current page and
	// pages outside the service's range.
	var changeErr error
	table := results.NewTable(orch.State().Prediction, func(p int) {
		changeErr = orch.ChangePage(r.Context(), p)
	})
	table.RequestPage(page)
	if changeErr != nil {
		s.logger.Warn("page %d failed: %v", page, changeErr)
	}

	extra := url.Values{}
	if sort := r.FormValue("sort"); sort != "" {
		extra.Set("sort", sort)
		extra.Set("dir", r.FormValue("dir"))
	}
	s.redirect(w, r, TabBatch, extra)
}

func (s *Server) handleResetAnalysis(w http.ResponseWriter, r *http.Request) {
	session(r).ResetAnalysis()
	s.redirect(w, r, TabAnalytics, nil)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	st := session(r).State()
	if st.Analysis == nil {
		http.NotFound(w, r)
		return
	}
	loc := s.opts.Locale
	d := analytics.Build(*st.Analysis, loc)

	name := chi.URLParam(r, "name")
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")

	var err error
	if name == analytics.ChartApproval {
		err = analytics.RenderPie(w, d.ApprovalTitle, d.Outcome)
	} else if c, ok := d.Bar(name); ok {
		err = analytics.RenderBar(w, c, loc.Labels.Approved, loc.Labels.Declined)
	} else {
		http.NotFound(w, r)
		return
	}

	if errors.Is(err, analytics.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.logger.Error("chart %s: %v", name, err)
		http.Error(w, "chart rendering failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	st := session(r).State()
	if st.Prediction == nil || len(st.Prediction.Results) == 0 {
		http.NotFound(w, r)
		return
	}

	name := fmt.Sprintf("predictions_page_%d.csv", max(st.Prediction.Pagination.Page, 1))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	cw, err := storage.NewCSVStreamWriter(w)
	if err == nil {
		err = cw.WritePredictions(st.Prediction.Results)
	}
	if err == nil {
		err = cw.Close()
	}
	if err != nil {
		s.logger.Error("export: %v", err)
	}
}

func (s *Server) maxUploadMB() int {
	if s.opts.MaxUploadMB <= 0 {
		return upload.DefaultMaxSizeMB
	}
	return s.opts.MaxUploadMB
}
