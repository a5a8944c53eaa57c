package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/shoaibsidiki/deltaT-calculator/export"
	"github.com/shoaibsidiki/deltaT-calculator/model"
	"github.com/shoaibsidiki/deltaT-calculator/result"
	"github.com/shoaibsidiki/deltaT-calculator/sweep"
)

const (
	contentCSV  = "text/csv; charset=utf-8"
	contentXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentPNG  = "image/png"
	contentJSON = "application/json; charset=utf-8"
)

// queryName is the query parameter of a field, e.g. fn or b_ptfe.
func queryName(f model.Field) string {
	return strings.ToLower(f.String())
}

func parseFloat(q url.Values, key string) (float64, bool, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, badRequestf("parameter %s: %q is not a number", key, s)
	}
	return v, true, nil
}

// queryInputs reads the seven inputs; a missing parameter keeps its default.
func queryInputs(q url.Values) (model.ContactInputs, error) {
	in := model.DefaultInputs()
	for _, f := range model.Fields {
		v, ok, err := parseFloat(q, queryName(f))
		if err != nil {
			return in, err
		}
		if ok {
			in = in.With(f, v)
		}
	}
	return in, nil
}

// queryRange reads <prefix>policy, lower, upper and count. Keys that are
// absent keep the value of def; nil means no key was given at all.
func queryRange(q url.Values, prefix string, def sweep.RangeSpec) (*model.RangeReq, error) {
	r := model.RangeReq{
		Policy: def.Policy.String(),
		Lower:  def.Lower,
		Upper:  def.Upper,
		Count:  def.Count,
	}
	given := false
	if p := q.Get(prefix + "policy"); p != "" {
		r.Policy = p
		given = true
	}
	for key, dst := range map[string]*float64{"lower": &r.Lower, "upper": &r.Upper} {
		v, ok, err := parseFloat(q, prefix+key)
		if err != nil {
			return nil, err
		}
		if ok {
			*dst = v
			given = true
		}
	}
	if s := q.Get(prefix + "count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return nil, badRequestf("parameter %scount: %q is not a positive integer", prefix, s)
		}
		r.Count = n
		given = true
	}
	if !given {
		return nil, nil
	}
	return &r, nil
}

// queryRequest builds an evaluate request from the query string.
// Curves come from repeated curve=<field>, heatmaps from grid=<x>,<y>.
func queryRequest(q url.Values) (model.EvaluateRequest, error) {
	in, err := queryInputs(q)
	if err != nil {
		return model.EvaluateRequest{}, err
	}
	req := model.EvaluateRequest{Inputs: in, Unit: q.Get("unit")}
	for _, c := range q["curve"] {
		req.Curves = append(req.Curves, model.CurveReq{Field: c})
	}
	for _, g := range q["grid"] {
		parts := strings.Split(g, ",")
		if len(parts) != 2 {
			return req, badRequestf("parameter grid: want <x>,<y>, got %q", g)
		}
		req.Grids = append(req.Grids, model.GridReq{X: parts[0], Y: parts[1]})
	}
	return req, nil
}

func (s *Server) prepare(req model.EvaluateRequest) (*result.Result, error) {
	cfg, asm := s.current()
	rr, err := convertRequest(req, cfg.SweepDefaults())
	if err != nil {
		return nil, err
	}
	return asm.Prepare(rr)
}

// prepareCurve evaluates the single curve named by field=.
func (s *Server) prepareCurve(q url.Values) (*result.Result, error) {
	req, err := queryRequest(q)
	if err != nil {
		return nil, err
	}
	f, err := parseField(q.Get("field"))
	if err != nil {
		return nil, err
	}
	r, err := queryRange(q, "", s.sweepDefaults().Spec(f))
	if err != nil {
		return nil, err
	}
	req.Curves = []model.CurveReq{{Field: f.String(), Range: r}}
	req.Grids = nil
	return s.prepare(req)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", contentJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, reply := errorReply(err)
	entry := s.log.WithFields(log.Fields{
		"path":   r.URL.Path,
		"status": status,
		"kind":   reply.Kind,
	})
	if status >= http.StatusInternalServerError {
		entry.Error(err)
	} else {
		entry.Info(err)
	}
	s.writeJSON(w, status, reply)
}

// attach renders into memory first so a failure can still be sent as JSON.
func (s *Server) attach(w http.ResponseWriter, r *http.Request, contentType, filename string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		s.log.WithError(err).Warn("write response")
	}
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	req, err := queryRequest(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.prepare(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, evaluateReply(res))
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	cfg, _ := s.current()
	s.writeJSON(w, http.StatusOK, defaultsReply(cfg))
}

func (s *Server) handleRecordCSV(w http.ResponseWriter, r *http.Request) {
	req, err := queryRequest(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Curves, req.Grids = nil, nil
	res, err := s.prepare(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.attach(w, r, contentCSV, export.RecordFileName, func(out io.Writer) error {
		return export.WriteRecordCSV(out, res.Record)
	})
}

func (s *Server) handleCurveCSV(w http.ResponseWriter, r *http.Request) {
	res, err := s.prepareCurve(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c := res.Curves[0]
	s.attach(w, r, contentCSV, fmt.Sprintf("deltaT_curve_%s.csv", c.Field), func(out io.Writer) error {
		return export.WriteCurveCSV(out, c)
	})
}

func (s *Server) handleGridCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := queryRequest(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	x, err := parseField(q.Get("x"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	y, err := parseField(q.Get("y"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defaults := s.sweepDefaults()
	g := model.GridReq{X: x.String(), Y: y.String()}
	if g.XRange, err = queryRange(q, "x_", defaults.GridSpec(x)); err != nil {
		s.writeError(w, r, err)
		return
	}
	if g.YRange, err = queryRange(q, "y_", defaults.GridSpec(y)); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Curves, req.Grids = nil, []model.GridReq{g}

	res, err := s.prepare(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	grid := res.Grids[0]
	name := fmt.Sprintf("deltaT_heatmap_%s_%s.csv", grid.XField, grid.YField)
	s.attach(w, r, contentCSV, name, func(out io.Writer) error {
		return export.WriteGridCSV(out, grid)
	})
}

func (s *Server) handleXLSX(w http.ResponseWriter, r *http.Request) {
	req, err := queryRequest(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.prepare(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.attach(w, r, contentXLSX, "deltaT_results.xlsx", func(out io.Writer) error {
		return export.WriteXLSX(out, res)
	})
}

func (s *Server) handleCurvePNG(w http.ResponseWriter, r *http.Request) {
	res, err := s.prepareCurve(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.attach(w, r, contentPNG, "", func(out io.Writer) error {
		err := export.RenderCurvePNG(out, res.Curves[0])
		if errors.Is(err, export.ErrTooFewPoints) {
			return badRequestf("%v", err)
		}
		return err
	})
}

func (s *Server) sweepDefaults() sweep.Defaults {
	cfg, _ := s.current()
	return cfg.SweepDefaults()
}
