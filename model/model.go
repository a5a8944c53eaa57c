package model

// Messages exchanged with the browser over the websocket.
// Content carries the JSON encoding of one of the payloads below.
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// request types
const (
	MsgEvaluate = "evaluate"
	MsgDefaults = "defaults"
)

// reply types
const (
	MsgResult = "result"
	MsgError  = "error"
)

// error kinds reported in ErrorReply
const (
	KindZeroInput    = "zero_input"
	KindInvalidInput = "invalid_input"
	KindDomain       = "domain"
	KindBadRequest   = "bad_request"
	KindInternal     = "internal"
)

// Range of a sweep as sent by the client.
// Policy is "absolute" (Lower/Upper are bounds) or "relative" (multipliers of the base value).
type RangeReq struct {
	Policy string  `json:"policy"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Count  int     `json:"count"`
}

// Sensitivity curve request, Range nil means the configured default.
type CurveReq struct {
	Field string    `json:"field"`
	Range *RangeReq `json:"range,omitempty"`
}

// Heatmap request over two different fields.
type GridReq struct {
	X      string    `json:"x"`
	Y      string    `json:"y"`
	XRange *RangeReq `json:"x_range,omitempty"`
	YRange *RangeReq `json:"y_range,omitempty"`
}

type EvaluateRequest struct {
	Inputs ContactInputs `json:"inputs"`
	// "mm" when r, r_d, b and b_PTFE are given in millimetres
	Unit   string     `json:"unit,omitempty"`
	Curves []CurveReq `json:"curves,omitempty"`
	Grids  []GridReq  `json:"grids,omitempty"`
}

// Failed samples are sent as null.
type CurveData struct {
	Field string     `json:"field"`
	Label string     `json:"label"`
	X     []float64  `json:"x"`
	Y     []*float64 `json:"y"`
}

type HeatmapData struct {
	X       string       `json:"x"`
	Y       string       `json:"y"`
	XLabel  string       `json:"x_label"`
	YLabel  string       `json:"y_label"`
	XValues []float64    `json:"x_values"`
	YValues []float64    `json:"y_values"`
	Z       [][]*float64 `json:"z"` // rows follow YValues
	Invalid int          `json:"invalid"`
}

type EvaluateReply struct {
	ID       string        `json:"id"`
	Inputs   ContactInputs `json:"inputs"`
	DeltaTc  float64       `json:"delta_tc"`
	Curves   []CurveData   `json:"curves,omitempty"`
	Heatmaps []HeatmapData `json:"heatmaps,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

type DefaultsReply struct {
	Inputs    ContactInputs       `json:"inputs"`
	Bounds    map[string]Bound    `json:"bounds"`
	Ranges    map[string]RangeReq `json:"ranges"`
	GridCount int                 `json:"grid_count"`
}

type ErrorReply struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}
