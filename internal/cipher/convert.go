package cipher

// Outcome is one codec's rendering of the input.
type Outcome struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Result      Result `json:"result"`
	// Copyable is false when there is nothing worth copying: the codec
	// failed or the input was empty.
	Copyable bool `json:"copyable"`
}

// Report holds every codec's outcome for a single input, decoders first.
type Report struct {
	Input    string    `json:"-"`
	LineMode bool      `json:"line_mode"`
	Decoded  []Outcome `json:"decoded"`
	Encoded  []Outcome `json:"encoded"`
}

// Failures counts the outcomes that did not convert.
func (r Report) Failures() int {
	n := 0
	for _, list := range [][]Outcome{r.Decoded, r.Encoded} {
		for _, o := range list {
			if !o.Result.OK() {
				n++
			}
		}
	}
	return n
}

// Convert runs text through every registered codec. A failing codec does
// not affect the others.
func Convert(text string, lineMode bool) Report {
	return Report{
		Input:    text,
		LineMode: lineMode,
		Decoded:  outcomes(decoders, text, lineMode),
		Encoded:  outcomes(encoders, text, lineMode),
	}
}

// Run converts text with a single codec and wraps it as an Outcome.
func Run(c Codec, text string, lineMode bool) Outcome {
	res := c.Apply(text, lineMode)
	return Outcome{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Result:      res,
		Copyable:    text != "" && res.OK(),
	}
}

func outcomes(codecs []Codec, text string, lineMode bool) []Outcome {
	out := make([]Outcome, 0, len(codecs))
	for _, c := range codecs {
		out = append(out, Run(c, text, lineMode))
	}
	return out
}
